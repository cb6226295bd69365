package dialog

import (
	"context"
	"log"
	"time"

	"kiosk-admin-console/internal/model"
)

// Revalidator forces a re-fetch of every cached page of an endpoint.
type Revalidator interface {
	Revalidate(ctx context.Context, endpoint string) error
}

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	RecordAudit(ctx context.Context, entry *model.AuditEntry) error
}

// Dispatcher queues mutation alerts.
type Dispatcher interface {
	Dispatch(ev Event)
}

// Notifier shows a toast to the operator who submitted the dialog.
type Notifier func(title, description string, failed bool)

// Revalidate refreshes endpoints after a successful mutation. The
// dialog's own resource is always included.
func Revalidate(r Revalidator, endpoints ...string) Hook {
	return func(ctx context.Context, ev Event, _ error) {
		seen := map[string]bool{}
		for _, endpoint := range append([]string{ev.Resource}, endpoints...) {
			if seen[endpoint] {
				continue
			}
			seen[endpoint] = true
			if err := r.Revalidate(ctx, endpoint); err != nil {
				log.Printf("dialog: revalidate %s: %v", endpoint, err)
			}
		}
	}
}

// Audit records the submission.
func Audit(rec AuditRecorder) Hook {
	return func(ctx context.Context, ev Event, _ error) {
		entry := &model.AuditEntry{
			Actor:     ev.Actor,
			Resource:  ev.Resource,
			EntityID:  ev.EntityID,
			Action:    ev.Action,
			Outcome:   ev.Outcome,
			Message:   ev.Message,
			CreatedAt: time.Now().UTC(),
		}
		if err := rec.RecordAudit(ctx, entry); err != nil {
			log.Printf("dialog: audit %s %s: %v", ev.Action, ev.Resource, err)
		}
	}
}

// Dispatch queues a push alert.
func Dispatch(d Dispatcher) Hook {
	return func(_ context.Context, ev Event, _ error) {
		d.Dispatch(ev)
	}
}

// Notify shows a success toast, or the server error on failure.
func Notify(n Notifier, noun string) Hook {
	return func(_ context.Context, ev Event, err error) {
		if err != nil {
			n(FailureTitle(ev.Action, noun), ev.Message, true)
			return
		}
		n("Thành công", ev.Message, false)
	}
}
