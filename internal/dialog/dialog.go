// Package dialog implements the create, edit and delete forms of the
// console as a small state machine around a backend write.
package dialog

import (
	"context"
	"errors"
	"sync"

	"kiosk-admin-console/internal/model"
	"kiosk-admin-console/internal/upstream"
)

// State is the lifecycle state of a dialog.
type State int

const (
	Closed State = iota
	Open
	Submitting
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Submitting:
		return "submitting"
	default:
		return "closed"
	}
}

// Outcome is the result of one Submit.
type Outcome int

const (
	// Invalid means validation failed; the backend was not called.
	Invalid Outcome = iota
	Failed
	Succeeded
)

var (
	ErrNotOpen = errors.New("dialog: not open")
	ErrBusy    = errors.New("dialog: submission in progress")
)

// Event describes a finished submission.
type Event struct {
	Resource string
	Action   string
	EntityID string
	Actor    string
	Outcome  string
	Message  string
}

// Hook runs after a submission finishes. err is nil on success.
type Hook func(ctx context.Context, ev Event, err error)

// Submitter performs the backend write for form.
type Submitter[F any] func(ctx context.Context, form F) error

// Spec identifies what a dialog mutates.
type Spec struct {
	Resource string
	// Noun names the entity in messages, e.g. "tổ chức".
	Noun     string
	Action   string
	EntityID string
	Actor    string
}

// Dialog is one form dialog. Safe for concurrent use.
type Dialog[F any] struct {
	spec      Spec
	validator *Validator
	submit    Submitter[F]
	onSuccess []Hook
	onFailure []Hook

	mu          sync.Mutex
	state       State
	form        F
	fieldErrors FieldErrors
	lastError   string
}

// New returns a Closed dialog.
func New[F any](spec Spec, v *Validator, submit Submitter[F]) *Dialog[F] {
	if v == nil {
		v = NewValidator()
	}
	return &Dialog[F]{spec: spec, validator: v, submit: submit}
}

// OnSuccess registers hooks run after a successful submission, in order.
func (d *Dialog[F]) OnSuccess(hooks ...Hook) *Dialog[F] {
	d.onSuccess = append(d.onSuccess, hooks...)
	return d
}

// OnFailure registers hooks run after a failed backend call.
func (d *Dialog[F]) OnFailure(hooks ...Hook) *Dialog[F] {
	d.onFailure = append(d.onFailure, hooks...)
	return d
}

// Open shows the dialog, prefilled when editing.
func (d *Dialog[F]) Open(prefill *F) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Submitting {
		return
	}
	var form F
	if prefill != nil {
		form = *prefill
	}
	d.form = form
	d.fieldErrors = nil
	d.lastError = ""
	d.state = Open
}

// Close hides the dialog. A dialog cannot be closed while submitting.
func (d *Dialog[F]) Close() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Submitting {
		return false
	}
	d.state = Closed
	d.fieldErrors = nil
	d.lastError = ""
	return true
}

// Submit validates form and, when valid, performs the backend write.
// On failure the dialog stays Open with the form retained.
func (d *Dialog[F]) Submit(ctx context.Context, form F) (Outcome, error) {
	d.mu.Lock()
	switch d.state {
	case Closed:
		d.mu.Unlock()
		return Invalid, ErrNotOpen
	case Submitting:
		d.mu.Unlock()
		return Invalid, ErrBusy
	}
	d.form = form
	d.lastError = ""

	fieldErrors, err := d.validator.Validate(form)
	if err != nil {
		d.mu.Unlock()
		return Invalid, err
	}
	if len(fieldErrors) > 0 {
		d.fieldErrors = fieldErrors
		d.mu.Unlock()
		return Invalid, nil
	}
	d.fieldErrors = nil
	d.state = Submitting
	d.mu.Unlock()

	err = d.submit(ctx, form)

	ev := Event{
		Resource: d.spec.Resource,
		Action:   d.spec.Action,
		EntityID: d.spec.EntityID,
		Actor:    d.spec.Actor,
	}

	d.mu.Lock()
	if err != nil {
		d.state = Open
		d.lastError = upstream.Message(err)
		ev.Outcome = model.OutcomeFailure
		ev.Message = d.lastError
	} else {
		d.state = Closed
		ev.Outcome = model.OutcomeSuccess
		ev.Message = SuccessMessage(d.spec.Action, d.spec.Noun)
	}
	d.mu.Unlock()

	if err != nil {
		for _, h := range d.onFailure {
			h(ctx, ev, err)
		}
		return Failed, err
	}
	for _, h := range d.onSuccess {
		h(ctx, ev, nil)
	}
	return Succeeded, nil
}

func (d *Dialog[F]) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Form returns the prefilled or last submitted form.
func (d *Dialog[F]) Form() F {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.form
}

func (d *Dialog[F]) FieldErrors() FieldErrors {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(FieldErrors, len(d.fieldErrors))
	for k, v := range d.fieldErrors {
		out[k] = v
	}
	return out
}

// Error returns the user-facing message of the last failed backend call.
func (d *Dialog[F]) Error() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastError
}

func (d *Dialog[F]) Spec() Spec { return d.spec }

// SuccessMessage is the toast text after a successful mutation.
func SuccessMessage(action, noun string) string {
	switch action {
	case model.ActionCreate:
		return "Thêm " + noun + " mới thành công."
	case model.ActionUpdate:
		return "Cập nhật " + noun + " thành công."
	case model.ActionDelete:
		return "Xóa " + noun + " thành công."
	}
	return "Thành công."
}

// FailureTitle is the toast title after a failed mutation.
func FailureTitle(action, noun string) string {
	switch action {
	case model.ActionCreate:
		return "Lỗi khi thêm " + noun
	case model.ActionUpdate:
		return "Lỗi khi cập nhật " + noun
	case model.ActionDelete:
		return "Lỗi khi xóa " + noun
	}
	return "Lỗi"
}
