package notification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"kiosk-admin-console/internal/dialog"
	"kiosk-admin-console/internal/metrics"
	"kiosk-admin-console/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Alert is the JSON payload delivered to the service worker.
type Alert struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// WorkerPool sends mutation alerts to the push subscriptions of the other
// operators.
type WorkerPool struct {
	size     int
	jobs     chan dialog.Event
	db       *gorm.DB
	webpush  *webpush.Options
	sender   NotificationSender
	recorder metrics.Recorder
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:     size,
		jobs:     make(chan dialog.Event, size*16),
		db:       db,
		webpush:  webpushOptions,
		sender:   &WebPushSender{},
		recorder: metrics.NoopRecorder{},
	}
}

// SetRecorder installs a metrics recorder.
func (wp *WorkerPool) SetRecorder(r metrics.Recorder) {
	if r != nil {
		wp.recorder = r
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case ev := <-wp.jobs:
			wp.sendAlerts(ctx, ev)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an alert for ev. Alerts are dropped when the queue is full.
func (wp *WorkerPool) Dispatch(ev dialog.Event) {
	select {
	case wp.jobs <- ev:
	default:
		log.Printf("Push queue full; dropping alert for %s %s", ev.Action, ev.Resource)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan dialog.Event {
	return wp.jobs
}

// AlertFor builds the alert text of a mutation.
func AlertFor(ev dialog.Event) Alert {
	body := ev.Message
	if ev.Actor != "" {
		body = ev.Actor + ": " + body
	}
	return Alert{Title: "Kiosk Admin", Body: body, URL: "/ui/" + ev.Resource}
}

func (wp *WorkerPool) sendAlerts(ctx context.Context, ev dialog.Event) {
	if ev.Outcome != model.OutcomeSuccess {
		return
	}

	var subscriptions []model.PushSubscription
	if err := wp.db.WithContext(ctx).Where("user_id <> ?", ev.Actor).Find(&subscriptions).Error; err != nil {
		log.Printf("Error fetching subscriptions for %s %s: %v", ev.Action, ev.Resource, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(AlertFor(ev))
	if err != nil {
		log.Printf("Error encoding alert: %v", err)
		return
	}

	log.Printf("Sending %d alerts for %s %s", len(subscriptions), ev.Action, ev.Resource)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.recorder.IncPushResult(false)
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()
	wp.recorder.IncPushResult(resp.StatusCode < 300)

	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
