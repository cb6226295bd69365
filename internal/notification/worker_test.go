package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"kiosk-admin-console/internal/dialog"
	"kiosk-admin-console/internal/model"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func deleteEvent(actor string) dialog.Event {
	return dialog.Event{
		Resource: "organizations",
		Action:   model.ActionDelete,
		EntityID: "org-1",
		Actor:    actor,
		Outcome:  model.OutcomeSuccess,
		Message:  "Xóa tổ chức thành công.",
	}
}

func TestWorkerPool_Dispatch(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})

	wp.Dispatch(deleteEvent("u-1"))

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, "org-1", job.EntityID)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchDropsWhenFull(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})

	for i := 0; i < cap(wp.Jobs())+5; i++ {
		wp.Dispatch(deleteEvent("u-1"))
	}
	assert.Equal(t, cap(wp.Jobs()), len(wp.Jobs()))
}

func TestAlertFor(t *testing.T) {
	alert := AlertFor(deleteEvent("Lan"))
	assert.Equal(t, "Kiosk Admin", alert.Title)
	assert.Equal(t, "Lan: Xóa tổ chức thành công.", alert.Body)
	assert.Equal(t, "/ui/organizations", alert.URL)
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	gormDB, mock := newTestDB(t)
	wp := NewWorkerPool(1, gormDB, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	t.Run("sends alert to other operators", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				defer wg.Done()
				assert.Equal(t, "https://example.com/push", sub.Endpoint)
				var alert Alert
				assert.NoError(t, json.Unmarshal(payload, &alert))
				assert.Equal(t, "u-1: Xóa tổ chức thành công.", alert.Body)
				return &http.Response{
					StatusCode: http.StatusCreated,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions" WHERE user_id <> \$1`).
			WithArgs("u-1").
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "user_id", "created_at"}).
				AddRow("https://example.com/push", "test_p256dh", "test_auth", "u-2", time.Now()))

		wp.Dispatch(deleteEvent("u-1"))
		wg.Wait()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusGone,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions" WHERE user_id <> \$1`).
			WithArgs("u-1").
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "user_id", "created_at"}).
				AddRow("https://example.com/expired", "p", "a", "u-3", time.Now()))

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = \$1`).
			WithArgs("https://example.com/expired").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		wp.Dispatch(deleteEvent("u-1"))

		assert.Eventually(t, func() bool {
			return mock.ExpectationsWereMet() == nil
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("skips failed mutations", func(t *testing.T) {
		ev := deleteEvent("u-1")
		ev.Outcome = model.OutcomeFailure
		wp.Dispatch(ev)

		time.Sleep(50 * time.Millisecond)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
