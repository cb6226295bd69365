package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kiosk-admin-console/internal/model"
)

// Any matches any argument in sqlmock expectations.
type Any struct{}

func (a Any) Match(v driver.Value) bool {
	return true
}

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, gormDB.AutoMigrate(&model.AuditEntry{}, &model.ViewPreference{}, &model.PushSubscription{}))
	return NewGormStore(gormDB)
}

func TestGormStore_RecordAudit(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "audit_entries"`)).
		WithArgs("u-1", "organizations", "org-1", model.ActionDelete, model.OutcomeSuccess, "Xóa tổ chức thành công.", Any{}).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	entry := &model.AuditEntry{
		Actor:    "u-1",
		Resource: "organizations",
		EntityID: "org-1",
		Action:   model.ActionDelete,
		Outcome:  model.OutcomeSuccess,
		Message:  "Xóa tổ chức thành công.",
	}
	require.NoError(t, s.RecordAudit(context.Background(), entry))
	assert.Equal(t, int64(7), entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func seedAudit(t *testing.T, s Store) {
	t.Helper()
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	entries := []model.AuditEntry{
		{Actor: "lan", Resource: "organizations", EntityID: "o-1", Action: model.ActionCreate, Outcome: model.OutcomeSuccess, Message: "Thêm tổ chức mới thành công."},
		{Actor: "minh", Resource: "devices", EntityID: "d-1", Action: model.ActionUpdate, Outcome: model.OutcomeFailure, Message: "100%_done"},
		{Actor: "lan", Resource: "devices", EntityID: "d-2", Action: model.ActionDelete, Outcome: model.OutcomeSuccess, Message: "Xóa thiết bị thành công."},
	}
	for i := range entries {
		entries[i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.RecordAudit(context.Background(), &entries[i]))
	}
}

func TestGormStore_ListAudit(t *testing.T) {
	s := newSQLiteStore(t)
	seedAudit(t, s)
	ctx := context.Background()

	testCases := []struct {
		name      string
		params    model.PagingParams
		wantIDs   []string
		wantTotal int
		wantPages int
	}{
		{name: "newest first by default", params: model.PagingParams{Page: 1, Size: 10}, wantIDs: []string{"d-2", "d-1", "o-1"}, wantTotal: 3, wantPages: 1},
		{name: "second page", params: model.PagingParams{Page: 2, Size: 2}, wantIDs: []string{"o-1"}, wantTotal: 3, wantPages: 2},
		{name: "filter by actor", params: model.PagingParams{FilterBy: "actor", FilterQuery: "la"}, wantIDs: []string{"d-2", "o-1"}, wantTotal: 2, wantPages: 1},
		{name: "wildcards are literal", params: model.PagingParams{FilterBy: "message", FilterQuery: "%_"}, wantIDs: []string{"d-1"}, wantTotal: 1, wantPages: 1},
		{name: "outcome and action", params: model.PagingParams{Status: model.OutcomeSuccess, Type: model.ActionCreate}, wantIDs: []string{"o-1"}, wantTotal: 1, wantPages: 1},
		{name: "sort ascending", params: model.PagingParams{SortBy: "entityId", IsAsc: model.Bool(true)}, wantIDs: []string{"d-1", "d-2", "o-1"}, wantTotal: 3, wantPages: 1},
		{name: "unknown sort column ignored", params: model.PagingParams{SortBy: "password", IsAsc: model.Bool(true)}, wantIDs: []string{"d-2", "d-1", "o-1"}, wantTotal: 3, wantPages: 1},
		{name: "unknown filter column ignored", params: model.PagingParams{FilterBy: "1=1; --", FilterQuery: "x"}, wantIDs: []string{"d-2", "d-1", "o-1"}, wantTotal: 3, wantPages: 1},
		{name: "no match", params: model.PagingParams{FilterBy: "resource", FilterQuery: "orders"}, wantIDs: []string{}, wantTotal: 0, wantPages: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := s.ListAudit(ctx, tc.params)
			require.NoError(t, err)

			ids := []string{}
			for _, e := range page.Items {
				ids = append(ids, e.EntityID)
			}
			assert.Equal(t, tc.wantIDs, ids)
			assert.Equal(t, tc.wantTotal, page.Total)
			assert.Equal(t, tc.wantPages, page.TotalPages)
			assert.NotNil(t, page.Items)
		})
	}
}

func TestGormStore_ViewPreference(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	hidden, err := s.ViewPreference(ctx, "u-1", "devices")
	require.NoError(t, err)
	assert.Nil(t, hidden)

	require.NoError(t, s.SaveViewPreference(ctx, "u-1", "devices", []string{"serialNumber", "createdDate"}))
	require.NoError(t, s.SaveViewPreference(ctx, "u-1", "devices", []string{"createdDate"}))

	hidden, err = s.ViewPreference(ctx, "u-1", "devices")
	require.NoError(t, err)
	assert.Equal(t, []string{"createdDate"}, hidden)

	other, err := s.ViewPreference(ctx, "u-2", "devices")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestGormStore_PushSubscriptions(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	sub := &model.PushSubscription{Endpoint: "https://push.example/1", P256DH: "k1", Auth: "a1", UserID: "u-1"}
	require.NoError(t, s.SavePushSubscription(ctx, sub))
	require.NoError(t, s.SavePushSubscription(ctx, &model.PushSubscription{Endpoint: "https://push.example/1", P256DH: "k2", Auth: "a2", UserID: "u-1"}))

	got, err := s.PushSubscription(ctx, "https://push.example/1")
	require.NoError(t, err)
	assert.Equal(t, "k2", got.P256DH)
	assert.Equal(t, "a2", got.Auth)

	require.NoError(t, s.DeletePushSubscription(ctx, "https://push.example/1"))
	_, err = s.PushSubscription(ctx, "https://push.example/1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeletePushSubscription(ctx, "https://push.example/1"), ErrNotFound)
}
