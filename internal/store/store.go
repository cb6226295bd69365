package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kiosk-admin-console/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// Store defines the interface for all database operations.
type Store interface {
	RecordAudit(ctx context.Context, entry *model.AuditEntry) error
	ListAudit(ctx context.Context, params model.PagingParams) (*model.PagingResponse[model.AuditEntry], error)

	ViewPreference(ctx context.Context, userID, resource string) ([]string, error)
	SaveViewPreference(ctx context.Context, userID, resource string, hidden []string) error

	SavePushSubscription(ctx context.Context, sub *model.PushSubscription) error
	PushSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeletePushSubscription(ctx context.Context, endpoint string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) RecordAudit(ctx context.Context, entry *model.AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record audit entry for %s %s: %w", entry.Action, entry.Resource, err)
	}
	return nil
}

// ListAudit returns one page of the audit log. FilterBy/FilterQuery match
// a column by substring, Status filters the outcome and Type the action.
func (s *gormStore) ListAudit(ctx context.Context, params model.PagingParams) (*model.PagingResponse[model.AuditEntry], error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	size := params.Size
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	q := s.db.WithContext(ctx).Model(&model.AuditEntry{})
	if column, ok := auditColumns[params.FilterBy]; ok && params.FilterQuery != "" {
		q = q.Where(column+" LIKE ? ESCAPE '\\'", "%"+escapeLike(params.FilterQuery)+"%")
	}
	if params.Status != "" {
		q = q.Where("outcome = ?", params.Status)
	}
	if params.Type != "" {
		q = q.Where("action = ?", params.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count audit entries: %w", err)
	}

	order := auditDefaultSort
	if column, ok := auditColumns[params.SortBy]; ok {
		dir := "ASC"
		if params.IsAsc != nil && !*params.IsAsc {
			dir = "DESC"
		}
		order = column + " " + dir + ", id " + dir
	}

	items := []model.AuditEntry{}
	if err := q.Order(order).Limit(size).Offset((page - 1) * size).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return &model.PagingResponse[model.AuditEntry]{
		Size:       size,
		Page:       page,
		Total:      int(total),
		TotalPages: totalPages,
		Items:      items,
	}, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ViewPreference returns the hidden columns of a screen, or nil when the
// operator never changed them.
func (s *gormStore) ViewPreference(ctx context.Context, userID, resource string) ([]string, error) {
	var pref model.ViewPreference
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND resource = ?", userID, resource).
		Take(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load view preference for %s: %w", resource, err)
	}
	return pref.Hidden(), nil
}

func (s *gormStore) SaveViewPreference(ctx context.Context, userID, resource string, hidden []string) error {
	pref := model.ViewPreference{UserID: userID, Resource: resource, UpdatedAt: time.Now().UTC()}
	pref.SetHidden(hidden)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "resource"}},
		DoUpdates: clause.AssignmentColumns([]string{"hidden_columns", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		return fmt.Errorf("failed to save view preference for %s: %w", resource, err)
	}
	return nil
}

// SavePushSubscription creates or refreshes a subscription keyed by endpoint.
func (s *gormStore) SavePushSubscription(ctx context.Context, sub *model.PushSubscription) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "user_id"}),
	}).Create(sub).Error
	if err != nil {
		return fmt.Errorf("failed to save push subscription: %w", err)
	}
	return nil
}

func (s *gormStore) PushSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).Where("endpoint = ?", endpoint).Take(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load push subscription: %w", err)
	}
	return &sub, nil
}

func (s *gormStore) DeletePushSubscription(ctx context.Context, endpoint string) error {
	res := s.db.WithContext(ctx).Where("endpoint = ?", endpoint).Delete(&model.PushSubscription{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete push subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
