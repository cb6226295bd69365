package model

import (
	"strings"
	"time"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AuditEntry records a mutation an operator submitted through the console.
type AuditEntry struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Actor     string    `gorm:"size:128;not null;index" json:"actor"`
	Resource  string    `gorm:"size:64;not null;index" json:"resource"`
	EntityID  string    `gorm:"size:128" json:"entityId"`
	Action    string    `gorm:"size:16;not null" json:"action"`
	Outcome   string    `gorm:"size:16;not null" json:"outcome"`
	Message   string    `gorm:"size:512" json:"message"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}

// ViewPreference stores which columns an operator hid on a list screen.
type ViewPreference struct {
	UserID        string    `gorm:"primaryKey;size:64"`
	Resource      string    `gorm:"primaryKey;size:64"`
	HiddenColumns string    `gorm:"size:1024;not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// Hidden returns the hidden column ids.
func (p ViewPreference) Hidden() []string {
	if p.HiddenColumns == "" {
		return nil
	}
	return strings.Split(p.HiddenColumns, ",")
}

// SetHidden stores the hidden column ids.
func (p *ViewPreference) SetHidden(ids []string) {
	p.HiddenColumns = strings.Join(ids, ",")
}

var AuditActions = Enum{
	{Value: ActionCreate, Label: "Thêm", Tone: ToneSuccess},
	{Value: ActionUpdate, Label: "Cập nhật", Tone: ToneInfo},
	{Value: ActionDelete, Label: "Xóa", Tone: ToneDanger},
}

var AuditOutcomes = Enum{
	{Value: OutcomeSuccess, Label: "Thành công", Tone: ToneSuccess},
	{Value: OutcomeFailure, Label: "Thất bại", Tone: ToneDanger},
}
