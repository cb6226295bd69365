package model

import "time"

// PushSubscription holds an operator's browser push subscription for mutation alerts.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	UserID    string    `gorm:"size:64;index"`
	CreatedAt time.Time `gorm:"not null"`
}
