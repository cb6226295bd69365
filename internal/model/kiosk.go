package model

// KioskVersion is a released kiosk configuration.
type KioskVersion struct {
	KioskVersionID string    `json:"kioskVersionId"`
	VersionTitle   string    `json:"versionTitle"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"`
	CreatedDate    Timestamp `json:"createdDate"`
	UpdatedDate    Timestamp `json:"updatedDate"`
}

// SyncTask tracks whether a kiosk has picked up its version configuration.
type SyncTask struct {
	SyncTaskID     string    `json:"syncTaskId"`
	KioskID        string    `json:"kioskId"`
	KioskVersionID string    `json:"kioskVersionId"`
	IsSynced       bool      `json:"isSynced"`
	SyncedAt       Timestamp `json:"syncedAt"`
	CreatedDate    Timestamp `json:"createdDate"`
}
