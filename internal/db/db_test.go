package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosk-admin-console/config"
	"kiosk-admin-console/internal/model"
)

func TestInit_SQLiteMigrates(t *testing.T) {
	gormDB, err := Init(&config.DatabaseConfig{Driver: "sqlite", DSN: "file::memory:"})
	require.NoError(t, err)

	for _, table := range []any{&model.AuditEntry{}, &model.ViewPreference{}, &model.PushSubscription{}} {
		assert.True(t, gormDB.Migrator().HasTable(table))
	}
	assert.True(t, gormDB.Migrator().HasColumn(&model.PushSubscription{}, "p256dh"))
}

func TestInit_UnknownDriver(t *testing.T) {
	_, err := Init(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
