package database

import (
	"testing"

	"agora/internal/config"
	"agora/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "posts", "comments", "likes"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}

	// The like uniqueness pair backs the idempotent toggle.
	assert.True(t, db.Migrator().HasIndex(&models.Like{}, "idx_like_user_post"))
}

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}

	assert.NoError(t, configurePool(db, cfg))
}
