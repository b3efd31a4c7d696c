package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/mwantia/qfilter/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "migrations.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestMigrator_MigrateStatusRollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	m := NewMigrator(db)

	require.NoError(t, m.Migrate(ctx))
	assert.True(t, db.Migrator().HasTable(&models.DataSource{}))
	assert.True(t, db.Migrator().HasTable(&models.Widget{}))

	statuses, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Applied)

	// second run is a no-op
	require.NoError(t, m.Migrate(ctx))

	require.NoError(t, m.Rollback(ctx))
	assert.False(t, db.Migrator().HasTable(&models.Widget{}))

	statuses, err = m.Status(ctx)
	require.NoError(t, err)
	assert.False(t, statuses[0].Applied)

	assert.Error(t, m.Rollback(ctx))
}
