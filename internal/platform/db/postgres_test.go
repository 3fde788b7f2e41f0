package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type migrationMarker struct {
	ID   uint
	Name string
}

func openSQLite(t *testing.T) *Postgres {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return &Postgres{DB: db}
}

func TestConnectRequiresDSN(t *testing.T) {
	_, err := Connect("", Options{})
	require.Error(t, err)
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{MaxOpenConns: 4}.withDefaults()
	assert.Equal(t, 4, opts.MaxOpenConns)
	assert.Equal(t, 5, opts.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, opts.ConnMaxLifetime)
	assert.Equal(t, 5*time.Second, opts.PingTimeout)
}

func TestMigrateRunsInOrderAndStopsOnFailure(t *testing.T) {
	pg := openSQLite(t)
	defer func() { _ = pg.Close() }()

	var calls []string
	err := pg.Migrate(context.Background(),
		func(db *gorm.DB) error {
			calls = append(calls, "marker")
			return db.AutoMigrate(&migrationMarker{})
		},
		nil,
		func(*gorm.DB) error {
			calls = append(calls, "broken")
			return errors.New("boom")
		},
		func(*gorm.DB) error {
			calls = append(calls, "never")
			return nil
		},
	)
	require.Error(t, err)
	assert.Equal(t, []string{"marker", "broken"}, calls)
	assert.True(t, pg.DB.Migrator().HasTable(&migrationMarker{}))
}

func TestCloseIsNilSafe(t *testing.T) {
	var pg *Postgres
	assert.NoError(t, pg.Close())
}
