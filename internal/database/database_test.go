package database

import (
	"errors"
	"fmt"
	"testing"

	"skyhub/internal/config"
	"skyhub/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = configurePool(db, &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestConnect_SQLiteMigratesSchema(t *testing.T) {
	prevDB, prevRead := DB, ReadDB
	t.Cleanup(func() { DB, ReadDB = prevDB, prevRead })

	db, err := Connect(&config.Config{Env: "test", DBDriver: "sqlite", DBPath: ":memory:"})
	require.NoError(t, err)
	assert.Same(t, db, DB)
	assert.Nil(t, GetReadDB())

	for _, m := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(m), "missing table for %T", m)
	}
}

func TestUniqueIndexIgnoresSoftDeletedUsers(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	first := models.User{Username: "pilot", Email: "pilot@example.com", Password: "x"}
	require.NoError(t, db.Create(&first).Error)

	dup := models.User{Username: "pilot", Email: "other@example.com", Password: "x"}
	err = db.Create(&dup).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.Contains(t, ViolatedConstraint(err), "username")

	require.NoError(t, db.Delete(&first).Error)
	again := models.User{Username: "pilot", Email: "pilot@example.com", Password: "x"}
	assert.NoError(t, db.Create(&again).Error)
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email_active"}
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", pgErr)))
	assert.Equal(t, "idx_users_email_active", ViolatedConstraint(pgErr))

	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.Equal(t, "users.email", ViolatedConstraint(errors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestSchemaMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"development defaults to auto", config.Config{Env: "development"}, SchemaModeAuto},
		{"production defaults to off", config.Config{Env: "production"}, SchemaModeOff},
		{"production opt-in", config.Config{Env: "production", DBSchemaMode: "auto"}, SchemaModeAuto},
		{"test opt-out", config.Config{Env: "test", DBSchemaMode: "off"}, SchemaModeOff},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SchemaMode(&tt.cfg))
		})
	}
}

func TestConnect_SchemaOffLeavesDatabaseEmpty(t *testing.T) {
	prevDB, prevRead := DB, ReadDB
	t.Cleanup(func() { DB, ReadDB = prevDB, prevRead })

	cfg := &config.Config{Env: "test", DBDriver: "sqlite", DBPath: ":memory:", DBSchemaMode: SchemaModeOff}
	db, err := Connect(cfg)
	require.NoError(t, err)

	status, err := GetSchemaStatus(db, cfg)
	require.NoError(t, err)
	assert.False(t, status.Ready())
	assert.Len(t, status.MissingTables, len(PersistentModels()))
	assert.Contains(t, status.MissingTables, "users")

	require.NoError(t, Migrate(db))
	status, err = GetSchemaStatus(db, cfg)
	require.NoError(t, err)
	assert.True(t, status.Ready())
	assert.Empty(t, status.MissingTables)
	assert.Equal(t, SchemaModeOff, status.Mode)
}
