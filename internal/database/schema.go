package database

import (
	"fmt"

	"skyhub/internal/config"

	"gorm.io/gorm"
)

const (
	SchemaModeAuto = "auto"
	SchemaModeOff  = "off"
)

// SchemaMode resolves DB_SCHEMA_MODE. Unset means auto everywhere except
// production, where the schema is applied explicitly with cmd/migrate.
func SchemaMode(cfg *config.Config) string {
	switch cfg.DBSchemaMode {
	case SchemaModeAuto, SchemaModeOff:
		return cfg.DBSchemaMode
	}
	if cfg.IsProduction() {
		return SchemaModeOff
	}
	return SchemaModeAuto
}

// SchemaStatus reports which PersistentModels tables exist.
type SchemaStatus struct {
	Mode          string
	Environment   string
	PresentTables []string
	MissingTables []string
}

// Ready reports whether every schema-managed table exists.
func (s *SchemaStatus) Ready() bool {
	return len(s.MissingTables) == 0
}

func GetSchemaStatus(db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	status := &SchemaStatus{
		Mode:          SchemaMode(cfg),
		Environment:   cfg.Env,
		PresentTables: []string{},
		MissingTables: []string{},
	}
	migrator := db.Migrator()
	for _, m := range PersistentModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", m, err)
		}
		table := stmt.Schema.Table
		if migrator.HasTable(table) {
			status.PresentTables = append(status.PresentTables, table)
		} else {
			status.MissingTables = append(status.MissingTables, table)
		}
	}
	return status, nil
}
