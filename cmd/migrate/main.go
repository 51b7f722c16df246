// Command migrate applies or inspects the database schema.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"skyhub/internal/config"
	"skyhub/internal/database"

	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <auto|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// connect without applying anything; the subcommand decides
	cfg.DBSchemaMode = database.SchemaModeOff

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	return execute(db, cfg, flag.Arg(0), os.Stdout)
}

func execute(db *gorm.DB, cfg *config.Config, cmd string, out io.Writer) error {
	switch strings.ToLower(strings.TrimSpace(cmd)) {
	case "auto":
		if err := database.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintln(out, "automigrations applied")
		return nil
	case "status":
		status, err := database.GetSchemaStatus(db, cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		fmt.Fprintf(out, "env=%s ready=%t present=%d missing=%d\n",
			status.Environment, status.Ready(), len(status.PresentTables), len(status.MissingTables))
		for _, table := range status.MissingTables {
			fmt.Fprintf(out, "missing: %s\n", table)
		}
		return nil
	default:
		return usage()
	}
}
