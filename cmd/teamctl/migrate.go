package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"

	"github.com/codr1/Teamgrid/internal/config"
	"github.com/codr1/Teamgrid/internal/db"
)

// runMigrate drives the embedded migrations without the automatic up-run
// that db.New performs.
func runMigrate(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(out)
	steps := fs.Int("steps", 0, "Number of migrations to roll back with 'down' (0 rolls back all)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	direction := fs.Arg(0)
	if direction == "" {
		direction = "up"
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Filename), 0755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}
	sqlDB, err := db.OpenWithoutMigrations(cfg.Database.Filename)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	m, err := db.NewMigrator(sqlDB)
	if err != nil {
		return err
	}

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Fprintln(out, "No migrations applied")
			return nil
		}
		if err != nil {
			return fmt.Errorf("get version: %w", err)
		}
		fmt.Fprintf(out, "Version: %d, Dirty: %v\n", version, dirty)
		return nil
	default:
		fmt.Fprintf(out, "unknown migrate direction %q (want up, down or version)\n", direction)
		return errUsage
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintln(out, "No change")
		return nil
	}
	fmt.Fprintf(out, "Migrate %s complete\n", direction)
	return nil
}
