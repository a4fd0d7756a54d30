package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"qrenoo/config"
	"qrenoo/internal/infrastructure/database"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

const migrationsPath = "file://migrations"

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]

	cfg, err := config.LoadWorkerConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logrus.Infof("Connecting to database %s@%s:%s/%s", cfg.DB.User, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name)

	m, err := migrate.New(migrationsPath, database.URL(cfg.DB))
	if err != nil {
		logrus.Fatalf("Failed to initialize migrations: %v", err)
	}
	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			logrus.Errorf("Failed to close migration resources: %v, %v", sourceErr, dbErr)
		}
	}()

	switch command {
	case "up":
		err := m.Up()
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			logrus.Info("No change: database is up to date")
		case err != nil:
			logrus.Fatalf("Failed to apply migrations: %v", err)
		default:
			logrus.Info("Migrations applied")
		}

	case "down":
		if err := m.Steps(-1); err != nil {
			logrus.Fatalf("Failed to roll back the last migration: %v", err)
		}
		logrus.Info("Last migration rolled back")

	case "goto":
		if len(os.Args) < 3 {
			logrus.Fatal("A target version is required")
		}
		version, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			logrus.Fatalf("Invalid version: %v", err)
		}
		err = m.Migrate(uint(version))
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			logrus.Infof("No change: database already at version %d", version)
		case err != nil:
			logrus.Fatalf("Failed to migrate to version %d: %v", version, err)
		default:
			logrus.Infof("Migrated to version %d", version)
		}

	case "status":
		version, dirty, err := m.Version()
		switch {
		case errors.Is(err, migrate.ErrNilVersion):
			logrus.Info("No migrations applied yet")
		case err != nil:
			logrus.Fatalf("Failed to read migration version: %v", err)
		default:
			logrus.WithField("dirty", dirty).Infof("Current migration version: %d", version)
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: go run ./cmd/migrate [command]")
	fmt.Println("Commands:")
	fmt.Println("  up     - apply all pending migrations")
	fmt.Println("  down   - roll back the last migration")
	fmt.Println("  goto N - migrate to version N")
	fmt.Println("  status - print the current version")
}
