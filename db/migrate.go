package db

import (
	"nfc-transactions-api/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies any pending migrations from migrationsPath against
// the database at connURL.
func RunMigrations(connURL, migrationsPath string) error {
	mig, err := migrate.New("file://"+migrationsPath, connURL)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to create migrate instance")
		return err
	}

	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		logger.Log.WithError(err).Error("Failed to apply migrations")
		return err
	}

	logger.Log.Info("Database migrations applied")
	return nil
}
