// Package helper runs the schema migrations under migrations/postgres.
package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"

	"cowork/config"
	"cowork/infras/postgres"
	"cowork/shared/constant"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationSource = "file://migrations/postgres"

const (
	actionUp     = "up"
	actionDown   = "down"
	actionStepUp = "step-up"
	actionDrop   = "drop"
)

var errUnknownAction = errors.New("unknown migration action")

func getConnection(cfg *config.Config) (*migrate.Migrate, error) {
	extra := url.Values{}
	if cfg.DB.Postgres.MigrationTable != constant.Empty {
		extra.Set("x-migrations-table", cfg.DB.Postgres.MigrationTable)
	}

	mig, err := migrate.New(migrationSource, postgres.DSN(cfg, cfg.DB.Postgres.Write, extra))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func Runner(cfg *config.Config, action string) error {
	mig, err := getConnection(cfg)
	if err != nil {
		return err
	}

	defer mig.Close()

	switch action {
	case actionUp:
		err = mig.Up()
	case actionDown:
		err = mig.Steps(-1)
	case actionStepUp:
		err = mig.Steps(1)
	case actionDrop:
		err = mig.Down()
	default:
		return fmt.Errorf("%w: %s", errUnknownAction, action)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migration %s: %w", action, err)
	}

	version, dirty, verr := mig.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		log.Warn().Err(verr).Msg("Could not read schema version")
	}

	log.Info().Str("action", action).Uint("version", version).Bool("dirty", dirty).Msg("Database migration finished")

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, actionUp)
}

func StepUp(cfg *config.Config) error {
	return Runner(cfg, actionStepUp)
}

func Down(cfg *config.Config) error {
	return Runner(cfg, actionDown)
}

func Drop(cfg *config.Config) error {
	return Runner(cfg, actionDrop)
}
