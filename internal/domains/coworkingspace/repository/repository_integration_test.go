package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cowork/infras/otel/mocks"
	"cowork/infras/postgres"
	"cowork/internal/domains/coworkingspace/repository"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrationsDir = "file://../../../../migrations/postgres"

// openTestDB migrates the database named by TEST_POSTGRES_DSN and skips when unset.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	mig, err := migrate.New(migrationsDir, dsn)
	require.NoError(t, err)

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}

	_, _ = mig.Close()

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

type fixture struct {
	userID, spaceID, roomID string
}

func seed(t *testing.T, db *sqlx.DB) fixture {
	t.Helper()

	f := fixture{userID: uuid.NewString(), spaceID: uuid.NewString(), roomID: uuid.NewString()}
	epoch := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

	db.MustExec(`INSERT INTO users (id, name, email, password) VALUES ($1, 'Ann', $2, 'x')`,
		f.userID, f.userID+"@example.com")
	db.MustExec(`INSERT INTO coworking_spaces (id, name, address, district, province, postal_code, region, open_time, close_time)
		VALUES ($1, 'Hub', '1 Road', 'Pathum Wan', 'Bangkok', '10330', 'Central', $2, $3)`,
		f.spaceID, epoch.Add(8*time.Hour), epoch.Add(20*time.Hour))
	db.MustExec(`INSERT INTO meeting_rooms (id, room_number, location, capacity, coworking_space_id)
		VALUES ($1, 'A1', 'Floor 1', 6, $2)`, f.roomID, f.spaceID)

	return f
}

func reserve(db *sqlx.DB, f fixture, start, end time.Time) error {
	_, err := db.Exec(`INSERT INTO reservations (id, reserve_date_start, reserve_date_end, user_id, meeting_room_id)
		VALUES ($1, $2, $3, $4, $5)`, uuid.NewString(), start, end, f.userID, f.roomID)

	return err //nolint:wrapcheck
}

func TestDeleteCascade_Integration(t *testing.T) {
	db := openTestDB(t)
	f := seed(t, db)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, reserve(db, f, day.Add(9*time.Hour), day.Add(10*time.Hour)))

	repo := repository.New(&postgres.Connection{Read: db, Write: db}, mocks.NewOtel())
	require.NoError(t, repo.DeleteCascade(context.Background(), f.spaceID))

	var remaining int
	require.NoError(t, db.Get(&remaining, `SELECT COUNT(*) FROM reservations WHERE meeting_room_id = $1`, f.roomID))
	assert.Zero(t, remaining)

	require.NoError(t, db.Get(&remaining, `SELECT COUNT(*) FROM meeting_rooms WHERE coworking_space_id = $1`, f.spaceID))
	assert.Zero(t, remaining)
}

func TestOverlapConstraint_Integration(t *testing.T) {
	db := openTestDB(t)
	f := seed(t, db)

	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	require.NoError(t, reserve(db, f, day.Add(9*time.Hour), day.Add(10*time.Hour)))

	// touching intervals are allowed
	require.NoError(t, reserve(db, f, day.Add(10*time.Hour), day.Add(11*time.Hour)))

	err := reserve(db, f, day.Add(9*time.Hour+30*time.Minute), day.Add(10*time.Hour+30*time.Minute))

	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, pq.ErrorCode("23P01"), pqErr.Code)
}
