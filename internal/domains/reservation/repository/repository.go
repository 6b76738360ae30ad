package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cowork/infras/otel"
	"cowork/infras/postgres"
	"cowork/internal/domains/reservation/model"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/logger"
	gRepo "cowork/shared/repository"

	"github.com/jmoiron/sqlx"
)

const (
	lockKeyUser = "reservation:user:"
	lockKeyRoom = "reservation:room:"
)

var selectColumns = strings.Join([]string{
	model.FieldID,
	model.FieldReserveDateStart,
	model.FieldReserveDateEnd,
	model.FieldUserID,
	model.FieldMeetingRoomID,
	constant.FieldCreatedAt,
	constant.FieldModifiedAt,
	constant.FieldCreatedBy,
	constant.FieldModifiedBy,
}, ", ")

type namedPreparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

type Reservation interface {
	Insert(ctx context.Context, model model.Reservation) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error

	// WithinBookingLock runs fn in a transaction holding the requester and room locks, in that order.
	WithinBookingLock(ctx context.Context, userID, meetingRoomID string, fn func(ctx context.Context, sqltx *sqlx.Tx) error) error
	CountByUser(ctx context.Context, sqltx *sqlx.Tx, userID string) (int, error)
	// FindConflict returns the earliest reservation of the room overlapping [start, end), or a zero value.
	FindConflict(ctx context.Context, sqltx *sqlx.Tx, meetingRoomID string, start, end time.Time, excludeID string) (model.Reservation, error)
	DistinctReservedRooms(ctx context.Context, start, end, now time.Time) ([]string, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) WithinBookingLock(ctx context.Context, userID, meetingRoomID string, fn func(ctx context.Context, sqltx *sqlx.Tx) error) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.WithinBookingLock")
	defer scope.End()
	defer scope.TraceIfError(&err)

	sqltx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin booking transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := sqltx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.ErrorWithStack(rbErr)
			}
		}
	}()

	for _, key := range []string{lockKeyUser + userID, lockKeyRoom + meetingRoomID} {
		if _, err = sqltx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to acquire booking lock: %w", err)
		}
	}

	if err = fn(ctx, sqltx); err != nil {
		return err
	}

	if err = sqltx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit booking transaction: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) CountByUser(ctx context.Context, sqltx *sqlx.Tx, userID string) (count int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.CountByUser")
	defer scope.End()
	defer scope.TraceIfError(&err)

	query := fmt.Sprintf("SELECT COUNT(%s) FROM %s WHERE %s = :user_id", model.FieldID, model.TableName, model.FieldUserID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := repo.preparer(sqltx).PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	if err = prepare.GetContext(ctx, &count, map[string]any{"user_id": userID}); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to count reservations of user: %w", err)
	}

	return count, nil
}

func (repo *repositoryImpl) FindConflict(ctx context.Context, sqltx *sqlx.Tx, meetingRoomID string, start, end time.Time, excludeID string) (res model.Reservation, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.FindConflict")
	defer scope.End()
	defer scope.TraceIfError(&err)

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = :meeting_room_id AND %s < :end AND %s > :start AND CAST(%s AS TEXT) <> :exclude_id ORDER BY %s LIMIT 1",
		selectColumns,
		model.TableName,
		model.FieldMeetingRoomID,
		model.FieldReserveDateStart,
		model.FieldReserveDateEnd,
		model.FieldID,
		model.FieldReserveDateStart,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := repo.preparer(sqltx).PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	args := map[string]any{
		"meeting_room_id": meetingRoomID,
		"start":           start,
		"end":             end,
		"exclude_id":      excludeID,
	}

	err = prepare.GetContext(ctx, &res, args)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to find conflicting reservation: %w", err)
	}

	return res, nil
}

func (repo *repositoryImpl) DistinctReservedRooms(ctx context.Context, start, end, now time.Time) (ids []string, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.DistinctReservedRooms")
	defer scope.End()
	defer scope.TraceIfError(&err)

	query := fmt.Sprintf(
		"SELECT DISTINCT CAST(%s AS TEXT) FROM %s WHERE %s < :end AND %s > :start AND %s > :now",
		model.FieldMeetingRoomID,
		model.TableName,
		model.FieldReserveDateStart,
		model.FieldReserveDateEnd,
		model.FieldReserveDateEnd,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	ids = []string{}
	if err = prepare.SelectContext(ctx, &ids, map[string]any{"start": start, "end": end, "now": now}); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to list reserved rooms: %w", err)
	}

	return ids, nil
}

func (repo *repositoryImpl) preparer(sqltx *sqlx.Tx) namedPreparer {
	if sqltx != nil {
		return sqltx
	}

	return repo.db.Write
}
