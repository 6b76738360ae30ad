package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cowork/infras/otel"
	"cowork/infras/postgres"
	"cowork/internal/domains/meetingroom/model"
	reservationModel "cowork/internal/domains/reservation/model"
	"cowork/shared"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/logger"
	gRepo "cowork/shared/repository"
)

type MeetingRoom interface {
	Insert(ctx context.Context, model model.MeetingRoom) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.MeetingRoom, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.MeetingRoom, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	// DeleteCascade removes the room together with its reservations.
	DeleteCascade(ctx context.Context, id string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.MeetingRoom]
	reservations gRepo.Repository[reservationModel.Reservation]
	db           *postgres.Connection
	otel         otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) MeetingRoom {
	return &repositoryImpl{
		Repository:   gRepo.NewRepository[model.MeetingRoom](model.EntityName, model.TableName, model.FieldID, db, otel),
		reservations: gRepo.NewRepository[reservationModel.Reservation](reservationModel.EntityName, reservationModel.TableName, reservationModel.FieldID, db, otel),
		db:           db,
		otel:         otel,
	}
}

func (repo *repositoryImpl) DeleteCascade(ctx context.Context, id string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".meetingroom.DeleteCascade")
	defer scope.End()
	defer scope.TraceIfError(&err)

	sqltx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := sqltx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.ErrorWithStack(rbErr)
			}
		}
	}()

	err = repo.reservations.DeleteTx(ctx, sqltx, shared.FilterByID(id, reservationModel.FieldMeetingRoomID, reservationModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to delete reservations of meeting room: %w", err)
	}

	if err = repo.DeleteTx(ctx, sqltx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		return fmt.Errorf("failed to delete meeting room: %w", err)
	}

	if err = sqltx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
