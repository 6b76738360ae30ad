package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cowork/infras/otel"
	"cowork/infras/postgres"
	"cowork/internal/domains/coworkingspace/model"
	roomModel "cowork/internal/domains/meetingroom/model"
	reservationModel "cowork/internal/domains/reservation/model"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/logger"
	gRepo "cowork/shared/repository"
)

type CoworkingSpace interface {
	Insert(ctx context.Context, model model.CoworkingSpace) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.CoworkingSpace, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.CoworkingSpace, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	// DeleteCascade removes the space, its meeting rooms and their reservations in one transaction.
	DeleteCascade(ctx context.Context, id string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.CoworkingSpace]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) CoworkingSpace {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.CoworkingSpace](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) DeleteCascade(ctx context.Context, id string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".coworkingspace.DeleteCascade")
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

	queries := []string{
		fmt.Sprintf(
			"DELETE FROM %s WHERE %s IN (SELECT %s FROM %s WHERE %s = $1)",
			reservationModel.TableName,
			reservationModel.FieldMeetingRoomID,
			roomModel.FieldID,
			roomModel.TableName,
			roomModel.FieldCoworkingSpaceID,
		),
		fmt.Sprintf("DELETE FROM %s WHERE %s = $1", roomModel.TableName, roomModel.FieldCoworkingSpaceID),
		fmt.Sprintf("DELETE FROM %s WHERE %s = $1", model.TableName, model.FieldID),
	}

	for _, query := range queries {
		scope.SetAttribute(constant.OtelQueryAttributeKey, query)

		if _, err = sqltx.ExecContext(ctx, query, id); err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to delete data (%s): %w", model.EntityName, err)
		}
	}

	if err = sqltx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
