package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"cowork/infras/otel"
	"cowork/infras/postgres"
	"cowork/internal/domains/user/model"
	"cowork/shared"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	gRepo "cowork/shared/repository"
)

type User interface {
	Insert(ctx context.Context, model model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// byEmail matches the lowercased address, which is how emails are stored.
func byEmail(email string) gDto.FilterGroup {
	return shared.FilterByID(strings.ToLower(strings.TrimSpace(email)), model.FieldEmail, model.TableName)
}

// GetByEmail returns the zero user when no account has the address.
func (r *repositoryImpl) GetByEmail(ctx context.Context, email string) (res model.User, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".GetByEmail")
	defer scope.End()
	defer scope.TraceIfError(&err)

	res, err = r.Get(ctx, byEmail(email))
	if err != nil {
		return res, fmt.Errorf("failed to get user by email: %w", err)
	}

	return res, nil
}

func (r *repositoryImpl) EmailTaken(ctx context.Context, email string) (taken bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".EmailTaken")
	defer scope.End()
	defer scope.TraceIfError(&err)

	taken, err = r.Exist(ctx, byEmail(email))
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}

	return taken, nil
}
