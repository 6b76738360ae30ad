package service_test

import (
	"context"
	"errors"
	"testing"

	"cowork/config"
	"cowork/infras/otel/mocks"
	userMocks "cowork/internal/domains/user/mocks"
	"cowork/internal/domains/user/model"
	"cowork/internal/domains/user/model/dto"
	"cowork/internal/domains/user/service"
	"cowork/shared/cache"
	cacheMocks "cowork/shared/cache/mocks"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/failure"
	"cowork/shared/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const adminID = "99999999-9999-9999-9999-999999999999"

func newService(t *testing.T) (*userMocks.MockUser, service.User) {
	t.Helper()

	ctrl := gomock.NewController(t)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	redisCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	repo := userMocks.NewMockUser(ctrl)

	return repo, service.New(repo, &config.Config{}, redisCache, mocks.NewOtel())
}

func adminContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, adminID)
}

func TestUserService_Create(t *testing.T) {
	req := dto.CreateUserRequest{
		Name:     "Somchai",
		Email:    "Somchai@Example.com",
		Password: "secret1",
		Role:     constant.RoleAdmin,
	}

	t.Run("HashesPasswordAndRecordsActor", func(t *testing.T) {
		repo, svc := newService(t)

		repo.EXPECT().EmailTaken(gomock.Any(), req.Email).Return(false, nil)

		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user model.User) error {
				assert.Equal(t, adminID, user.CreatedBy)
				assert.Equal(t, constant.RoleAdmin, user.Role)
				assert.NoError(t, password.Verify(req.Password, user.Password))

				return nil
			})

		res, err := svc.Create(adminContext(), req)
		require.NoError(t, err)
		assert.Equal(t, "somchai@example.com", res.Email)
		assert.NotEmpty(t, res.ID)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo, svc := newService(t)

		repo.EXPECT().EmailTaken(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := svc.Create(adminContext(), req)
		assert.Equal(t, failure.ReasonConflict, failure.GetReason(err))
	})
}

func TestUserService_Get(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		repo, svc := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		_, err := svc.Get(context.Background(), "missing")
		assert.Equal(t, failure.ReasonNotFound, failure.GetReason(err))
		assert.Contains(t, err.Error(), "missing")
	})

	t.Run("StoreError", func(t *testing.T) {
		repo, svc := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, errors.New("connection reset"))

		_, err := svc.Get(context.Background(), "u-1")
		assert.Error(t, err)
	})
}

func TestUserService_GetAll(t *testing.T) {
	repo, svc := newService(t)
	req := gDto.QueryParams{Page: 1, Limit: 2}

	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	repo.EXPECT().GetAll(gomock.Any(), req, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup, columns ...string) ([]model.User, error) {
			assert.NotContains(t, columns, model.FieldPassword)

			return []model.User{{ID: "u-1", Email: "a@example.com"}, {ID: "u-2", Email: "b@example.com"}}, nil
		})

	res, err := svc.GetAll(context.Background(), req, gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Len(t, res.Users, 2)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
}

func TestUserService_Update(t *testing.T) {
	t.Run("EmptyRequest", func(t *testing.T) {
		_, svc := newService(t)

		err := svc.Update(adminContext(), dto.UpdateUserRequest{}, "u-1")
		assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))
	})

	t.Run("OnlyChangedFields", func(t *testing.T) {
		repo, svc := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, constant.RoleAdmin, fields[model.FieldRole])
				assert.NotContains(t, fields, model.FieldName)
				assert.Equal(t, adminID, fields["modified_by"])

				return nil
			})

		err := svc.Update(adminContext(), dto.UpdateUserRequest{Role: constant.RoleAdmin}, "u-1")
		assert.NoError(t, err)
	})
}

func TestUserService_Delete(t *testing.T) {
	repo, svc := newService(t)

	repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

	err := svc.Delete(adminContext(), "u-1")
	assert.Equal(t, failure.ReasonNotFound, failure.GetReason(err))
}
