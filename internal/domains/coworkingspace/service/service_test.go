package service_test

import (
	"context"
	"testing"
	"time"

	"cowork/config"
	"cowork/infras/otel/mocks"
	s3Mocks "cowork/infras/s3/mocks"
	spaceMocks "cowork/internal/domains/coworkingspace/mocks"
	"cowork/internal/domains/coworkingspace/model"
	"cowork/internal/domains/coworkingspace/model/dto"
	"cowork/internal/domains/coworkingspace/service"
	roomMocks "cowork/internal/domains/meetingroom/mocks"
	roomModel "cowork/internal/domains/meetingroom/model"
	"cowork/shared/cache"
	cacheMocks "cowork/shared/cache/mocks"
	gDto "cowork/shared/dto"
	"cowork/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const spaceID = "22222222-2222-2222-2222-222222222222"

type fixture struct {
	repo    *spaceMocks.MockCoworkingSpace
	rooms   *roomMocks.MockMeetingRoom
	storage *s3Mocks.MockS3
	service service.CoworkingSpace
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	redisCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f := fixture{
		repo:    spaceMocks.NewMockCoworkingSpace(ctrl),
		rooms:   roomMocks.NewMockMeetingRoom(ctrl),
		storage: s3Mocks.NewMockS3(ctrl),
	}

	f.service = service.New(f.repo, f.rooms, &config.Config{}, redisCache, mocks.NewOtel(), f.storage)

	return f
}

func clock(hour, minute int) time.Time {
	return time.Date(1970, 1, 1, hour, minute, 0, 0, time.UTC)
}

func createRequest(open, closing string) dto.CreateCoworkingSpaceRequest {
	return dto.CreateCoworkingSpaceRequest{
		Name:       "Hub One",
		Address:    "1 Main Road",
		District:   "Pathum Wan",
		Province:   "Bangkok",
		PostalCode: "10330",
		Region:     "Central",
		OpenTime:   open,
		CloseTime:  closing,
	}
}

func TestCoworkingSpaceService_Create(t *testing.T) {
	t.Run("StoresClockOnEpochDay", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, space model.CoworkingSpace) error {
				assert.Equal(t, clock(8, 30), space.OpenTime)
				assert.Equal(t, clock(20, 0), space.CloseTime)

				return nil
			})

		res, err := f.service.Create(context.Background(), createRequest("08:30", "20:00"))
		require.NoError(t, err)
		assert.Equal(t, "08:30", res.OpenTime)
		assert.Equal(t, "20:00", res.CloseTime)
	})

	t.Run("OpenNotBeforeClose", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Create(context.Background(), createRequest("18:00", "09:00"))
		assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))
	})
}

func TestCoworkingSpaceService_Update(t *testing.T) {
	t.Run("ValidatesAfterMerge", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.CoworkingSpace{ID: spaceID, OpenTime: clock(9, 0), CloseTime: clock(17, 0)}, nil)

		_, err := f.service.Update(context.Background(), dto.UpdateCoworkingSpaceRequest{OpenTime: "17:30"}, spaceID)
		assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))
	})

	t.Run("Empty", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Update(context.Background(), dto.UpdateCoworkingSpaceRequest{}, spaceID)
		assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))
	})

	t.Run("Updated", func(t *testing.T) {
		f := newFixture(t)

		current := model.CoworkingSpace{ID: spaceID, Name: "Hub One", OpenTime: clock(9, 0), CloseTime: clock(17, 0)}
		updated := current
		updated.CloseTime = clock(21, 0)

		gomock.InOrder(
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil),
			f.repo.EXPECT().
				Update(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, clock(9, 0), fields[model.FieldOpenTime])
					assert.Equal(t, clock(21, 0), fields[model.FieldCloseTime])
					assert.NotContains(t, fields, model.FieldName)

					return nil
				}),
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(updated, nil),
		)

		res, err := f.service.Update(context.Background(), dto.UpdateCoworkingSpaceRequest{CloseTime: "21:00"}, spaceID)
		require.NoError(t, err)
		assert.Equal(t, "21:00", res.CloseTime)
	})
}

func TestCoworkingSpaceService_Get(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.CoworkingSpace{ID: spaceID, OpenTime: clock(9, 0), CloseTime: clock(17, 0)}, nil)
	f.rooms.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]roomModel.MeetingRoom{{ID: "room-1", CoworkingSpaceID: spaceID}}, nil)

	res, err := f.service.Get(context.Background(), spaceID)
	require.NoError(t, err)
	require.Len(t, res.MeetingRooms, 1)
	assert.Equal(t, "room-1", res.MeetingRooms[0].ID)
}

func TestCoworkingSpaceService_Delete(t *testing.T) {
	t.Run("CascadesAndRemovesImages", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.CoworkingSpace{ID: spaceID}, nil)
		f.rooms.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any(), roomModel.FieldID, roomModel.FieldImage).
			Return([]roomModel.MeetingRoom{
				{ID: "room-1", Image: "https://cdn.example.com/meetingroom/1.png"},
				{ID: "room-2"},
			}, nil)
		f.repo.EXPECT().DeleteCascade(gomock.Any(), spaceID).Return(nil)
		f.storage.EXPECT().ObjectKey("https://cdn.example.com/meetingroom/1.png").Return("meetingroom/1.png")
		f.storage.EXPECT().ObjectKey("").Return("")
		f.storage.EXPECT().DeleteObject(gomock.Any(), "meetingroom/1.png").Return(nil)

		require.NoError(t, f.service.Delete(context.Background(), spaceID))
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.CoworkingSpace{}, nil)

		err := f.service.Delete(context.Background(), spaceID)
		assert.Equal(t, failure.ReasonNotFound, failure.GetReason(err))
		assert.Equal(t, "No coworking space with the id of "+spaceID, err.Error())
	})
}
