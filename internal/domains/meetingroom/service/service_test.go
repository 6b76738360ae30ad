package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"cowork/config"
	"cowork/infras/otel/mocks"
	s3Mocks "cowork/infras/s3/mocks"
	spaceMocks "cowork/internal/domains/coworkingspace/mocks"
	spaceModel "cowork/internal/domains/coworkingspace/model"
	roomMocks "cowork/internal/domains/meetingroom/mocks"
	"cowork/internal/domains/meetingroom/model"
	"cowork/internal/domains/meetingroom/model/dto"
	"cowork/internal/domains/meetingroom/service"
	reservationMocks "cowork/internal/domains/reservation/mocks"
	"cowork/shared/cache"
	cacheMocks "cowork/shared/cache/mocks"
	gDto "cowork/shared/dto"
	"cowork/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	roomID   = "11111111-1111-1111-1111-111111111111"
	spaceID  = "22222222-2222-2222-2222-222222222222"
	imageURL = "https://cdn.example.com/meetingroom/a.png"
)

type fixture struct {
	repo         *roomMocks.MockMeetingRoom
	spaces       *spaceMocks.MockCoworkingSpace
	reservations *reservationMocks.MockReservation
	storage      *s3Mocks.MockS3
	cache        *cacheMocks.MockRedisCache
	service      service.MeetingRoom
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:         roomMocks.NewMockMeetingRoom(ctrl),
		spaces:       spaceMocks.NewMockCoworkingSpace(ctrl),
		reservations: reservationMocks.NewMockReservation(ctrl),
		storage:      s3Mocks.NewMockS3(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
	}

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.service = service.New(f.repo, f.spaces, f.reservations, &config.Config{}, f.cache, mocks.NewOtel(), f.storage)

	return f
}

func clock(hour, minute int) time.Time {
	return time.Date(1970, 1, 1, hour, minute, 0, 0, time.UTC)
}

func on(hour, minute int) time.Time {
	return time.Date(2030, 5, 6, hour, minute, 0, 0, time.UTC)
}

func TestMeetingRoomService_FilterAvailableRooms(t *testing.T) {
	t.Run("ExcludesReservedRoomsAndClosedSpaces", func(t *testing.T) {
		f := newFixture(t)

		f.reservations.EXPECT().
			DistinctReservedRooms(gomock.Any(), on(9, 0), on(11, 0), gomock.Any()).
			Return([]string{"room-busy"}, nil)

		f.spaces.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any(), spaceModel.FieldID, spaceModel.FieldOpenTime, spaceModel.FieldCloseTime).
			Return([]spaceModel.CoworkingSpace{
				{ID: "space-open", OpenTime: clock(8, 0), CloseTime: clock(18, 0)},
				{ID: "space-late", OpenTime: clock(10, 0), CloseTime: clock(18, 0)},
			}, nil)

		filter, err := f.service.FilterAvailableRooms(context.Background(), on(9, 0), on(11, 0), spaceID)
		require.NoError(t, err)

		where, args := filter.GetWhereClause()
		assert.Contains(t, where, "meeting_rooms.id NOT IN (:reserved_room_0)")
		assert.Contains(t, where, "meeting_rooms.coworking_space_id NOT IN (:closed_space_0)")
		assert.Contains(t, where, "meeting_rooms.coworking_space_id = :coworking_space_id")
		assert.Equal(t, "room-busy", args["reserved_room_0"])
		assert.Equal(t, "space-late", args["closed_space_0"])
		assert.Equal(t, spaceID, args["coworking_space_id"])
	})

	t.Run("NothingReservedNothingClosed", func(t *testing.T) {
		f := newFixture(t)

		f.reservations.EXPECT().DistinctReservedRooms(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.spaces.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]spaceModel.CoworkingSpace{{ID: spaceID, OpenTime: clock(8, 0), CloseTime: clock(18, 0)}}, nil)

		filter, err := f.service.FilterAvailableRooms(context.Background(), on(9, 0), on(11, 0), "")
		require.NoError(t, err)

		where, args := filter.GetWhereClause()
		assert.Equal(t, "(TRUE AND TRUE)", where)
		assert.Empty(t, args)
	})

	t.Run("InvertedWindow", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.FilterAvailableRooms(context.Background(), on(11, 0), on(9, 0), "")
		assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))
	})

	t.Run("StoreFailure", func(t *testing.T) {
		f := newFixture(t)

		f.reservations.EXPECT().
			DistinctReservedRooms(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection reset"))

		_, err := f.service.FilterAvailableRooms(context.Background(), on(9, 0), on(11, 0), "")
		assert.Equal(t, failure.ReasonStoreFailure, failure.GetReason(err))
	})
}

func TestMeetingRoomService_GetAll(t *testing.T) {
	t.Run("WithWindow", func(t *testing.T) {
		f := newFixture(t)

		f.reservations.EXPECT().DistinctReservedRooms(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]string{"room-busy"}, nil)
		f.spaces.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.MeetingRoom, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, "room-busy", args["reserved_room_0"])

				return []model.MeetingRoom{{ID: roomID, CoworkingSpaceID: spaceID}}, nil
			})

		res, err := f.service.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, dto.ListMeetingRoomsQuery{
			Window: &dto.AvailabilityWindow{Start: on(9, 0), End: on(11, 0)},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
		assert.Equal(t, roomID, res.MeetingRooms[0].ID)
	})

	t.Run("ScopedToSpace", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.MeetingRoom, error) {
				where, args := filter.GetWhereClause()
				assert.Equal(t, "((meeting_rooms.coworking_space_id = :coworking_space_id))", where)
				assert.Equal(t, spaceID, args["coworking_space_id"])

				return nil, nil
			})

		res, err := f.service.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, dto.ListMeetingRoomsQuery{CoworkingSpaceID: spaceID})
		require.NoError(t, err)
		assert.Equal(t, 1, res.TotalPage)
		assert.Empty(t, res.MeetingRooms)
	})
}

func TestMeetingRoomService_Create(t *testing.T) {
	t.Run("UnknownSpace", func(t *testing.T) {
		f := newFixture(t)

		f.spaces.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.service.Create(context.Background(), dto.CreateMeetingRoomRequest{CoworkingSpaceID: spaceID})
		assert.Equal(t, failure.ReasonNotFound, failure.GetReason(err))
		assert.Contains(t, err.Error(), spaceID)
	})

	t.Run("RemovesImageWhenInsertFails", func(t *testing.T) {
		f := newFixture(t)

		header := &multipart.FileHeader{Filename: "room.png"}

		f.spaces.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.storage.EXPECT().UploadFile(gomock.Any(), model.EntityName, gomock.Any(), header, gomock.Any()).Return(imageURL, nil)
		f.storage.EXPECT().ObjectKey(imageURL).Return("meetingroom/a.png")
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
		f.storage.EXPECT().DeleteObject(gomock.Any(), "meetingroom/a.png").Return(nil)

		_, err := f.service.Create(context.Background(), dto.CreateMeetingRoomRequest{CoworkingSpaceID: spaceID, Image: header})
		assert.Error(t, err)
	})

	t.Run("Created", func(t *testing.T) {
		f := newFixture(t)

		f.spaces.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, room model.MeetingRoom) error {
				assert.Equal(t, "A-101", room.RoomNumber)
				assert.Equal(t, spaceID, room.CoworkingSpaceID)
				assert.NotEmpty(t, room.ID)

				return nil
			})

		res, err := f.service.Create(context.Background(), dto.CreateMeetingRoomRequest{
			RoomNumber:       "A-101",
			Location:         "Floor 1",
			Capacity:         6,
			CoworkingSpaceID: spaceID,
		})
		require.NoError(t, err)
		assert.Equal(t, "A-101", res.RoomNumber)
	})
}

func TestMeetingRoomService_Delete(t *testing.T) {
	t.Run("CascadesAndRemovesImage", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.MeetingRoom{ID: roomID, Image: imageURL}, nil)
		f.repo.EXPECT().DeleteCascade(gomock.Any(), roomID).Return(nil)
		f.storage.EXPECT().ObjectKey(imageURL).Return("meetingroom/a.png")
		f.storage.EXPECT().DeleteObject(gomock.Any(), "meetingroom/a.png").Return(nil)

		require.NoError(t, f.service.Delete(context.Background(), roomID))
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.MeetingRoom{}, nil)

		err := f.service.Delete(context.Background(), roomID)
		assert.Equal(t, failure.ReasonNotFound, failure.GetReason(err))
		assert.Equal(t, "No meeting room with the id of "+roomID, err.Error())
	})
}

func TestMeetingRoomService_Update(t *testing.T) {
	f := newFixture(t)
	capacity := 12

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.MeetingRoom{ID: roomID, CoworkingSpaceID: spaceID}, nil)
	f.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, &capacity, fields[model.FieldCapacity])
			assert.NotContains(t, fields, model.FieldImage)

			return nil
		})

	require.NoError(t, f.service.Update(context.Background(), dto.UpdateMeetingRoomRequest{Capacity: &capacity}, roomID))
}
