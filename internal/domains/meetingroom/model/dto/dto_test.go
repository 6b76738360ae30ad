package dto_test

import (
	"testing"
	"time"

	"cowork/internal/domains/meetingroom/model"
	"cowork/internal/domains/meetingroom/model/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAvailabilityWindow(t *testing.T) {
	t.Run("Absent", func(t *testing.T) {
		window, err := dto.ParseAvailabilityWindow("", "")
		require.NoError(t, err)
		assert.Nil(t, window)
	})

	t.Run("OnlyOneBound", func(t *testing.T) {
		_, err := dto.ParseAvailabilityWindow("2030-05-06T09:00:00Z", "")
		assert.ErrorIs(t, err, dto.ErrIncompleteWindow)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := dto.ParseAvailabilityWindow("tomorrow", "2030-05-06T11:00:00Z")
		assert.Error(t, err)
	})

	t.Run("NormalisedToUTC", func(t *testing.T) {
		window, err := dto.ParseAvailabilityWindow("2030-05-06T16:00:00+07:00", "2030-05-06T18:00:00+07:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2030, 5, 6, 9, 0, 0, 0, time.UTC), window.Start)
		assert.Equal(t, time.UTC, window.End.Location())
	})
}

func TestCreateMeetingRoomRequest_ToModel(t *testing.T) {
	req := dto.CreateMeetingRoomRequest{
		RoomNumber:       "B-2",
		Location:         "Floor 2",
		Capacity:         4,
		TV:               true,
		CoworkingSpaceID: "space-1",
	}

	room := req.ToModel("admin-1", "https://cdn.example.com/meetingroom/b.png")

	assert.NotEmpty(t, room.ID)
	assert.True(t, room.TV)
	assert.False(t, room.Projector)
	assert.Equal(t, "admin-1", room.CreatedBy)
	assert.Equal(t, "https://cdn.example.com/meetingroom/b.png", room.Image)

	var res dto.MeetingRoomResponse
	res.FromModel(room)
	assert.Equal(t, room.ID, res.ID)
	assert.Equal(t, "space-1", res.CoworkingSpaceID)
}

func TestGetMeetingRoomsResponse_FromModels(t *testing.T) {
	var res dto.GetMeetingRoomsResponse
	res.FromModels([]model.MeetingRoom{{ID: "a"}, {ID: "b"}}, 21, 10)

	assert.Equal(t, 3, res.TotalPage)
	assert.Len(t, res.MeetingRooms, 2)
}
