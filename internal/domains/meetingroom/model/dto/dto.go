package dto

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"cowork/internal/domains/meetingroom/model"
	"cowork/shared"
	gDto "cowork/shared/dto"
	gModel "cowork/shared/model"
	"cowork/shared/timezone"

	"github.com/google/uuid"
)

type CreateMeetingRoomRequest struct {
	RoomNumber       string                `json:"roomNumber"       validate:"required,max=20"`
	Location         string                `json:"location"         validate:"required,max=100"`
	Capacity         int                   `json:"capacity"         validate:"required,min=1"`
	Projector        bool                  `json:"projector"`
	Whiteboard       bool                  `json:"whiteboard"`
	TV               bool                  `json:"tv"`
	Speaker          bool                  `json:"speaker"`
	CoworkingSpaceID string                `json:"coworkingSpace"   validate:"required,uuid"`
	Image            *multipart.FileHeader `json:"image"            validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile        multipart.File        `json:"-"`
}

func (c *CreateMeetingRoomRequest) ToModel(user string, imageURL string) model.MeetingRoom {
	now := timezone.Now()

	return model.MeetingRoom{
		ID:               uuid.NewString(),
		RoomNumber:       c.RoomNumber,
		Location:         c.Location,
		Capacity:         c.Capacity,
		Projector:        c.Projector,
		Whiteboard:       c.Whiteboard,
		TV:               c.TV,
		Speaker:          c.Speaker,
		Image:            imageURL,
		CoworkingSpaceID: c.CoworkingSpaceID,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateMeetingRoomRequest struct {
	RoomNumber       string                `db:"room_number"        json:"roomNumber"     validate:"omitempty,max=20"`
	Location         string                `db:"location"           json:"location"       validate:"omitempty,max=100"`
	Capacity         *int                  `db:"capacity"           json:"capacity"       validate:"omitempty,min=1"`
	Projector        *bool                 `db:"projector"          json:"projector"`
	Whiteboard       *bool                 `db:"whiteboard"         json:"whiteboard"`
	TV               *bool                 `db:"tv"                 json:"tv"`
	Speaker          *bool                 `db:"speaker"            json:"speaker"`
	CoworkingSpaceID string                `db:"coworking_space_id" json:"coworkingSpace" validate:"omitempty,uuid"`
	Image            *multipart.FileHeader `json:"image"            validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile        multipart.File        `json:"-"`
}

// AvailabilityWindow narrows a listing to rooms free for the whole window.
type AvailabilityWindow struct {
	Start time.Time
	End   time.Time
}

var ErrIncompleteWindow = errors.New("reserveDateStart and reserveDateEnd must be given together")

// ParseAvailabilityWindow reads an optional RFC3339 window. Both bounds or neither must be present.
func ParseAvailabilityWindow(start, end string) (*AvailabilityWindow, error) {
	if start == "" && end == "" {
		return nil, nil
	}

	if start == "" || end == "" {
		return nil, ErrIncompleteWindow
	}

	startAt, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return nil, fmt.Errorf("invalid reserveDateStart: %w", err)
	}

	endAt, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return nil, fmt.Errorf("invalid reserveDateEnd: %w", err)
	}

	return &AvailabilityWindow{Start: startAt.UTC(), End: endAt.UTC()}, nil
}

type ListMeetingRoomsQuery struct {
	Filter           gDto.FilterGroup
	CoworkingSpaceID string
	Window           *AvailabilityWindow
}

type MeetingRoomResponse struct {
	ID               string `json:"id"`
	RoomNumber       string `json:"roomNumber"`
	Location         string `json:"location"`
	Capacity         int    `json:"capacity"`
	Projector        bool   `json:"projector"`
	Whiteboard       bool   `json:"whiteboard"`
	TV               bool   `json:"tv"`
	Speaker          bool   `json:"speaker"`
	Image            string `json:"image,omitempty"`
	CoworkingSpaceID string `json:"coworkingSpace"`
	gDto.Metadata
}

func (r *MeetingRoomResponse) FromModel(model model.MeetingRoom) {
	r.ID = model.ID
	r.RoomNumber = model.RoomNumber
	r.Location = model.Location
	r.Capacity = model.Capacity
	r.Projector = model.Projector
	r.Whiteboard = model.Whiteboard
	r.TV = model.TV
	r.Speaker = model.Speaker
	r.Image = model.Image
	r.CoworkingSpaceID = model.CoworkingSpaceID
	r.Metadata.FromModel(model.Metadata)
}

type GetMeetingRoomsResponse struct {
	MeetingRooms []MeetingRoomResponse `json:"meetingRooms"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetMeetingRoomsResponse) FromModels(models []model.MeetingRoom, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.MeetingRooms = make([]MeetingRoomResponse, len(models))
	for i, mod := range models {
		r.MeetingRooms[i].FromModel(mod)
	}
}
