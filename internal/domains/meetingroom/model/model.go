package model

import "cowork/shared/model"

const (
	TableName  = "meeting_rooms"
	EntityName = "meetingroom"

	FieldID               = "id"
	FieldRoomNumber       = "room_number"
	FieldLocation         = "location"
	FieldCapacity         = "capacity"
	FieldProjector        = "projector"
	FieldWhiteboard       = "whiteboard"
	FieldTV               = "tv"
	FieldSpeaker          = "speaker"
	FieldImage            = "image"
	FieldCoworkingSpaceID = "coworking_space_id"
)

type MeetingRoom struct {
	ID               string `db:"id"`
	RoomNumber       string `db:"room_number"`
	Location         string `db:"location"`
	Capacity         int    `db:"capacity"`
	Projector        bool   `db:"projector"`
	Whiteboard       bool   `db:"whiteboard"`
	TV               bool   `db:"tv"`
	Speaker          bool   `db:"speaker"`
	Image            string `db:"image"`
	CoworkingSpaceID string `db:"coworking_space_id"`
	model.Metadata
}
