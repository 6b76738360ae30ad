package model

import (
	"cowork/shared/model"
	"time"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID               = "id"
	FieldReserveDateStart = "reserve_date_start"
	FieldReserveDateEnd   = "reserve_date_end"
	FieldUserID           = "user_id"
	FieldMeetingRoomID    = "meeting_room_id"
)

type Reservation struct {
	ID               string    `db:"id"`
	ReserveDateStart time.Time `db:"reserve_date_start"`
	ReserveDateEnd   time.Time `db:"reserve_date_end"`
	UserID           string    `db:"user_id"`
	MeetingRoomID    string    `db:"meeting_room_id"`
	model.Metadata
}
