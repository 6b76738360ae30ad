package dto

import (
	"time"

	"cowork/internal/domains/reservation/model"
	"cowork/shared"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	gModel "cowork/shared/model"
	"cowork/shared/timezone"

	"github.com/google/uuid"
)

// ReservationPayload is the JSON body accepted when booking or rebooking a room.
type ReservationPayload struct {
	ReserveDateStart string `json:"reserveDateStart" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	ReserveDateEnd   string `json:"reserveDateEnd"   validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// CreateReservationRequest is assembled once by the handler and never mutated afterwards.
type CreateReservationRequest struct {
	MeetingRoomID    string
	UserID           string
	Role             string
	ReserveDateStart time.Time
	ReserveDateEnd   time.Time
}

// NewCreateReservationRequest binds the path room id and the caller identity to a parsed payload.
func NewCreateReservationRequest(meetingRoomID, userID, role string, payload ReservationPayload) (CreateReservationRequest, error) {
	start, err := time.Parse(constant.DateFormat, payload.ReserveDateStart)
	if err != nil {
		return CreateReservationRequest{}, err
	}

	end, err := time.Parse(constant.DateFormat, payload.ReserveDateEnd)
	if err != nil {
		return CreateReservationRequest{}, err
	}

	return CreateReservationRequest{
		MeetingRoomID:    meetingRoomID,
		UserID:           userID,
		Role:             role,
		ReserveDateStart: start,
		ReserveDateEnd:   end,
	}, nil
}

func (c CreateReservationRequest) ToModel() model.Reservation {
	now := timezone.Now()

	return model.Reservation{
		ID:               uuid.NewString(),
		ReserveDateStart: c.ReserveDateStart,
		ReserveDateEnd:   c.ReserveDateEnd,
		UserID:           c.UserID,
		MeetingRoomID:    c.MeetingRoomID,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  c.UserID,
			ModifiedBy: c.UserID,
		},
	}
}

type UpdateReservationRequest struct {
	MeetingRoomID    string `json:"meetingRoomId"    validate:"omitempty,uuid"`
	ReserveDateStart string `json:"reserveDateStart" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ReserveDateEnd   string `json:"reserveDateEnd"   validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func (u UpdateReservationRequest) IsEmpty() bool {
	return u == UpdateReservationRequest{}
}

// Merge applies the non-empty fields of the request over current and returns the result.
func (u UpdateReservationRequest) Merge(current model.Reservation) (model.Reservation, error) {
	merged := current

	if u.MeetingRoomID != constant.Empty {
		merged.MeetingRoomID = u.MeetingRoomID
	}

	if u.ReserveDateStart != constant.Empty {
		start, err := time.Parse(constant.DateFormat, u.ReserveDateStart)
		if err != nil {
			return current, err
		}

		merged.ReserveDateStart = start
	}

	if u.ReserveDateEnd != constant.Empty {
		end, err := time.Parse(constant.DateFormat, u.ReserveDateEnd)
		if err != nil {
			return current, err
		}

		merged.ReserveDateEnd = end
	}

	return merged, nil
}

type ReservationResponse struct {
	ID               string `json:"id"`
	ReserveDateStart string `json:"reserveDateStart"`
	ReserveDateEnd   string `json:"reserveDateEnd"`
	UserID           string `json:"user"`
	MeetingRoomID    string `json:"meetingRoom"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.ReserveDateStart = model.ReserveDateStart.UTC().Format(constant.DateFormat)
	r.ReserveDateEnd = model.ReserveDateEnd.UTC().Format(constant.DateFormat)
	r.UserID = model.UserID
	r.MeetingRoomID = model.MeetingRoomID
	r.Metadata.FromModel(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

// Event is published for every accepted change to a reservation.
type Event struct {
	Type             string `json:"type"`
	ReservationID    string `json:"reservationId"`
	UserID           string `json:"userId"`
	MeetingRoomID    string `json:"meetingRoomId"`
	ReserveDateStart string `json:"reserveDateStart"`
	ReserveDateEnd   string `json:"reserveDateEnd"`
	OccurredAt       string `json:"occurredAt"`
}

func (e *Event) FromModel(eventType string, model model.Reservation) {
	e.Type = eventType
	e.ReservationID = model.ID
	e.UserID = model.UserID
	e.MeetingRoomID = model.MeetingRoomID
	e.ReserveDateStart = model.ReserveDateStart.UTC().Format(constant.DateFormat)
	e.ReserveDateEnd = model.ReserveDateEnd.UTC().Format(constant.DateFormat)
	e.OccurredAt = timezone.Now().UTC().Format(constant.DateFormat)
}
