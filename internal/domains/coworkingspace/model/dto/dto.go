package dto

import (
	"time"

	"cowork/internal/domains/coworkingspace/model"
	roomModel "cowork/internal/domains/meetingroom/model"
	roomDto "cowork/internal/domains/meetingroom/model/dto"
	"cowork/internal/domains/reservation/policy"
	"cowork/shared"
	gDto "cowork/shared/dto"
	gModel "cowork/shared/model"
	"cowork/shared/timezone"

	"github.com/google/uuid"
)

type CreateCoworkingSpaceRequest struct {
	Name       string `json:"name"       validate:"required,max=50"`
	Address    string `json:"address"    validate:"required,max=255"`
	District   string `json:"district"   validate:"required,max=100"`
	Province   string `json:"province"   validate:"required,max=100"`
	PostalCode string `json:"postalCode" validate:"required,numeric,max=5"`
	Tel        string `json:"tel"        validate:"omitempty,max=20"`
	Region     string `json:"region"     validate:"required,max=100"`
	OpenTime   string `json:"openTime"   validate:"required,clock"     example:"09:00"`
	CloseTime  string `json:"closeTime"  validate:"required,clock"     example:"17:00"`
}

// ToModel expects a request that already passed validation.
func (c *CreateCoworkingSpaceRequest) ToModel(user string) model.CoworkingSpace {
	now := timezone.Now()
	open, _ := policy.ParseClock(c.OpenTime)
	closing, _ := policy.ParseClock(c.CloseTime)

	return model.CoworkingSpace{
		ID:         uuid.NewString(),
		Name:       c.Name,
		Address:    c.Address,
		District:   c.District,
		Province:   c.Province,
		PostalCode: c.PostalCode,
		Tel:        c.Tel,
		Region:     c.Region,
		OpenTime:   open,
		CloseTime:  closing,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateCoworkingSpaceRequest struct {
	Name       string `db:"name"        json:"name"       validate:"omitempty,max=50"`
	Address    string `db:"address"     json:"address"    validate:"omitempty,max=255"`
	District   string `db:"district"    json:"district"   validate:"omitempty,max=100"`
	Province   string `db:"province"    json:"province"   validate:"omitempty,max=100"`
	PostalCode string `db:"postal_code" json:"postalCode" validate:"omitempty,numeric,max=5"`
	Tel        string `db:"tel"         json:"tel"        validate:"omitempty,max=20"`
	Region     string `db:"region"      json:"region"     validate:"omitempty,max=100"`
	OpenTime   string `json:"openTime"  validate:"omitempty,clock"`
	CloseTime  string `json:"closeTime" validate:"omitempty,clock"`
}

func (u *UpdateCoworkingSpaceRequest) IsEmpty() bool {
	return *u == UpdateCoworkingSpaceRequest{}
}

// Hours merges the requested clocks over the current ones.
func (u *UpdateCoworkingSpaceRequest) Hours(current model.CoworkingSpace) (open, closing time.Time, err error) {
	open, closing = current.OpenTime, current.CloseTime

	if u.OpenTime != "" {
		if open, err = policy.ParseClock(u.OpenTime); err != nil {
			return open, closing, err
		}
	}

	if u.CloseTime != "" {
		if closing, err = policy.ParseClock(u.CloseTime); err != nil {
			return open, closing, err
		}
	}

	return open, closing, nil
}

type CoworkingSpaceResponse struct {
	ID           string                        `json:"id"`
	Name         string                        `json:"name"`
	Address      string                        `json:"address"`
	District     string                        `json:"district"`
	Province     string                        `json:"province"`
	PostalCode   string                        `json:"postalCode"`
	Tel          string                        `json:"tel,omitempty"`
	Region       string                        `json:"region"`
	OpenTime     string                        `json:"openTime"`
	CloseTime    string                        `json:"closeTime"`
	MeetingRooms []roomDto.MeetingRoomResponse `json:"meetingRooms,omitempty"`
	gDto.Metadata
}

func (r *CoworkingSpaceResponse) FromModel(model model.CoworkingSpace) {
	r.ID = model.ID
	r.Name = model.Name
	r.Address = model.Address
	r.District = model.District
	r.Province = model.Province
	r.PostalCode = model.PostalCode
	r.Tel = model.Tel
	r.Region = model.Region
	r.OpenTime = policy.ClockTime(model.OpenTime)
	r.CloseTime = policy.ClockTime(model.CloseTime)
	r.Metadata.FromModel(model.Metadata)
}

func (r *CoworkingSpaceResponse) WithRooms(rooms []roomModel.MeetingRoom) {
	r.MeetingRooms = make([]roomDto.MeetingRoomResponse, len(rooms))
	for i, room := range rooms {
		r.MeetingRooms[i].FromModel(room)
	}
}

type GetCoworkingSpacesResponse struct {
	CoworkingSpaces []CoworkingSpaceResponse `json:"coworkingSpaces"`
	TotalPage       int                      `json:"total_page"`
	TotalData       int                      `json:"total_data"`
}

func (r *GetCoworkingSpacesResponse) FromModels(models []model.CoworkingSpace, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.CoworkingSpaces = make([]CoworkingSpaceResponse, len(models))
	for i, mod := range models {
		r.CoworkingSpaces[i].FromModel(mod)
	}
}
