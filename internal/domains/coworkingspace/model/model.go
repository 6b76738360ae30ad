package model

import (
	"cowork/shared/model"
	"time"
)

const (
	TableName  = "coworking_spaces"
	EntityName = "coworkingspace"

	FieldID         = "id"
	FieldName       = "name"
	FieldAddress    = "address"
	FieldDistrict   = "district"
	FieldProvince   = "province"
	FieldPostalCode = "postal_code"
	FieldTel        = "tel"
	FieldRegion     = "region"
	FieldOpenTime   = "open_time"
	FieldCloseTime  = "close_time"
)

// CoworkingSpace only uses the UTC clock of OpenTime and CloseTime.
type CoworkingSpace struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	Address    string    `db:"address"`
	District   string    `db:"district"`
	Province   string    `db:"province"`
	PostalCode string    `db:"postal_code"`
	Tel        string    `db:"tel"`
	Region     string    `db:"region"`
	OpenTime   time.Time `db:"open_time"`
	CloseTime  time.Time `db:"close_time"`
	model.Metadata
}
