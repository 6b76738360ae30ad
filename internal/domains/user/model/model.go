package model

import "cowork/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID       = "id"
	FieldName     = "name"
	FieldEmail    = "email"
	FieldTel      = "tel"
	FieldPassword = "password"
	FieldRole     = "role"
)

type User struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Email    string `db:"email"`
	Tel      string `db:"tel"`
	Password string `db:"password"`
	Role     string `db:"role"`
	model.Metadata
}
