package dto

import (
	"net/url"
	"strings"

	"cowork/internal/domains/user/model"
	"cowork/shared"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	gModel "cowork/shared/model"
	"cowork/shared/timezone"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Tel      string `json:"tel"      validate:"omitempty,max=20"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

// ToModel defaults the role to user. The user is its own creator when actor is empty.
func (r *CreateUserRequest) ToModel(actor string, hashedPassword string) model.User {
	role := r.Role
	if role == constant.Empty {
		role = constant.RoleUser
	}

	id := uuid.NewString()
	if actor == constant.Empty {
		actor = id
	}

	now := timezone.Now()

	return model.User{
		ID:       id,
		Name:     r.Name,
		Email:    strings.ToLower(r.Email),
		Tel:      r.Tel,
		Password: hashedPassword,
		Role:     role,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  actor,
			ModifiedBy: actor,
		},
	}
}

type UpdateUserRequest struct {
	Name string `db:"name" json:"name" validate:"omitempty,max=100"`
	Tel  string `db:"tel"  json:"tel"  validate:"omitempty,max=20"`
	Role string `db:"role" json:"role" validate:"omitempty,oneof=user admin"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Tel   string `json:"tel,omitempty"`
	Role  string `json:"role"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Name = model.Name
	r.Email = model.Email
	r.Tel = model.Tel
	r.Role = model.Role
	r.Metadata.FromModel(model.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}

// FilterFromQuery reads the listing filters: exact email and role, partial name.
func FilterFromQuery(query url.Values) gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	add := func(field, operator string, value string) {
		if value == constant.Empty {
			return
		}

		group.Filters = append(group.Filters, gDto.Filter{
			Field:    field,
			Operator: operator,
			Value:    value,
			Table:    model.TableName,
		})
	}

	add(model.FieldEmail, gDto.FilterOperatorEq, strings.ToLower(query.Get(model.FieldEmail)))
	add(model.FieldRole, gDto.FilterOperatorEq, query.Get(model.FieldRole))
	add(model.FieldName, gDto.FilterOperatorLike, query.Get(model.FieldName))

	return group
}
