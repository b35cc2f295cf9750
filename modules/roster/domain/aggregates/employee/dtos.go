package employee

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yamato-denko/koutei/pkg/constants"
)

type CreateDTO struct {
	Code       string `json:"code" validate:"required"`
	FamilyName string `json:"family_name" validate:"required"`
	GivenName  string `json:"given_name" validate:"required"`
	Office     string `json:"office"`
	Department string `json:"department"`
	Email      string `json:"email" validate:"omitempty,email"`
}

type UpdateDTO struct {
	FamilyName string `json:"family_name" validate:"required"`
	GivenName  string `json:"given_name" validate:"required"`
	Office     string `json:"office"`
	Department string `json:"department"`
	Email      string `json:"email" validate:"omitempty,email"`
}

// BulkRowDTO is one row of the editable roster table. ID is the row's
// current identity: an existing employee code, or a new_ token for rows
// added locally and not yet saved.
type BulkRowDTO struct {
	ID         string `json:"id" validate:"required"`
	Code       string `json:"code" validate:"required"`
	FamilyName string `json:"family_name"`
	GivenName  string `json:"given_name"`
	Office     string `json:"office"`
	Department string `json:"department"`
	Email      string `json:"email"`
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Code = strings.TrimSpace(d.Code)
	return validateStruct(d)
}

func (d *CreateDTO) ToEntity() Employee {
	return New(d.Code, d.FamilyName, d.GivenName, d.Office, d.Department, d.Email)
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	return validateStruct(d)
}

func (d *UpdateDTO) ToEntity(code string) Employee {
	return New(code, d.FamilyName, d.GivenName, d.Office, d.Department, d.Email)
}

func (d *BulkRowDTO) Ok() (map[string]string, bool) {
	d.Code = strings.TrimSpace(d.Code)
	return validateStruct(d)
}

func (d *BulkRowDTO) ToEntity() Employee {
	return New(d.Code, d.FamilyName, d.GivenName, d.Office, d.Department, d.Email)
}

func validateStruct(v interface{}) (map[string]string, bool) {
	errs := constants.Validate.Struct(v)
	if errs == nil {
		return map[string]string{}, true
	}
	fields := map[string]string{}
	for _, err := range errs.(validator.ValidationErrors) {
		fields[err.Field()] = err.Tag()
	}
	return fields, false
}
