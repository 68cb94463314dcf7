package handler

import (
	"strings"

	"precinct/internal/officers/models"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/validation"
)

type RegisterRequest struct {
	PoliceID      string `json:"policeId" validate:"max=64"`
	PoliceName    string `json:"policeName" validate:"max=200"`
	Department    string `json:"department" validate:"max=200"`
	PoliceAddress string `json:"policeAddress" validate:"max=500"`
	Designation   string `json:"designation" validate:"max=200"`
	Password      string `json:"password"`
}

// bcrypt rejects passwords longer than 72 bytes.
const maxPasswordBytes = 72

func (r *RegisterRequest) Normalize() {
	if r == nil {
		return
	}
	r.PoliceID = strings.TrimSpace(r.PoliceID)
	r.PoliceName = strings.TrimSpace(r.PoliceName)
	r.Department = strings.TrimSpace(r.Department)
	r.PoliceAddress = strings.TrimSpace(r.PoliceAddress)
	r.Designation = strings.TrimSpace(r.Designation)
}

// Validate reports any blank field with the single message the registration
// form shows, then checks lengths. The password limit is in bytes.
func (r *RegisterRequest) Validate() error {
	if !r.toRegistration().Complete() {
		return dErrors.New(dErrors.CodeBadRequest, "All fields are required")
	}
	if len(r.Password) > maxPasswordBytes {
		return dErrors.New(dErrors.CodeValidation, "password must be at most 72 bytes")
	}
	return validation.Validate(r)
}

func (r *RegisterRequest) toRegistration() models.Registration {
	return models.Registration{
		PoliceID:      r.PoliceID,
		PoliceName:    r.PoliceName,
		Department:    r.Department,
		PoliceAddress: r.PoliceAddress,
		Designation:   r.Designation,
		Password:      r.Password,
	}
}

type LoginRequest struct {
	PoliceName string `json:"policeName"`
	Password   string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	if r == nil {
		return
	}
	r.PoliceName = strings.TrimSpace(r.PoliceName)
}

func (r *LoginRequest) Validate() error {
	if r.PoliceName == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeBadRequest, "Police Name and Password are required")
	}
	return nil
}
