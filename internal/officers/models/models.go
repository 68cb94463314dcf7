package models

import (
	"strings"
	"time"

	dErrors "precinct/pkg/domain-errors"
)

// Officer is a registered user of the console. The password is only ever
// held as a bcrypt hash.
type Officer struct {
	PoliceID      string
	PoliceName    string
	Department    string
	PoliceAddress string
	Designation   string
	PasswordHash  string
	CreatedAt     time.Time
}

// Registration is the unhashed input for a new officer.
type Registration struct {
	PoliceID      string
	PoliceName    string
	Department    string
	PoliceAddress string
	Designation   string
	Password      string
}

// Complete reports whether every field carries a non-blank value.
func (r Registration) Complete() bool {
	for _, v := range []string{r.PoliceID, r.PoliceName, r.Department, r.PoliceAddress, r.Designation, r.Password} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// NewOfficer builds an officer from a complete registration and a password hash.
func NewOfficer(reg Registration, passwordHash string, now time.Time) (*Officer, error) {
	if !reg.Complete() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "All fields are required")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInternal, "password hash is required")
	}
	return &Officer{
		PoliceID:      reg.PoliceID,
		PoliceName:    reg.PoliceName,
		Department:    reg.Department,
		PoliceAddress: reg.PoliceAddress,
		Designation:   reg.Designation,
		PasswordHash:  passwordHash,
		CreatedAt:     now,
	}, nil
}

// LockoutKey identifies the failure counter for a login name.
func LockoutKey(policeName string) string {
	return "login:" + strings.ToLower(strings.TrimSpace(policeName))
}
