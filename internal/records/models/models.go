package models

import (
	"strings"
	"time"
	"unicode/utf8"

	dErrors "precinct/pkg/domain-errors"
)

const (
	MaxIDLength         = 128
	MaxNameLength       = 200
	MaxNationalIDLength = 64
)

type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

// ParseSex accepts the two canonical values; empty means Male.
func ParseSex(raw string) (Sex, error) {
	switch Sex(raw) {
	case "":
		return SexMale, nil
	case SexMale, SexFemale:
		return Sex(raw), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "sex must be one of [Male Female]")
	}
}

// Record is a criminal record keyed by a client generated ID.
type Record struct {
	ID         string
	Name       string
	Sex        Sex
	NationalID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewRecord validates presence of id and name and defaults sex. NationalID is optional.
// Length limits count characters, not bytes.
func NewRecord(id, name, sex, nationalID string, now time.Time) (*Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "c_id is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if utf8.RuneCountInString(id) > MaxIDLength {
		return nil, dErrors.New(dErrors.CodeValidation, "c_id is too long")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, dErrors.New(dErrors.CodeValidation, "name is too long")
	}
	if utf8.RuneCountInString(nationalID) > MaxNationalIDLength {
		return nil, dErrors.New(dErrors.CodeValidation, "national_id is too long")
	}
	parsedSex, err := ParseSex(sex)
	if err != nil {
		return nil, err
	}
	return &Record{
		ID:         id,
		Name:       name,
		Sex:        parsedSex,
		NationalID: nationalID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Outcome tells what an upsert did.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	// OutcomeSkipped is an update whose ID matched nothing.
	OutcomeSkipped Outcome = "skipped"
)

// NullQuery is the list query clients send when no filter is active.
const NullQuery = "null"

// IsUnfiltered reports whether query selects every record.
func IsUnfiltered(query string) bool {
	return query == "" || query == NullQuery
}
