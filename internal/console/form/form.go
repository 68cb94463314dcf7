// Package form maps the add/edit modal fields to a record payload.
package form

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"precinct/contracts/records"
)

// Placeholder is rendered in place of empty values.
const Placeholder = "N/A"

var ErrNameRequired = errors.New("name is required")

// State holds the modal's field values.
type State struct {
	Name       string
	Sex        records.Sex
	NationalID string
}

// ForAdd returns the empty defaults of the add modal.
func ForAdd() State {
	return State{Sex: records.SexMale}
}

// ForEdit pre-fills the modal from rec.
func ForEdit(rec records.Record) State {
	return State{
		Name:       rec.Name,
		Sex:        rec.Sex.OrDefault(),
		NationalID: rec.NationalID,
	}
}

// NewID generates the identifier of a record created from the console.
func NewID() string {
	return uuid.NewString()
}

// Payload builds the record to upsert. In edit mode selected's ID is reused;
// otherwise newID supplies a fresh one.
func (s State) Payload(selected *records.Record, newID func() string) (records.Record, error) {
	if strings.TrimSpace(s.Name) == "" {
		return records.Record{}, ErrNameRequired
	}
	var id string
	if selected != nil {
		id = selected.ID
	} else {
		if newID == nil {
			newID = NewID
		}
		id = newID()
	}
	return records.Record{
		ID:         id,
		Name:       s.Name,
		Sex:        s.Sex.OrDefault(),
		NationalID: s.NationalID,
	}, nil
}

// Display substitutes Placeholder for an empty value.
func Display(value string) string {
	if value == "" {
		return Placeholder
	}
	return value
}
