package handler

import (
	"strings"

	"precinct/internal/records/service"
	"precinct/pkg/validation"
)

type RecordPayload struct {
	ID         string `json:"c_id" validate:"required,notblank,max=128"`
	Name       string `json:"name" validate:"required,notblank,max=200"`
	Sex        string `json:"sex" validate:"omitempty,oneof=Male Female"`
	NationalID string `json:"national_id" validate:"max=64"`
}

type UpsertRecordRequest struct {
	Data   RecordPayload `json:"data"`
	Create bool          `json:"create"`
}

// Normalize trims the free-text fields. The ID is an opaque key and is left as sent.
func (r *UpsertRecordRequest) Normalize() {
	if r == nil {
		return
	}
	r.Data.Name = strings.TrimSpace(r.Data.Name)
	r.Data.Sex = strings.TrimSpace(r.Data.Sex)
	r.Data.NationalID = strings.TrimSpace(r.Data.NationalID)
}

func (r *UpsertRecordRequest) Validate() error {
	return validation.Validate(r)
}

func (r *UpsertRecordRequest) toCommand() service.UpsertCommand {
	return service.UpsertCommand{
		ID:         r.Data.ID,
		Name:       r.Data.Name,
		Sex:        r.Data.Sex,
		NationalID: r.Data.NationalID,
		Create:     r.Create,
	}
}
