package testutil

import (
	"fmt"

	"precinct/contracts/records"
)

// Alice and Bob are the records used across round-trip tests.
var (
	Alice = records.Record{ID: "a1b2c3", Name: "Alice", Sex: records.SexFemale, NationalID: "NID-001"}
	Bob   = records.Record{ID: "b4d5e6", Name: "Bob", Sex: records.SexMale, NationalID: ""}
)

// NewRecord builds a deterministic record for index i.
func NewRecord(i int) records.Record {
	return records.Record{
		ID:         fmt.Sprintf("rec-%04d", i),
		Name:       fmt.Sprintf("Suspect %d", i),
		Sex:        records.SexMale,
		NationalID: fmt.Sprintf("NID-%04d", i),
	}
}

// Officer returns a complete registration payload for policeID.
func Officer(policeID string) records.RegisterRequest {
	return records.RegisterRequest{
		PoliceID:      policeID,
		PoliceName:    "Officer " + policeID,
		Department:    "Homicide",
		PoliceAddress: "1 Precinct Plaza",
		Designation:   "Detective",
		Password:      "s3cret-" + policeID,
	}
}
