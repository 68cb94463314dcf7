// Package records holds the wire shapes exchanged between the records backend
// and its clients. Field names follow the established JSON contract and must
// not change without bumping ContractVersion.
package records

const ContractVersion = "v1.0.0"

// NullQuery is sent as the list query when no filter is active.
const NullQuery = "null"

// Paths of the backend operations.
const (
	PathList     = "/getRecords"
	PathUpsert   = "/addRecord"
	PathDelete   = "/deleteRecord"
	PathLogin    = "/login"
	PathRegister = "/register"
)

type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

// Valid reports whether s is one of the two accepted values.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// OrDefault returns Male for an empty value.
func (s Sex) OrDefault() Sex {
	if s == "" {
		return SexMale
	}
	return s
}

// Record is a criminal record. ID is client generated and immutable.
type Record struct {
	ID         string `json:"c_id"`
	Name       string `json:"name"`
	Sex        Sex    `json:"sex"`
	NationalID string `json:"national_id"`
}

type ListResponse struct {
	Data []Record `json:"data"`
}

type UpsertRequest struct {
	Data   Record `json:"data"`
	Create bool   `json:"create"`
}

type StatusResponse struct {
	Status int `json:"status"`
}

type LoginRequest struct {
	PoliceName string `json:"policeName"`
	Password   string `json:"password"`
}

type LoginResponse struct {
	Message  string `json:"message"`
	PoliceID string `json:"policeId"`
}

type RegisterRequest struct {
	PoliceID      string `json:"policeId"`
	PoliceName    string `json:"policeName"`
	Department    string `json:"department"`
	PoliceAddress string `json:"policeAddress"`
	Designation   string `json:"designation"`
	Password      string `json:"password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
