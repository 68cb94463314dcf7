package handler

import (
	"precinct/contracts/records"
	"precinct/internal/officers/models"
)

func registered() records.MessageResponse {
	return records.MessageResponse{Message: "Registration successful"}
}

func loggedIn(o *models.Officer) records.LoginResponse {
	return records.LoginResponse{Message: "Login successful", PoliceID: o.PoliceID}
}
