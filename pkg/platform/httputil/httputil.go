package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "precinct/pkg/domain-errors"
)

// ErrorResponse is the JSON error envelope. Error carries a human readable
// message that clients surface verbatim; Code is the stable machine code.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so encoding errors are ignored.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		msg := domainErr.Message
		if msg == "" || domainErr.Code == dErrors.CodeInternal {
			msg = defaultMessage(domainErr.Code)
		}
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), ErrorResponse{
			Error: msg,
			Code:  string(domainErr.Code),
		})
		return
	}

	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: defaultMessage(dErrors.CodeInternal),
		Code:  string(dErrors.CodeInternal),
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeTooManyTries:
		return http.StatusTooManyRequests
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func defaultMessage(code dErrors.Code) string {
	switch code {
	case dErrors.CodeNotFound:
		return "Not found"
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		return "Bad request"
	case dErrors.CodeUnauthorized:
		return "Unauthorized"
	case dErrors.CodeUnavailable:
		return "Service unavailable"
	default:
		return "Internal server error"
	}
}
