package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorType represents different types of errors
type ErrorType int

const (
	ErrorTypeNotFound ErrorType = iota
	ErrorTypeForbidden
	ErrorTypeInternalServer
	ErrorTypeBadRequest
	ErrorTypeBadGateway
	ErrorTypeTooManyRequests
	ErrorTypeGatewayTimeout
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

var errorStatus = map[ErrorType]struct {
	code    int
	message string
}{
	ErrorTypeNotFound:        {http.StatusNotFound, "Resource not found"},
	ErrorTypeForbidden:       {http.StatusForbidden, "Access forbidden"},
	ErrorTypeInternalServer:  {http.StatusInternalServerError, "Internal server error"},
	ErrorTypeBadRequest:      {http.StatusBadRequest, "Bad request"},
	ErrorTypeBadGateway:      {http.StatusBadGateway, "Upstream WHOIS server failed"},
	ErrorTypeTooManyRequests: {http.StatusTooManyRequests, "Too many requests"},
	ErrorTypeGatewayTimeout:  {http.StatusGatewayTimeout, "Upstream WHOIS server timed out"},
}

// StatusCode returns the HTTP status written for errorType.
func StatusCode(errorType ErrorType) int {
	if s, ok := errorStatus[errorType]; ok {
		return s.code
	}
	return http.StatusInternalServerError
}

// HandleHTTPError writes a JSON error body. An empty message is replaced by
// the default one of errorType.
func HandleHTTPError(w http.ResponseWriter, errorType ErrorType, message string) {
	code := http.StatusInternalServerError
	if s, ok := errorStatus[errorType]; ok {
		code = s.code
		if message == "" {
			message = s.message
		}
	}
	if message == "" {
		message = "Unknown error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// HandleInternalError handles internal server errors
func HandleInternalError(w http.ResponseWriter, err error) {
	HandleHTTPError(w, ErrorTypeInternalServer, err.Error())
}
