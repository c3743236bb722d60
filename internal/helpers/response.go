package helpers

import (
	"encoding/json"
	"net/http"
	"time"
)

// APIResponse is the uniform envelope every handler returns.
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Errors    interface{} `json:"errors,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func ErrorResponse(message string, errs interface{}) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Errors:    errs,
		Timestamp: time.Now(),
	}
}

// RespondJSON writes the envelope with the given status code.
func RespondJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
