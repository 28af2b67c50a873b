package taskflow

import (
	"encoding/json"

	"github.com/TWRT/taskflow/internal/models"
)

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type taskEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    models.Task `json:"data"`
}

type listEnvelope struct {
	Success bool          `json:"success"`
	Data    []models.Task `json:"data"`
}

// APIError is the single error type returned by Client. StatusCode is zero
// when the request never got a response.
type APIError struct {
	StatusCode int
	Message    string
	Err        error

	// noRecords is set when the body carried only "message", which is how
	// the list endpoint reports an empty table.
	noRecords bool
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

// newAPIError takes the message from the error envelope, preferring "error"
// over "message", and falls back when neither is usable.
func newAPIError(status int, body []byte, fallback string) *APIError {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Error != "" {
			return &APIError{StatusCode: status, Message: env.Error}
		}
		if env.Message != "" {
			return &APIError{StatusCode: status, Message: env.Message, noRecords: true}
		}
	}
	return &APIError{StatusCode: status, Message: fallback}
}
