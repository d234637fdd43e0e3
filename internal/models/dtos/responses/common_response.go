package responses

import "time"

// APIResponse is the envelope every JSON endpoint answers with.
type APIResponse[T any] struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
	Code      string    `json:"code,omitempty"`
	Data      *T        `json:"data,omitempty"`
}

// MessageData is the payload of endpoints that only acknowledge.
type MessageData struct {
	Message string `json:"message"`
}
