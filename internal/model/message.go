package model

// MessageRequest is a free-text message submitted for processing,
// optionally pinned to a date (YYYY-MM-DD).
type MessageRequest struct {
	Message string `json:"message" validate:"required"`
	Date    string `json:"date,omitempty"`
}

// MessageResponse is the outcome of processing a message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Intent  string `json:"intent"`
	UserID  string `json:"user_id"`
}
