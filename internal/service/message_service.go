package service

import (
	"fmt"
	"strings"
	"time"

	"nutritrack/internal/model"
)

// MessageService processes free-text user messages.
type MessageService interface {
	ProcessMessage(username string, req model.MessageRequest) model.MessageResponse
}

type messageService struct{}

// NewMessageService builds a MessageService.
func NewMessageService() MessageService {
	return &messageService{}
}

// ProcessMessage classifies the message intent and acknowledges it with a
// personalized greeting. Intent detection is a placeholder: a message
// containing a question mark is a query, everything else a statement.
func (s *messageService) ProcessMessage(username string, req model.MessageRequest) model.MessageResponse {
	intent := "statement"
	if strings.Contains(req.Message, "?") {
		intent = "query"
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	return model.MessageResponse{
		Success: true,
		Message: fmt.Sprintf("Hello %s! Successfully processed message on %s", username, date),
		Intent:  intent,
		UserID:  username,
	}
}
