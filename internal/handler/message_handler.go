package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"nutritrack/internal/model"
	"nutritrack/internal/service"
)

// MessageHandler handles message processing endpoints.
type MessageHandler struct {
	svc service.MessageService
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(svc service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Process godoc
// @Summary Process a free-text message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.MessageRequest true "Message"
// @Success 200 {object} model.MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /messages/process [post]
func (h *MessageHandler) Process(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req model.MessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, h.svc.ProcessMessage(user.Username, req))
}

// Hello godoc
// @Summary Authenticated greeting
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /hello_authenticated [get]
func (h *MessageHandler) Hello(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Hello, %s!", user.Username),
	})
}
