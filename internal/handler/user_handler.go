package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"nutritrack/internal/model"
	"nutritrack/internal/service"
)

// UserHandler handles user profile endpoints.
type UserHandler struct {
	svc  service.UserService
	auth service.AuthService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, auth service.AuthService) *UserHandler {
	return &UserHandler{svc: svc, auth: auth}
}

// UpdateMe godoc
// @Summary Update the current user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UserUpdate true "Fields to update"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var upd model.UserUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.svc.Update(c.Request().Context(), user, upd)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Deactivate godoc
// @Summary Deactivate the current user's account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/deactivate [post]
func (h *UserHandler) Deactivate(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	updated, err := h.svc.Deactivate(c.Request().Context(), user)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Reactivate godoc
// @Summary Reactivate a deactivated account
// @Description A deactivated account cannot present a bearer token, so reactivation re-authenticates with credentials.
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/reactivate [post]
func (h *UserHandler) Reactivate(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, user, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return domainError(err)
	}

	updated, err := h.svc.Reactivate(c.Request().Context(), user)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, updated)
}
