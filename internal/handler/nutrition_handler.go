package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "nutritrack/internal/errors"
	"nutritrack/internal/model"
	"nutritrack/internal/service"
)

// NutritionHandler handles nutrition profile, extraction and tracker endpoints.
type NutritionHandler struct {
	svc service.NutritionService
}

// NewNutritionHandler creates a new nutrition handler.
func NewNutritionHandler(svc service.NutritionService) *NutritionHandler {
	return &NutritionHandler{svc: svc}
}

// ExtractRequest carries the raw message to extract nutrition data from.
type ExtractRequest struct {
	Message string `json:"message" validate:"required"`
}

// ExtractResponse pairs the recorded extraction with its proposed meal.
type ExtractResponse struct {
	Extraction *model.NutritionExtraction `json:"extraction"`
	Meal       *model.Meal                `json:"meal"`
}

// ExtractionResult reports the outcome of a confirm/reject operation.
type ExtractionResult struct {
	Success    bool                       `json:"success"`
	Extraction *model.NutritionExtraction `json:"extraction,omitempty"`
}

// WaterRequest adds milliliters to today's water counter.
type WaterRequest struct {
	AmountML int `json:"amount_ml" validate:"required,gt=0"`
}

// GetProfile godoc
// @Summary Get the current user's nutrition profile
// @Tags nutrition
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.NutritionProfile
// @Failure 404 {object} errors.ErrorResponse
// @Router /nutrition/profile [get]
func (h *NutritionHandler) GetProfile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.svc.GetProfile(c.Request().Context(), user.Username)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Create or update the current user's nutrition profile
// @Tags nutrition
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ProfileUpdate true "Profile fields"
// @Success 200 {object} model.NutritionProfile
// @Failure 400 {object} errors.ErrorResponse
// @Router /nutrition/profile [put]
func (h *NutritionHandler) UpdateProfile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var upd model.ProfileUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.svc.UpsertProfile(c.Request().Context(), user.Username, upd)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// Extract godoc
// @Summary Extract nutrition data from a message
// @Description Records a pending extraction; the meal is a placeholder until the extraction model lands.
// @Tags nutrition
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ExtractRequest true "Message"
// @Success 201 {object} ExtractResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /nutrition/extract [post]
func (h *NutritionHandler) Extract(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req ExtractRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	extraction, meal, err := h.svc.ExtractFromMessage(c.Request().Context(), user.Username, req.Message)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, ExtractResponse{
		Extraction: extraction,
		Meal:       meal,
	})
}

// Confirm godoc
// @Summary Confirm a pending extraction
// @Description Appends the extracted meal to that day's tracker. Non-pending extractions are a safe no-op.
// @Tags nutrition
// @Produce json
// @Security BearerAuth
// @Param id path string true "Extraction ID"
// @Success 200 {object} ExtractionResult
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} ExtractionResult
// @Router /nutrition/confirm/{id} [post]
func (h *NutritionHandler) Confirm(c echo.Context) error {
	ok, extraction, err := h.svc.ConfirmExtraction(c.Request().Context(), c.Param("id"))
	return extractionResult(c, ok, extraction, err)
}

// Reject godoc
// @Summary Reject a pending extraction
// @Tags nutrition
// @Produce json
// @Security BearerAuth
// @Param id path string true "Extraction ID"
// @Success 200 {object} ExtractionResult
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} ExtractionResult
// @Router /nutrition/reject/{id} [post]
func (h *NutritionHandler) Reject(c echo.Context) error {
	ok, extraction, err := h.svc.RejectExtraction(c.Request().Context(), c.Param("id"))
	return extractionResult(c, ok, extraction, err)
}

func extractionResult(c echo.Context, ok bool, extraction *model.NutritionExtraction, err error) error {
	if err != nil {
		return domainError(err)
	}
	if !ok && extraction == nil {
		return domainError(apperrors.ErrNotFound)
	}
	status := http.StatusOK
	if !ok {
		// Already in a terminal state; report the unchanged record.
		status = http.StatusConflict
	}
	return c.JSON(status, ExtractionResult{Success: ok, Extraction: extraction})
}

// Tracker godoc
// @Summary Get the daily tracker
// @Description Returns the tracker for the given date (YYYY-MM-DD, default today), creating it if absent.
// @Tags nutrition
// @Produce json
// @Security BearerAuth
// @Param date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} model.NutritionTracker
// @Failure 400 {object} errors.ErrorResponse
// @Router /nutrition/tracker [get]
func (h *NutritionHandler) Tracker(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	day, err := parseDay(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	tracker, err := h.svc.GetDailyTracker(c.Request().Context(), user.Username, day)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, tracker)
}

// Summary godoc
// @Summary Get the daily nutrition summary
// @Description Aggregate intake for the date plus BMR/TDEE and goals from the profile.
// @Tags nutrition
// @Produce json
// @Security BearerAuth
// @Param date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} service.DailySummary
// @Failure 400 {object} errors.ErrorResponse
// @Router /nutrition/summary [get]
func (h *NutritionHandler) Summary(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	day, err := parseDay(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	summary, err := h.svc.DailySummary(c.Request().Context(), user.Username, day)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// Water godoc
// @Summary Add water intake to today's tracker
// @Tags nutrition
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body WaterRequest true "Amount in milliliters"
// @Success 200 {object} model.NutritionTracker
// @Failure 400 {object} errors.ErrorResponse
// @Router /nutrition/water [post]
func (h *NutritionHandler) Water(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req WaterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tracker, err := h.svc.AddWaterIntake(c.Request().Context(), user.Username, req.AmountML)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, tracker)
}

func parseDay(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	return time.ParseInLocation("2006-01-02", raw, time.Local)
}
