package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"nutritrack/internal/auth"
	"nutritrack/internal/config"
	"nutritrack/internal/handler"
)

// Register wires routes and middleware. Public routes (health, docs, auth
// entry points) live outside the authenticated group; everything else goes
// through the bearer-token middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authMiddleware echo.MiddlewareFunc,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	nutritionHandler *handler.NutritionHandler,
	messageHandler *handler.MessageHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"message": "API is running",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(cfg.APIPrefix)

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/verify", authHandler.Verify)
	api.POST("/auth/test-token", authHandler.TestToken)
	api.POST("/users/reactivate", userHandler.Reactivate)

	// Secured routes (require a bearer token)
	secured := api.Group("", authMiddleware)

	secured.GET("/auth/me", authHandler.Me)
	secured.GET("/hello_authenticated", messageHandler.Hello)

	// User routes
	secured.PATCH("/users/me", userHandler.UpdateMe)
	secured.POST("/users/deactivate", userHandler.Deactivate)

	// Message routes
	secured.POST("/messages/process", messageHandler.Process)

	// Nutrition routes write to the permanent record; they require a
	// verified email on top of authentication.
	nutrition := secured.Group("/nutrition", auth.RequireVerified())
	nutrition.GET("/profile", nutritionHandler.GetProfile)
	nutrition.PUT("/profile", nutritionHandler.UpdateProfile)
	nutrition.POST("/extract", nutritionHandler.Extract)
	nutrition.POST("/confirm/:id", nutritionHandler.Confirm)
	nutrition.POST("/reject/:id", nutritionHandler.Reject)
	nutrition.GET("/tracker", nutritionHandler.Tracker)
	nutrition.GET("/summary", nutritionHandler.Summary)
	nutrition.POST("/water", nutritionHandler.Water)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
