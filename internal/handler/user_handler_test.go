package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "nutritrack/internal/errors"
	"nutritrack/internal/model"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, email, password, firstName, lastName string) (*model.User, error) {
	args := m.Called(ctx, username, email, password, firstName, lastName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, usernameOrEmail, password string) (string, *model.User, error) {
	args := m.Called(ctx, usernameOrEmail, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.User), args.Error(2)
}

func (m *MockAuthService) TestToken() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ResolveSubject(ctx context.Context, subject string) (*model.User, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) ProvisionDevUser(ctx context.Context) (*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) VerifyEmail(ctx context.Context, verificationToken string) (*model.User, error) {
	args := m.Called(ctx, verificationToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, user *model.User, upd model.UserUpdate) (*model.User, error) {
	args := m.Called(ctx, user, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Deactivate(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Reactivate(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type testValidator struct {
	v *validator.Validate
}

func (t *testValidator) Validate(i interface{}) error {
	return t.v.Struct(i)
}

func TestUserHandler_Reactivate(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		setupMocks   func(*MockAuthService, *MockUserService)
		expectedCode int
	}{
		{
			name: "valid credentials reactivate the account",
			body: `{"username":"alice","password":"password123"}`,
			setupMocks: func(authSvc *MockAuthService, userSvc *MockUserService) {
				user := &model.User{Username: "alice", IsActive: false}
				authSvc.On("Login", mock.Anything, "alice", "password123").Return("token", user, nil)
				userSvc.On("Reactivate", mock.Anything, user).Return(&model.User{Username: "alice", IsActive: true}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "wrong password",
			body: `{"username":"alice","password":"wrong"}`,
			setupMocks: func(authSvc *MockAuthService, userSvc *MockUserService) {
				authSvc.On("Login", mock.Anything, "alice", "wrong").Return("", nil, apperrors.ErrInvalidCredentials)
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "missing password",
			body:         `{"username":"alice"}`,
			setupMocks:   func(authSvc *MockAuthService, userSvc *MockUserService) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := new(MockAuthService)
			userSvc := new(MockUserService)
			tt.setupMocks(authSvc, userSvc)

			h := NewUserHandler(userSvc, authSvc)

			e := echo.New()
			e.Validator = &testValidator{v: validator.New()}
			e.POST("/users/reactivate", h.Reactivate)

			req := httptest.NewRequest(http.MethodPost, "/users/reactivate", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.expectedCode == http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"is_active":true`)
			}
			authSvc.AssertExpectations(t)
			userSvc.AssertExpectations(t)
		})
	}
}
