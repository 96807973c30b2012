package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"online-panthi/pkg/jwt"
	"online-panthi/services/auth/internal/entity"
	"online-panthi/services/auth/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthUseCase is a mock implementation of AuthUseCase
type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) SignUp(ctx context.Context, input usecase.SignUpInput) (*entity.Session, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockAuthUseCase) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockAuthUseCase) GetSessionUser(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) SignOut(ctx context.Context, claims *jwt.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

func (m *MockAuthUseCase) GetProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockAuthUseCase) UpdateProfile(ctx context.Context, userID string, input usecase.ProfileInput) (*entity.Profile, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

var _ usecase.AuthUseCase = (*MockAuthUseCase)(nil)

func setupTestRouter(handler *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/signup", handler.SignUp)
	router.POST("/auth/signin", handler.SignIn)
	router.PUT("/profile", func(c *gin.Context) {
		c.Set("user_id", "user-123")
		handler.UpdateProfile(c)
	})
	return router
}

func postJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

type fieldErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func TestSignUp_ShortPasswordNeverCallsUseCase(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	router := setupTestRouter(NewAuthHandler(mockUseCase))

	w := postJSON(router, "POST", "/auth/signup", SignUpRequest{
		FullName:        "Nimal Perera",
		Email:           "nimal@example.lk",
		Password:        "short",
		ConfirmPassword: "short",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp fieldErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "must be at least 8 characters", resp.Fields["password"])
	mockUseCase.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
}

func TestSignUp_OverlongPasswordIsFieldError(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	router := setupTestRouter(NewAuthHandler(mockUseCase))

	long := strings.Repeat("p", 73)
	w := postJSON(router, "POST", "/auth/signup", SignUpRequest{
		FullName:        "Nimal Perera",
		Email:           "nimal@example.lk",
		Password:        long,
		ConfirmPassword: long,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp fieldErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "must be at most 72 characters", resp.Fields["password"])
	mockUseCase.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
}

func TestSignUp_MultibytePasswordOverBcryptLimit(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	router := setupTestRouter(NewAuthHandler(mockUseCase))

	mockUseCase.On("SignUp", mock.Anything, mock.Anything).Return(nil, usecase.ErrPasswordTooLong)

	long := strings.Repeat("අ", 30)
	w := postJSON(router, "POST", "/auth/signup", SignUpRequest{
		FullName:        "Nimal Perera",
		Email:           "nimal@example.lk",
		Password:        long,
		ConfirmPassword: long,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp fieldErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "must be at most 72 bytes", resp.Fields["password"])
	mockUseCase.AssertExpectations(t)
}

func TestSignUp_MismatchedConfirmationNeverCallsUseCase(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	router := setupTestRouter(NewAuthHandler(mockUseCase))

	w := postJSON(router, "POST", "/auth/signup", SignUpRequest{
		FullName:        "Nimal Perera",
		Email:           "nimal@example.lk",
		Password:        "longenough1",
		ConfirmPassword: "longenough2",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp fieldErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "does not match", resp.Fields["confirm_password"])
	mockUseCase.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
}

func TestSignUp_BadEmailAndMissingName(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	router := setupTestRouter(NewAuthHandler(mockUseCase))

	w := postJSON(router, "POST", "/auth/signup", map[string]string{
		"email":            "not-an-email",
		"password":         "longenough",
		"confirm_password": "longenough",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp fieldErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "email")
	assert.Contains(t, resp.Fields, "full_name")
	mockUseCase.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
}

func TestSignUp_Created(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	router := setupTestRouter(NewAuthHandler(mockUseCase))

	input := usecase.SignUpInput{FullName: "Nimal Perera", Email: "nimal@example.lk", Password: "longenough"}
	mockUseCase.On("SignUp", mock.Anything, input).Return(&entity.Session{
		Token: "tok",
		User:  &entity.User{ID: "user-1", Email: "nimal@example.lk", FullName: "Nimal Perera", Country: "Sri Lanka"},
	}, nil)

	w := postJSON(router, "POST", "/auth/signup", SignUpRequest{
		FullName:        "Nimal Perera",
		Email:           "nimal@example.lk",
		Password:        "longenough",
		ConfirmPassword: "longenough",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"tok"`)
	mockUseCase.AssertExpectations(t)
}

func TestSignUp_EmailTaken(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	router := setupTestRouter(NewAuthHandler(mockUseCase))

	mockUseCase.On("SignUp", mock.Anything, mock.Anything).Return(nil, usecase.ErrEmailTaken)

	w := postJSON(router, "POST", "/auth/signup", SignUpRequest{
		FullName:        "Nimal Perera",
		Email:           "nimal@example.lk",
		Password:        "longenough",
		ConfirmPassword: "longenough",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	router := setupTestRouter(NewAuthHandler(mockUseCase))

	mockUseCase.On("SignIn", mock.Anything, "nimal@example.lk", "wrongpassword").Return(nil, usecase.ErrInvalidCredentials)

	w := postJSON(router, "POST", "/auth/signin", SignInRequest{Email: "nimal@example.lk", Password: "wrongpassword"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestUpdateProfile_RequiresFullName(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	router := setupTestRouter(NewAuthHandler(mockUseCase))

	w := postJSON(router, "PUT", "/profile", map[string]string{"country": "India"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfile_BadBirthday(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	router := setupTestRouter(NewAuthHandler(mockUseCase))

	input := usecase.ProfileInput{FullName: "Nimal", Birthday: "31/12/2000"}
	mockUseCase.On("UpdateProfile", mock.Anything, "user-123", input).Return(nil, usecase.ErrInvalidBirthday)

	w := postJSON(router, "PUT", "/profile", UpdateProfileRequest{FullName: "Nimal", Birthday: "31/12/2000"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "birthday")
}
