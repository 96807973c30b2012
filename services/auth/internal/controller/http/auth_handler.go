package http

import (
	"errors"
	"net/http"

	"online-panthi/pkg/jwt"
	"online-panthi/pkg/validation"
	"online-panthi/services/auth/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase usecase.AuthUseCase
}

func NewAuthHandler(authUseCase usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type SignUpRequest struct {
	FullName        string `json:"full_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	Country         string `json:"country"`
	Birthday        string `json:"birthday"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Country  string `json:"country"`
	Birthday string `json:"birthday"`
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrFullNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": gin.H{"full_name": "is required"}})
	case errors.Is(err, usecase.ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": gin.H{"password": err.Error()}})
	case errors.Is(err, usecase.ErrInvalidBirthday):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": gin.H{"birthday": err.Error()}})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again"})
	}
}

// SignUp godoc
// @Summary      Create an account
// @Description  Registers a user, creates the profile and returns a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignUpRequest true "Sign-up form"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	session, err := h.authUseCase.SignUp(c.Request.Context(), usecase.SignUpInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Country:  req.Country,
		Birthday: req.Birthday,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// SignIn godoc
// @Summary      Sign in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignInRequest true "Credentials"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	session, err := h.authUseCase.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Session godoc
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	user, err := h.authUseCase.GetSessionUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// SignOut godoc
// @Summary      Sign out
// @Description  Revokes the presented token
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	claims, _ := c.Get("token_claims")
	tokenClaims, _ := claims.(*jwt.Claims)

	if err := h.authUseCase.SignOut(c.Request.Context(), tokenClaims); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetProfile godoc
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	profile, err := h.authUseCase.GetProfile(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Profile"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	profile, err := h.authUseCase.UpdateProfile(c.Request.Context(), c.GetString("user_id"), usecase.ProfileInput{
		FullName: req.FullName,
		Country:  req.Country,
		Birthday: req.Birthday,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
