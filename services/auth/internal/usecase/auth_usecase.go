package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"online-panthi/pkg/jwt"
	"online-panthi/pkg/logger"
	"online-panthi/pkg/models"
	"online-panthi/services/auth/internal/entity"
	"online-panthi/services/auth/internal/repo/persistent"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	birthdayLayout   = "2006-01-02"
	maxPasswordBytes = 72
)

type SignUpInput struct {
	FullName string
	Email    string
	Password string
	Country  string
	Birthday string
}

type ProfileInput struct {
	FullName string
	Country  string
	Birthday string
}

// TokenRevoker is satisfied by *jwt.Denylist.
type TokenRevoker interface {
	Revoke(ctx context.Context, claims *jwt.Claims) error
}

type AuthUseCase interface {
	SignUp(ctx context.Context, input SignUpInput) (*entity.Session, error)
	SignIn(ctx context.Context, email, password string) (*entity.Session, error)
	GetSessionUser(ctx context.Context, userID string) (*entity.User, error)
	SignOut(ctx context.Context, claims *jwt.Claims) error
	GetProfile(ctx context.Context, userID string) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*entity.Profile, error)
}

type authUseCase struct {
	userRepo    persistent.UserRepository
	profileRepo persistent.ProfileRepository
	jwtService  *jwt.Service
	revoker     TokenRevoker
	logger      *logger.Logger
}

// NewAuthUseCase accepts a nil revoker; sign-out then only ends the client session.
func NewAuthUseCase(
	userRepo persistent.UserRepository,
	profileRepo persistent.ProfileRepository,
	jwtService *jwt.Service,
	revoker TokenRevoker,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtService:  jwtService,
		revoker:     revoker,
		logger:      logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseBirthday(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(birthdayLayout, value)
	if err != nil {
		return nil, ErrInvalidBirthday
	}
	return &t, nil
}

func (uc *authUseCase) issue(user *entity.User) (*entity.Session, error) {
	token, err := uc.jwtService.GenerateToken(user.ID, jwt.RoleStudent)
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, fmt.Errorf("failed to generate token")
	}
	claims, err := uc.jwtService.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token")
	}
	return &entity.Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

func (uc *authUseCase) SignUp(ctx context.Context, input SignUpInput) (*entity.Session, error) {
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, ErrFullNameRequired
	}
	// bcrypt only hashes the first 72 bytes and refuses longer input
	if len(input.Password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	birthday, err := parseBirthday(input.Birthday)
	if err != nil {
		return nil, err
	}
	country := strings.TrimSpace(input.Country)
	if country == "" {
		country = models.DefaultCountry
	}

	email := normalizeEmail(input.Email)
	if _, _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, fmt.Errorf("failed to process registration")
	}

	user := &entity.User{
		Email:    email,
		FullName: fullName,
		Country:  country,
		Birthday: birthday,
	}
	if err := uc.userRepo.CreateWithProfile(ctx, user, string(hashedPassword)); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		uc.logger.Error("Failed to create user: %v", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	uc.logger.Info("User signed up: %s", user.ID)
	return uc.issue(user)
}

func (uc *authUseCase) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	user, hash, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		uc.logger.Error("Failed to load user: %v", err)
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return uc.issue(user)
}

func (uc *authUseCase) GetSessionUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (uc *authUseCase) SignOut(ctx context.Context, claims *jwt.Claims) error {
	if uc.revoker == nil || claims == nil {
		return nil
	}
	if err := uc.revoker.Revoke(ctx, claims); err != nil {
		uc.logger.Error("Failed to revoke token for %s: %v", claims.UserID, err)
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// GetProfile recreates a missing profile from the account's sign-up metadata.
func (uc *authUseCase) GetProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	profile, err := uc.profileRepo.GetByID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		uc.logger.Error("Failed to load profile %s: %v", userID, err)
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	user, err := uc.GetSessionUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	fullName := strings.TrimSpace(user.FullName)
	if fullName == "" {
		fullName = "User"
	}
	profile = &entity.Profile{
		ID:        userID,
		FullName:  fullName,
		Country:   user.Country,
		Birthday:  user.Birthday,
		UpdatedAt: time.Now().UTC(),
	}
	if err := uc.profileRepo.Upsert(ctx, profile); err != nil {
		uc.logger.Error("Failed to create profile %s: %v", userID, err)
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

func (uc *authUseCase) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*entity.Profile, error) {
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, ErrFullNameRequired
	}
	birthday, err := parseBirthday(input.Birthday)
	if err != nil {
		return nil, err
	}

	profile := &entity.Profile{
		ID:        userID,
		FullName:  fullName,
		Country:   strings.TrimSpace(input.Country),
		Birthday:  birthday,
		UpdatedAt: time.Now().UTC(),
	}
	if err := uc.profileRepo.Upsert(ctx, profile); err != nil {
		uc.logger.Error("Failed to update profile %s: %v", userID, err)
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}
