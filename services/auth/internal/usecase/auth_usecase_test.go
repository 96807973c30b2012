package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"

	"online-panthi/pkg/jwt"
	"online-panthi/pkg/logger"
	"online-panthi/services/auth/internal/entity"
	"online-panthi/services/auth/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryUsers struct {
	mu       sync.Mutex
	users    map[string]*entity.User
	hashes   map[string]string
	profiles map[string]*entity.Profile
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{
		users:    map[string]*entity.User{},
		hashes:   map[string]string{},
		profiles: map[string]*entity.Profile{},
	}
}

var (
	_ persistent.UserRepository    = (*memoryUsers)(nil)
	_ persistent.ProfileRepository = (*memoryProfiles)(nil)
)

func (m *memoryUsers) CreateWithProfile(ctx context.Context, user *entity.User, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = uuid.New().String()
	cp := *user
	m.users[user.ID] = &cp
	m.hashes[user.ID] = passwordHash
	m.profiles[user.ID] = &entity.Profile{ID: user.ID, FullName: user.FullName, Country: user.Country, Birthday: user.Birthday}
	return nil
}

func (m *memoryUsers) GetByEmail(ctx context.Context, email string) (*entity.User, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, m.hashes[id], nil
		}
	}
	return nil, "", gorm.ErrRecordNotFound
}

func (m *memoryUsers) GetByID(ctx context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

type memoryProfiles struct {
	store *memoryUsers
}

func (p *memoryProfiles) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	profile, ok := p.store.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *profile
	return &cp, nil
}

func (p *memoryProfiles) Upsert(ctx context.Context, profile *entity.Profile) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	cp := *profile
	p.store.profiles[profile.ID] = &cp
	return nil
}

type recordingRevoker struct {
	revoked []string
}

func (r *recordingRevoker) Revoke(ctx context.Context, claims *jwt.Claims) error {
	r.revoked = append(r.revoked, claims.ID)
	return nil
}

func newTestAuth() (AuthUseCase, *memoryUsers, *recordingRevoker, *jwt.Service) {
	store := newMemoryUsers()
	revoker := &recordingRevoker{}
	jwtService := jwt.NewService("test-secret")
	uc := NewAuthUseCase(store, &memoryProfiles{store: store}, jwtService, revoker, logger.New())
	return uc, store, revoker, jwtService
}

func TestSignUp_CreatesUserAndProfile(t *testing.T) {
	uc, store, _, jwtService := newTestAuth()

	session, err := uc.SignUp(context.Background(), SignUpInput{
		FullName: "  Nimal Perera ",
		Email:    " Nimal@Example.LK ",
		Password: "longenough",
		Birthday: "2004-05-17",
	})
	require.NoError(t, err)

	assert.Equal(t, "nimal@example.lk", session.User.Email)
	assert.Equal(t, "Nimal Perera", session.User.FullName)
	assert.Equal(t, "Sri Lanka", session.User.Country)
	require.NotNil(t, session.User.Birthday)
	assert.Equal(t, 2004, session.User.Birthday.Year())

	claims, err := jwtService.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)
	assert.Equal(t, jwt.RoleStudent, claims.Role)

	profile := store.profiles[session.User.ID]
	require.NotNil(t, profile)
	assert.Equal(t, "Nimal Perera", profile.FullName)
	assert.NotEqual(t, "longenough", store.hashes[session.User.ID])
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	uc, _, _, _ := newTestAuth()
	input := SignUpInput{FullName: "Nimal", Email: "nimal@example.lk", Password: "longenough"}

	_, err := uc.SignUp(context.Background(), input)
	require.NoError(t, err)

	input.Email = "NIMAL@example.lk"
	_, err = uc.SignUp(context.Background(), input)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUp_Rejections(t *testing.T) {
	uc, store, _, _ := newTestAuth()

	_, err := uc.SignUp(context.Background(), SignUpInput{FullName: "   ", Email: "a@b.lk", Password: "longenough"})
	assert.ErrorIs(t, err, ErrFullNameRequired)

	_, err = uc.SignUp(context.Background(), SignUpInput{FullName: "A", Email: "a@b.lk", Password: "longenough", Birthday: "17/05/2004"})
	assert.ErrorIs(t, err, ErrInvalidBirthday)

	// 30 runes, 90 bytes
	_, err = uc.SignUp(context.Background(), SignUpInput{FullName: "A", Email: "a@b.lk", Password: strings.Repeat("අ", 30)})
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	assert.Empty(t, store.users)
}

func TestSignIn(t *testing.T) {
	uc, _, _, _ := newTestAuth()
	_, err := uc.SignUp(context.Background(), SignUpInput{FullName: "Nimal", Email: "nimal@example.lk", Password: "longenough"})
	require.NoError(t, err)

	session, err := uc.SignIn(context.Background(), "NIMAL@example.lk", "longenough")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)

	_, err = uc.SignIn(context.Background(), "nimal@example.lk", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = uc.SignIn(context.Background(), "nobody@example.lk", "longenough")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignOut_RevokesToken(t *testing.T) {
	uc, _, revoker, jwtService := newTestAuth()
	token, _ := jwtService.GenerateToken("user-1", jwt.RoleStudent)
	claims, _ := jwtService.ValidateToken(token)

	require.NoError(t, uc.SignOut(context.Background(), claims))
	assert.Equal(t, []string{claims.ID}, revoker.revoked)
}

func TestGetProfile_RecreatesMissingProfile(t *testing.T) {
	uc, store, _, _ := newTestAuth()
	session, err := uc.SignUp(context.Background(), SignUpInput{FullName: "Ayesha", Email: "ayesha@example.lk", Password: "longenough", Country: "India"})
	require.NoError(t, err)
	delete(store.profiles, session.User.ID)

	profile, err := uc.GetProfile(context.Background(), session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ayesha", profile.FullName)
	assert.Equal(t, "India", profile.Country)
	assert.Contains(t, store.profiles, session.User.ID)
}

func TestGetProfile_DefaultsFullName(t *testing.T) {
	uc, store, _, _ := newTestAuth()
	store.users["legacy"] = &entity.User{ID: "legacy", Email: "legacy@example.lk"}

	profile, err := uc.GetProfile(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Equal(t, "User", profile.FullName)
}

func TestGetProfile_UnknownUser(t *testing.T) {
	uc, _, _, _ := newTestAuth()

	_, err := uc.GetProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	uc, store, _, _ := newTestAuth()

	profile, err := uc.UpdateProfile(context.Background(), "user-1", ProfileInput{FullName: " Kamal ", Country: "Sri Lanka", Birthday: "1999-01-02"})
	require.NoError(t, err)
	assert.Equal(t, "Kamal", profile.FullName)
	assert.Equal(t, "Kamal", store.profiles["user-1"].FullName)

	_, err = uc.UpdateProfile(context.Background(), "user-1", ProfileInput{FullName: ""})
	assert.ErrorIs(t, err, ErrFullNameRequired)
}
