package persistent

import (
	"online-panthi/pkg/models"
	"online-panthi/services/auth/internal/entity"
)

func ToUserEntity(m *models.User) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:        m.ID,
		Email:     m.Email,
		FullName:  m.FullName,
		Country:   m.Country,
		Birthday:  m.Birthday,
		CreatedAt: m.CreatedAt,
	}
}

func ToUserModel(e *entity.User, passwordHash string) *models.User {
	if e == nil {
		return nil
	}

	return &models.User{
		ID:           e.ID,
		Email:        e.Email,
		PasswordHash: passwordHash,
		FullName:     e.FullName,
		Country:      e.Country,
		Birthday:     e.Birthday,
	}
}

func ToProfileEntity(m *models.Profile) *entity.Profile {
	if m == nil {
		return nil
	}

	return &entity.Profile{
		ID:        m.ID,
		FullName:  m.FullName,
		Country:   m.Country,
		Birthday:  m.Birthday,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToProfileModel(e *entity.Profile) *models.Profile {
	if e == nil {
		return nil
	}

	return &models.Profile{
		ID:        e.ID,
		FullName:  e.FullName,
		Country:   e.Country,
		Birthday:  e.Birthday,
		UpdatedAt: e.UpdatedAt,
	}
}
