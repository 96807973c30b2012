package persistent

import (
	"context"

	"online-panthi/pkg/models"
	"online-panthi/services/auth/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	// CreateWithProfile inserts the user and its mirrored profile row together.
	CreateWithProfile(ctx context.Context, user *entity.User, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (*entity.User, string, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	Upsert(ctx context.Context, profile *entity.Profile) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateWithProfile(ctx context.Context, user *entity.User, passwordHash string) error {
	userModel := ToUserModel(user, passwordHash)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userModel).Error; err != nil {
			return err
		}
		profile := &models.Profile{
			ID:       userModel.ID,
			FullName: userModel.FullName,
			Country:  userModel.Country,
			Birthday: userModel.Birthday,
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(profile).Error
	})
	if err != nil {
		return err
	}

	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, string, error) {
	var userModel models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&userModel).Error; err != nil {
		return nil, "", err
	}
	return ToUserEntity(&userModel), userModel.PasswordHash, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var userModel models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error; err != nil {
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	var profileModel models.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profileModel).Error; err != nil {
		return nil, err
	}
	return ToProfileEntity(&profileModel), nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *entity.Profile) error {
	profileModel := ToProfileModel(profile)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "country", "birthday", "updated_at"}),
		}).
		Create(profileModel).Error
	if err != nil {
		return err
	}
	*profile = *ToProfileEntity(profileModel)
	return nil
}
