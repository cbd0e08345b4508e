package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "halflips/internal/errors"
	"halflips/internal/model"
)

// ProfileFields carries a partial profile update. Nil fields are left untouched.
type ProfileFields struct {
	DisplayName *string
	Bio         *string
	ProfilePic  *string
	Birthdate   *time.Time
}

func (f ProfileFields) columns() map[string]interface{} {
	cols := make(map[string]interface{}, 4)
	if f.DisplayName != nil {
		cols["display_name"] = *f.DisplayName
	}
	if f.Bio != nil {
		cols["bio"] = *f.Bio
	}
	if f.ProfilePic != nil {
		cols["profile_pic"] = *f.ProfilePic
	}
	if f.Birthdate != nil {
		cols["birthdate"] = *f.Birthdate
	}
	return cols
}

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, id uint, fields ProfileFields) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts user. The unique index on username settles concurrent
// registrations; the loser gets ErrDuplicateUsername.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if user.ProfilePic == "" {
		user.ProfilePic = model.DefaultProfilePic
	}
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrDuplicateUsername
	}
	return err
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername is an exact, case-sensitive match.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies fields in one transaction and returns the stored row.
func (r *userRepository) Update(ctx context.Context, id uint, fields ProfileFields) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cols := fields.columns(); len(cols) > 0 {
			res := tx.Model(&model.User{}).Where("id = ?", id).Updates(cols)
			if res.Error != nil {
				return res.Error
			}
		}
		return tx.First(&user, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
