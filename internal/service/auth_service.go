package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/sirupsen/logrus"

	"gorm.io/gorm"

	"halflips/internal/auth"
	apperrors "halflips/internal/errors"
	"halflips/internal/model"
	"halflips/internal/repository"
	"halflips/internal/storage"
)

// PictureSaver stores an uploaded picture and returns its filename.
type PictureSaver interface {
	Save(fh *multipart.FileHeader) (string, error)
}

// AuthService handles registration and credential checks.
type AuthService interface {
	Register(ctx context.Context, username, password string, picture *multipart.FileHeader) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	pictures PictureSaver
	log      logrus.FieldLogger
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, pictures PictureSaver, log logrus.FieldLogger) AuthService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &authService{userRepo: userRepo, pictures: pictures, log: log}
}

// Register creates a new user with a hashed password. The picture, when
// given, is stored only after the username is known to be free; without one
// the user gets the default picture.
func (s *authService) Register(ctx context.Context, username, password string, picture *multipart.FileHeader) (*model.User, error) {
	// Check if user already exists
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateUsername
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	profilePic := model.DefaultProfilePic
	if picture != nil && picture.Filename != "" && s.pictures != nil {
		saved, err := s.pictures.Save(picture)
		switch {
		case err == nil:
			profilePic = saved
		case errors.Is(err, storage.ErrInvalidFilename):
			s.log.WithField("filename", picture.Filename).Info("unusable picture filename, keeping default")
		default:
			return nil, fmt.Errorf("save picture: %w", err)
		}
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hashedPassword,
		ProfilePic:   profilePic,
	}

	// The unique index still decides a race between two registrations.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateUsername) {
			return nil, apperrors.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Authenticate returns the user whose credentials match. Unknown usernames and
// wrong passwords produce the same error.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}
