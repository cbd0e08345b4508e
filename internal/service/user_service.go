package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"halflips/internal/cache"
	apperrors "halflips/internal/errors"
	"halflips/internal/model"
	"halflips/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// ProfileUpdate is the set of editable profile fields. A nil ProfilePic keeps
// the current picture.
type ProfileUpdate struct {
	DisplayName string
	Bio         string
	ProfilePic  *string
}

// UserService exposes user lookups and profile edits.
type UserService interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	Reload(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User, update ProfileUpdate) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// GetByID resolves a user, consulting the cache first.
func (s *userService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil && cached.ID == id {
			return &cached, nil
		}
	}
	return s.Reload(ctx, id)
}

// Reload reads a user from the store, bypassing the cache, and refreshes the
// cached copy. A user that no longer exists is evicted.
func (s *userService) Reload(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = s.cache.Delete(ctx, s.cacheKey(id))
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// GetByUsername resolves a user by exact username.
func (s *userService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return user, nil
}

// UpdateProfile stores display name and bio as given and optionally a new picture.
func (s *userService) UpdateProfile(ctx context.Context, user *model.User, update ProfileUpdate) (*model.User, error) {
	fields := repository.ProfileFields{
		DisplayName: &update.DisplayName,
		Bio:         &update.Bio,
		ProfilePic:  update.ProfilePic,
	}

	updated, err := s.repo.Update(ctx, user.ID, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user %d: %w", user.ID, err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(user.ID))
	return updated, nil
}
