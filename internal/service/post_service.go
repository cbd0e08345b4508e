package service

import (
	"context"
	"fmt"

	apperrors "halflips/internal/errors"
	"halflips/internal/model"
	"halflips/internal/repository"
)

// PostService handles post creation and the public timeline.
type PostService interface {
	Create(ctx context.Context, content string, owner *model.User) (*model.Post, error)
	ListNewestFirst(ctx context.Context) ([]model.Post, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Post, error)
}

type postService struct {
	repo repository.PostRepository
}

// NewPostService creates a new post service.
func NewPostService(repo repository.PostRepository) PostService {
	return &postService{repo: repo}
}

// Create stores content as a new post by owner. Content outside 1..280
// characters fails with ErrInvalidContent and nothing is stored.
func (s *postService) Create(ctx context.Context, content string, owner *model.User) (*model.Post, error) {
	if !model.ValidContent(content) {
		return nil, apperrors.ErrInvalidContent
	}

	post := &model.Post{Content: content, UserID: owner.ID}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.User = owner
	return post, nil
}

// ListNewestFirst returns all posts, newest first. There is no pagination.
func (s *postService) ListNewestFirst(ctx context.Context) ([]model.Post, error) {
	posts, err := s.repo.ListNewestFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// ListByUser returns the posts of one user, newest first.
func (s *postService) ListByUser(ctx context.Context, userID uint) ([]model.Post, error) {
	posts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list posts of user %d: %w", userID, err)
	}
	return posts, nil
}
