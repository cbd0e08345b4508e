package repository

import (
	"context"

	"gorm.io/gorm"

	"halflips/internal/model"
)

// PostRepository defines post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	ListNewestFirst(ctx context.Context) ([]model.Post, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create stores a post. Out-of-bounds content is rejected by the model hook
// with ErrInvalidContent and nothing is written.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// ListNewestFirst returns every post with its author, newest first. Posts with
// equal timestamps come back in reverse insertion order.
func (r *postRepository) ListNewestFirst(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := r.newestFirst(ctx).Preload("User").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByUser returns the posts of one user, newest first.
func (r *postRepository) ListByUser(ctx context.Context, userID uint) ([]model.Post, error) {
	var posts []model.Post
	if err := r.newestFirst(ctx).Where("user_id = ?", userID).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) newestFirst(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
}
