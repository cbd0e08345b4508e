package model

import (
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	apperrors "halflips/internal/errors"
)

// MaxPostLength is the maximum number of characters in a post.
const MaxPostLength = 280

// Post is a short message owned by one user.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Content   string    `json:"content" gorm:"size:280;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// ValidContent reports whether content has between 1 and MaxPostLength characters.
func ValidContent(content string) bool {
	n := utf8.RuneCountInString(content)
	return n > 0 && n <= MaxPostLength
}

// BeforeCreate rejects out-of-bounds content and stamps the creation time in UTC.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if !ValidContent(p.Content) {
		return apperrors.ErrInvalidContent
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	} else {
		p.CreatedAt = p.CreatedAt.UTC()
	}
	return nil
}
