package model

import "time"

// DefaultProfilePic is the picture assigned to users who never uploaded one.
const DefaultProfilePic = "default.png"

// User represents a registered account.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"size:20;uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"size:60;not null"` // Never expose in JSON
	ProfilePic   string     `json:"profile_pic" gorm:"size:100;default:'default.png'"`
	DisplayName  string     `json:"display_name,omitempty" gorm:"size:50"`
	Bio          string     `json:"bio,omitempty" gorm:"type:text"`
	Birthdate    *time.Time `json:"birthdate,omitempty" gorm:"type:date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	Posts []Post `json:"posts,omitempty" gorm:"foreignKey:UserID"`
}

// Name returns the display name, falling back to the username.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Age returns the user's age in whole years at now, or -1 when no birthdate is set.
func (u *User) Age(now time.Time) int {
	if u.Birthdate == nil {
		return -1
	}
	b := u.Birthdate.UTC()
	now = now.UTC()
	age := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		age--
	}
	return age
}
