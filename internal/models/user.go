// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents an account holder.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	AvatarURL string    `gorm:"size:255" json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Posts     []Post    `gorm:"foreignKey:UserID" json:"-"`
}

// UserSummary is the author block embedded in posts.
type UserSummary struct {
	ID        uint    `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

// AccountView is the user block returned by auth endpoints.
type AccountView struct {
	ID        uint    `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url"`
}

// Summary returns the public author block for u.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: NullableString(u.AvatarURL),
	}
}

// Account returns the self-facing view of u, including the email address.
func (u *User) Account() AccountView {
	return AccountView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		AvatarURL: NullableString(u.AvatarURL),
	}
}

// NullableString maps "" to nil so it serializes as JSON null.
func NullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
