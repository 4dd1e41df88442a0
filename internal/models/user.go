package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account. The plaintext password is only bound
// from request bodies and never stored.
type User struct {
	gorm.Model
	UserName     string     `gorm:"uniqueIndex;not null" json:"user_name"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Password     string     `gorm:"-" json:"password"`
	Avatar       *string    `json:"avatar"`
	Bio          string     `gorm:"size:250" json:"bio"`
	IsOnline     bool       `gorm:"default:false" json:"is_online"`
	LastActive   *time.Time `json:"last_active"`
	IsVerified   bool       `gorm:"default:false" json:"is_verified"`
	OtpCode      *string    `json:"-"`
	OtpExpiresAt *time.Time `json:"-"`
	Contacts     []User     `gorm:"many2many:user_contacts;" json:"-"`
}

func (user *User) ToUserResponse() *UserResponse {
	return &UserResponse{
		ID:         user.ID,
		UserName:   user.UserName,
		Avatar:     user.Avatar,
		Bio:        user.Bio,
		IsOnline:   user.IsOnline,
		LastActive: user.LastActive,
	}
}

func (user *User) ToProfileResponse() *ProfileResponse {
	return &ProfileResponse{
		ID:         user.ID,
		UserName:   user.UserName,
		Email:      user.Email,
		Avatar:     user.Avatar,
		Bio:        user.Bio,
		IsVerified: user.IsVerified,
	}
}
