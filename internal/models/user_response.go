package models

import "time"

type UserResponse struct {
	ID         uint       `json:"id"`
	UserName   string     `json:"user_name"`
	Avatar     *string    `json:"avatar"`
	Bio        string     `json:"bio"`
	IsOnline   bool       `json:"is_online"`
	LastActive *time.Time `json:"last_active"`
}
