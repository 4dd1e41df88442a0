package models

type ProfileResponse struct {
	ID         uint    `json:"id"`
	UserName   string  `json:"user_name"`
	Email      string  `json:"email"`
	Avatar     *string `json:"avatar"`
	Bio        string  `json:"bio"`
	IsVerified bool    `json:"is_verified"`
}
