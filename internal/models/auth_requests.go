package models

type SignupRequestBody struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequestBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyOtpRequestBody struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type LoginResponse struct {
	User  *ProfileResponse `json:"user"`
	Token string           `json:"token"`
}
