package validators

import (
	"regexp"

	"chatline/internal/errs"
	"chatline/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func ValidateSignup(signup *models.SignupRequestBody) []error {
	var errors []error
	if signup == nil {
		errors = append(errors, errs.ErrInvalidUser)
		return errors
	}

	if len(signup.UserName) < 3 || len(signup.UserName) > 30 {
		errors = append(errors, errs.ErrInvalidUserName)
	}

	if signup.Email == "" || !ValidateEmail(signup.Email) {
		errors = append(errors, errs.ErrInvalidEmail)
	}

	if !ValidatePassword(signup.Password) {
		errors = append(errors, errs.ErrInvalidPassword)
	}

	return errors
}

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func ValidatePassword(password string) bool {
	return len(password) >= 6 && len(password) <= 100
}
