package repositories

import (
	"errors"
	"time"

	"chatline/internal/errs"
	"chatline/internal/models"

	"gorm.io/gorm"
)

type AuthenticationRepository struct {
	db *gorm.DB
}

func NewAuthenticationRepository(db *gorm.DB) *AuthenticationRepository {
	return &AuthenticationRepository{
		db: db,
	}
}

func (ar *AuthenticationRepository) CreateUser(user *models.User) (*models.User, []error) {
	var errors []error
	if ar.GetUserByEmail(user.Email) != nil {
		errors = append(errors, errs.ErrEmailAlreadyExists)
		return nil, errors
	}
	if ar.GetUserByUserName(user.UserName) != nil {
		errors = append(errors, errs.ErrUserNameAlreadyExists)
		return nil, errors
	}
	result := ar.db.Create(user)
	if result.Error != nil {
		errors = append(errors, result.Error)
		return nil, errors
	}
	return user, nil
}

func (ar *AuthenticationRepository) GetUserByEmail(email string) *models.User {
	var user models.User
	result := ar.db.Where("email = ?", email).First(&user)
	if result.Error == nil && result.RowsAffected > 0 {
		return &user
	}
	return nil
}

func (ar *AuthenticationRepository) GetUserByUserName(userName string) *models.User {
	var user models.User
	result := ar.db.Where("user_name = ?", userName).First(&user)
	if result.Error == nil && result.RowsAffected > 0 {
		return &user
	}
	return nil
}

func (ar *AuthenticationRepository) Login(login *models.LoginRequestBody, compare func(hash, password string) error) (*models.User, []error) {
	var errors []error
	user := ar.GetUserByEmail(login.Email)
	if user == nil {
		errors = append(errors, errs.ErrUserNotFound)
		return nil, errors
	}
	if err := compare(user.PasswordHash, login.Password); err != nil {
		errors = append(errors, errs.ErrWrongPassword)
		return nil, errors
	}
	return user, nil
}

func (ar *AuthenticationRepository) SaveOtp(userID uint, code string, expiresAt time.Time) error {
	return ar.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"otp_code":       code,
			"otp_expires_at": expiresAt,
		}).Error
}

// MarkVerified flags the user verified and clears the consumed passcode.
func (ar *AuthenticationRepository) MarkVerified(userID uint) error {
	result := ar.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_verified":    true,
			"otp_code":       nil,
			"otp_expires_at": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}

func (ar *AuthenticationRepository) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	result := ar.db.First(&user, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}
