package services

import (
	"log"
	"time"

	"chatline/configs"
	"chatline/internal/errs"
	"chatline/internal/models"
	"chatline/internal/repositories"
	"chatline/internal/utils"
	"chatline/internal/validators"
)

type AuthenticationService struct {
	authRepo     *repositories.AuthenticationRepository
	emailService *EmailService
	config       *configs.Config
}

func NewAuthenticationService(
	authRepo *repositories.AuthenticationRepository,
	emailService *EmailService,
	config *configs.Config,
) *AuthenticationService {
	return &AuthenticationService{
		authRepo:     authRepo,
		emailService: emailService,
		config:       config,
	}
}

func (as *AuthenticationService) JwtKey() []byte {
	return []byte(as.config.Viper.GetString("jwt.secret"))
}

// Register validates and creates the account, then issues a one-time
// passcode by email. The email send is best-effort: a delivery failure does
// not fail the signup.
func (as *AuthenticationService) Register(signup *models.SignupRequestBody) (*models.User, []error) {
	var serviceErrs []error

	validationErrs := validators.ValidateSignup(signup)
	if len(validationErrs) > 0 {
		return nil, validationErrs
	}

	password, err := utils.HashPassword(signup.Password)
	if err != nil {
		serviceErrs = append(serviceErrs, err)
		return nil, serviceErrs
	}

	user := &models.User{
		UserName:     signup.UserName,
		Email:        signup.Email,
		PasswordHash: password,
	}
	created, repoErrs := as.authRepo.CreateUser(user)
	if len(repoErrs) > 0 {
		return nil, repoErrs
	}

	if err := as.issueOtp(created); err != nil {
		log.Printf("Error issuing OTP for user %v: %v", created.ID, err)
	}

	return created, nil
}

func (as *AuthenticationService) issueOtp(user *models.User) error {
	code, err := utils.GenerateOtp()
	if err != nil {
		return err
	}
	otpTTL := time.Duration(as.config.Viper.GetInt("otp.expiration_seconds")) * time.Second
	expiresAt := time.Now().Add(otpTTL)
	if err := as.authRepo.SaveOtp(user.ID, code, expiresAt); err != nil {
		return err
	}
	return as.emailService.SendOtpEmail(user.Email, user.UserName, code, otpTTL)
}

// VerifyOtp checks the passcode against the stored code and expiry, marking
// the user verified on success. Verification is not a login gate.
func (as *AuthenticationService) VerifyOtp(body *models.VerifyOtpRequestBody) []error {
	var serviceErrs []error

	user := as.authRepo.GetUserByEmail(body.Email)
	if user == nil {
		serviceErrs = append(serviceErrs, errs.ErrUserNotFound)
		return serviceErrs
	}
	if user.OtpCode == nil || body.Code == "" || *user.OtpCode != body.Code {
		serviceErrs = append(serviceErrs, errs.ErrInvalidOtp)
		return serviceErrs
	}
	if user.OtpExpiresAt == nil || time.Now().After(*user.OtpExpiresAt) {
		serviceErrs = append(serviceErrs, errs.ErrOtpExpired)
		return serviceErrs
	}

	if err := as.authRepo.MarkVerified(user.ID); err != nil {
		serviceErrs = append(serviceErrs, err)
		return serviceErrs
	}
	return nil
}

func (as *AuthenticationService) Login(loginData *models.LoginRequestBody) (*models.LoginResponse, []error) {
	user, repoErrs := as.authRepo.Login(loginData, utils.CompareHashAndPassword)
	if len(repoErrs) > 0 {
		return nil, repoErrs
	}

	expiration := time.Now().Add(time.Duration(as.config.Viper.GetInt("jwt.expiration_time")) * time.Second)
	token, err := utils.CreateJwtToken(user.ID, user.Email, user.UserName, as.JwtKey(), expiration)
	if err != nil {
		return nil, []error{err}
	}

	return &models.LoginResponse{
		User:  user.ToProfileResponse(),
		Token: token,
	}, nil
}

func (as *AuthenticationService) GetProfile(userID uint) (*models.ProfileResponse, error) {
	user, err := as.authRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	return user.ToProfileResponse(), nil
}
