package services

import (
	"chatline/internal/models"
	"chatline/internal/repositories"
)

const userSearchLimit = 50

type UserService struct {
	userRepo *repositories.UserRepository
}

func NewUserService(userRepo *repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

func (us *UserService) SearchUsers(query string, callerID uint, page int) ([]*models.UserResponse, []error) {
	if page < 1 {
		page = 1
	}
	users, repoErrs := us.userRepo.SearchUsers(query, callerID, page, userSearchLimit)
	if len(repoErrs) > 0 {
		return nil, repoErrs
	}
	responses := []*models.UserResponse{}
	for i := range users {
		responses = append(responses, users[i].ToUserResponse())
	}
	return responses, nil
}

func (us *UserService) AddContact(userID, contactID uint) error {
	return us.userRepo.AddContact(userID, contactID)
}

func (us *UserService) GetContacts(userID uint) ([]*models.UserResponse, error) {
	contacts, err := us.userRepo.GetContacts(userID)
	if err != nil {
		return nil, err
	}
	responses := []*models.UserResponse{}
	for i := range contacts {
		responses = append(responses, contacts[i].ToUserResponse())
	}
	return responses, nil
}

func (us *UserService) SetOnlineStatus(userID uint, online bool) error {
	return us.userRepo.SetOnlineStatus(userID, online)
}
