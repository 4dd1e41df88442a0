package repositories

import (
	"errors"
	"time"

	"chatline/internal/errs"
	"chatline/internal/models"
	"chatline/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// SearchUsers matches the query as a case-insensitive substring of username
// or email, excluding the caller.
func (ur *UserRepository) SearchUsers(query string, excludeUserID uint, page, size int) ([]models.User, []error) {
	var errs []error
	var users []models.User

	tx := ur.db.Where("id <> ?", excludeUserID)
	if query != "" {
		pattern := "%" + query + "%"
		tx = tx.Where("user_name LIKE ? OR email LIKE ?", pattern, pattern)
	}
	if err := tx.Order("user_name").Scopes(utils.Paginate(page, size)).Find(&users).Error; err != nil {
		errs = append(errs, err)
		return nil, errs
	}
	return users, nil
}

func (ur *UserRepository) GetUsersByIDs(ids []uint) (map[uint]*models.User, error) {
	users := make(map[uint]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	var rows []models.User
	if err := ur.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		users[rows[i].ID] = &rows[i]
	}
	return users, nil
}

func (ur *UserRepository) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	result := ur.db.First(&user, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

func (ur *UserRepository) AddContact(userID, contactID uint) error {
	if _, err := ur.GetUserByID(contactID); err != nil {
		return err
	}
	return ur.db.Clauses(clause.OnConflict{DoNothing: true}).
		Table("user_contacts").
		Create(map[string]interface{}{
			"user_id":    userID,
			"contact_id": contactID,
		}).Error
}

func (ur *UserRepository) GetContacts(userID uint) ([]models.User, error) {
	user := models.User{Model: gorm.Model{ID: userID}}
	var contacts []models.User
	if err := ur.db.Model(&user).Association("Contacts").Find(&contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// SetOnlineStatus flips the presence flag; going offline also stamps the
// last-active time.
func (ur *UserRepository) SetOnlineStatus(userID uint, online bool) error {
	updates := map[string]interface{}{"is_online": online}
	if !online {
		updates["last_active"] = time.Now()
	}
	return ur.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}
