package repositories

import (
	"errors"
	"sort"
	"time"

	"chatline/internal/errs"
	"chatline/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{
		db: db,
	}
}

// FindOrCreateConversation returns the one conversation for the unordered
// pair, creating it if absent. The conflict-tolerant insert plus the unique
// pair index keeps concurrent calls from both participants idempotent.
func (chr *ChatRepository) FindOrCreateConversation(selfID, otherID uint) (*models.Conversation, bool, []error) {
	var resultErrs []error

	one, two := models.NormalizePair(selfID, otherID)

	var existing models.Conversation
	err := chr.db.Where("user_one_id = ? AND user_two_id = ?", one, two).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		resultErrs = append(resultErrs, err)
		return nil, false, resultErrs
	}

	conversation := models.Conversation{UserOneID: one, UserTwoID: two}
	result := chr.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&conversation)
	if result.Error != nil {
		resultErrs = append(resultErrs, result.Error)
		return nil, false, resultErrs
	}
	if result.RowsAffected == 0 {
		// Lost the race to the other participant; fetch their row.
		if err := chr.db.Where("user_one_id = ? AND user_two_id = ?", one, two).First(&conversation).Error; err != nil {
			resultErrs = append(resultErrs, err)
			return nil, false, resultErrs
		}
		return &conversation, false, nil
	}
	return &conversation, true, nil
}

func (chr *ChatRepository) GetConversationByID(conversationID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	result := chr.db.First(&conversation, conversationID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrConversationNotFound
		}
		return nil, result.Error
	}
	return &conversation, nil
}

func (chr *ChatRepository) GetUserConversations(userID uint) ([]models.Conversation, []error) {
	var resultErrs []error
	var conversations []models.Conversation
	err := chr.db.
		Where("user_one_id = ? OR user_two_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		resultErrs = append(resultErrs, err)
		return nil, resultErrs
	}
	return conversations, nil
}

// SaveMessage persists the message and bumps the parent conversation's
// last-message pointer and update time in one transaction.
func (chr *ChatRepository) SaveMessage(message *models.Message) (*models.Message, []error) {
	var resultErrs []error
	transactionErr := chr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", message.ConversationID).
			Updates(map[string]interface{}{
				"last_message_id": message.ID,
				"updated_at":      time.Now(),
			}).Error
	})
	if transactionErr != nil {
		resultErrs = append(resultErrs, transactionErr)
		return nil, resultErrs
	}
	return message, nil
}

// GetMessagesBefore returns up to limit messages older than the before
// cursor (exclusive), in ascending chronological order. A zero cursor means
// the latest page.
func (chr *ChatRepository) GetMessagesBefore(conversationID uint, limit int, before uint) ([]models.Message, []error) {
	var resultErrs []error
	var messages []models.Message

	tx := chr.db.Where("conversation_id = ?", conversationID)
	if before > 0 {
		tx = tx.Where("id < ?", before)
	}
	if err := tx.Order("id DESC").Limit(limit).Find(&messages).Error; err != nil {
		resultErrs = append(resultErrs, err)
		return nil, resultErrs
	}

	// Query runs newest-first for the limit; callers get chronological order.
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID < messages[j].ID })
	return messages, nil
}

func (chr *ChatRepository) GetMessageByID(messageID uint) (*models.Message, error) {
	var message models.Message
	result := chr.db.First(&message, messageID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrMessageNotFound
		}
		return nil, result.Error
	}
	return &message, nil
}

// MarkMessageRead adds the reader to the message's read set. Re-reading is a
// no-op thanks to the unique (message, reader) index.
func (chr *ChatRepository) MarkMessageRead(messageID, readerID uint) (*models.Message, []error) {
	var resultErrs []error

	message, err := chr.GetMessageByID(messageID)
	if err != nil {
		resultErrs = append(resultErrs, err)
		return nil, resultErrs
	}

	read := models.MessageRead{MessageID: messageID, UserID: readerID}
	if err := chr.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&read).Error; err != nil {
		resultErrs = append(resultErrs, err)
		return nil, resultErrs
	}
	return message, nil
}

func (chr *ChatRepository) GetMessageReaders(messageID uint) ([]uint, error) {
	var readers []uint
	err := chr.db.Model(&models.MessageRead{}).
		Where("message_id = ?", messageID).
		Order("read_at ASC").
		Pluck("user_id", &readers).Error
	if err != nil {
		return nil, err
	}
	return readers, nil
}

// GetReadersForMessages batch-loads reader sets for a page of messages.
func (chr *ChatRepository) GetReadersForMessages(messageIDs []uint) (map[uint][]uint, error) {
	readers := make(map[uint][]uint, len(messageIDs))
	if len(messageIDs) == 0 {
		return readers, nil
	}
	var rows []models.MessageRead
	if err := chr.db.Where("message_id IN ?", messageIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		readers[row.MessageID] = append(readers[row.MessageID], row.UserID)
	}
	return readers, nil
}
