package models

import (
	"gorm.io/gorm"
)

// Message belongs to exactly one conversation. A message carries text content
// and/or a media reference; both absent is rejected before persistence.
type Message struct {
	gorm.Model
	ConversationID uint          `gorm:"index;not null" json:"conversation_id"`
	Conversation   Conversation  `json:"-"`
	SenderID       uint          `gorm:"not null" json:"sender_id"`
	Content        string        `json:"content"`
	MediaURL       *string       `json:"media_url"`
	MediaType      *string       `json:"media_type"`
	ReadBy         []MessageRead `gorm:"foreignKey:MessageID" json:"-"`
}

func (message *Message) ToMessageResponse(sender *UserResponse, readBy []uint) *MessageResponse {
	if readBy == nil {
		readBy = []uint{}
	}
	return &MessageResponse{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		Sender:         sender,
		Content:        message.Content,
		MediaURL:       message.MediaURL,
		MediaType:      message.MediaType,
		ReadBy:         readBy,
		CreatedAt:      message.CreatedAt,
	}
}
