package models

import (
	"gorm.io/gorm"
)

// Conversation is a one-to-one chat between exactly two users. The pair is
// stored normalized (UserOneID < UserTwoID) under a composite unique index so
// concurrent find-or-create calls cannot produce duplicates.
type Conversation struct {
	gorm.Model
	UserOneID     uint     `gorm:"uniqueIndex:idx_conversation_pair;not null" json:"user_one_id"`
	UserTwoID     uint     `gorm:"uniqueIndex:idx_conversation_pair;not null" json:"user_two_id"`
	LastMessageID *uint    `json:"last_message_id"`
	LastMessage   *Message `gorm:"foreignKey:LastMessageID" json:"-"`
}

// NormalizePair orders two participant ids into the canonical stored order.
func NormalizePair(a, b uint) (uint, uint) {
	if a < b {
		return a, b
	}
	return b, a
}

func (conversation *Conversation) HasParticipant(userID uint) bool {
	return conversation.UserOneID == userID || conversation.UserTwoID == userID
}

func (conversation *Conversation) ToConversationResponse(participants []*UserResponse, lastMessage *MessageResponse) ConversationResponse {
	return ConversationResponse{
		ID:           conversation.ID,
		Participants: participants,
		LastMessage:  lastMessage,
		UpdatedAt:    conversation.UpdatedAt,
	}
}
