package models

import "time"

type MessageResponse struct {
	ID             uint          `json:"id"`
	ConversationID uint          `json:"conversation_id"`
	Sender         *UserResponse `json:"sender"`
	Content        string        `json:"content"`
	MediaURL       *string       `json:"media_url"`
	MediaType      *string       `json:"media_type"`
	ReadBy         []uint        `json:"read_by"`
	CreatedAt      time.Time     `json:"created_at"`
}
