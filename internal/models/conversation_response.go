package models

import "time"

type ConversationResponse struct {
	ID           uint             `json:"id"`
	Participants []*UserResponse  `json:"participants"`
	LastMessage  *MessageResponse `json:"last_message"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
