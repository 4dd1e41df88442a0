package models

import "time"

// MessageRead is one entry of a message's read-receipt set. The composite
// unique index makes double-reads no-ops, so the set only ever grows.
type MessageRead struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	MessageID uint      `gorm:"uniqueIndex:idx_message_reader;not null" json:"message_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_message_reader;not null" json:"user_id"`
	ReadAt    time.Time `gorm:"autoCreateTime" json:"read_at"`
}
