package socket

import (
	"encoding/json"
)

// SocketEvent is the envelope for every frame exchanged over a chat socket.
type SocketEvent struct {
	Event          string          `json:"event"`
	ConversationID uint            `json:"conversation_id"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

type JoinConversationPayload struct {
	ConversationID uint `json:"conversation_id"`
}

type TypingPayload struct {
	ConversationID uint   `json:"conversation_id"`
	UserID         uint   `json:"user_id"`
	UserName       string `json:"user_name"`
}
