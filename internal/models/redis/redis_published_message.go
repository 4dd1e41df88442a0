package redis

const REDIS_CHANNEL_CHAT = "chat:events"

// RedisPublishedMessage is the cross-node fan-out envelope. SenderID lets the
// subscriber exclude the sender's own connections for typing events.
type RedisPublishedMessage struct {
	Event          string `json:"event"`
	ConversationID uint   `json:"conversation_id"`
	SenderID       uint   `json:"sender_id,omitempty"`
	Payload        any    `json:"payload"`
}
