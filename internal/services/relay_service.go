package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"chatline/internal/enums"
	"chatline/internal/hub"
	redisModels "chatline/internal/models/redis"

	"github.com/redis/go-redis/v9"
)

// RelayService forwards persisted chat events to live connections: the
// conversation room gets the event itself, and every connected client gets a
// namespaced conversation update for unread badges. Delivery is best-effort
// by contract: failures are logged and swallowed, never surfaced to the HTTP
// caller, and message durability does not depend on it.
//
// With a redis client the event round-trips through pub/sub so every node
// fans out to its own hub; without one it is delivered straight to the local
// hub.
type RelayService struct {
	ctx   context.Context
	hub   *hub.Hub
	redis *redis.Client
}

func NewRelayService(ctx context.Context, socketHub *hub.Hub, redisClient *redis.Client) *RelayService {
	return &RelayService{
		ctx:   ctx,
		hub:   socketHub,
		redis: redisClient,
	}
}

func (rs *RelayService) Hub() *hub.Hub {
	return rs.hub
}

// Start launches the pub/sub subscriber. No-op in single-node mode.
func (rs *RelayService) Start() {
	if rs.redis == nil {
		return
	}
	go rs.handleRedisMessages()
}

func (rs *RelayService) BroadcastMessage(conversationID uint, message any) {
	rs.publish(redisModels.RedisPublishedMessage{
		Event:          enums.SOCKET_EVENT_NEW_MESSAGE,
		ConversationID: conversationID,
		Payload:        message,
	})
}

func (rs *RelayService) BroadcastRead(conversationID uint, receipt any) {
	rs.publish(redisModels.RedisPublishedMessage{
		Event:          enums.SOCKET_EVENT_READ_MESSAGE,
		ConversationID: conversationID,
		Payload:        receipt,
	})
}

// BroadcastTyping relays a typing indicator to the other members of the
// room. Never persisted, never sent outside the room.
func (rs *RelayService) BroadcastTyping(event string, conversationID, senderID uint, payload any) {
	rs.publish(redisModels.RedisPublishedMessage{
		Event:          event,
		ConversationID: conversationID,
		SenderID:       senderID,
		Payload:        payload,
	})
}

func (rs *RelayService) publish(event redisModels.RedisPublishedMessage) {
	if rs.redis == nil {
		rs.deliver(event)
		return
	}
	jsonEvent, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshalling relay event: %v", err)
		return
	}
	if err := rs.redis.Publish(rs.ctx, redisModels.REDIS_CHANNEL_CHAT, jsonEvent).Err(); err != nil {
		log.Printf("Error publishing relay event, delivering locally: %v", err)
		rs.deliver(event)
	}
}

func (rs *RelayService) handleRedisMessages() {
	pubsub := rs.redis.Subscribe(rs.ctx, redisModels.REDIS_CHANNEL_CHAT)
	ch := pubsub.Channel()
	for msg := range ch {
		var event redisModels.RedisPublishedMessage
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("Error unmarshalling relay event: %v", err)
			continue
		}
		rs.deliver(event)
	}
}

// deliver fans the event out to the local hub.
func (rs *RelayService) deliver(event redisModels.RedisPublishedMessage) {
	switch event.Event {
	case enums.SOCKET_EVENT_NEW_MESSAGE:
		rs.hub.EmitToRoom(event.ConversationID, 0, event)
		rs.hub.EmitGlobal(redisModels.RedisPublishedMessage{
			Event:          fmt.Sprintf("conversation:%d:message:update", event.ConversationID),
			ConversationID: event.ConversationID,
			Payload:        event.Payload,
		})
	case enums.SOCKET_EVENT_READ_MESSAGE:
		rs.hub.EmitToRoom(event.ConversationID, 0, event)
		rs.hub.EmitGlobal(redisModels.RedisPublishedMessage{
			Event:          fmt.Sprintf("conversation:%d:message:read", event.ConversationID),
			ConversationID: event.ConversationID,
			Payload:        event.Payload,
		})
	case enums.SOCKET_EVENT_TYPING_START, enums.SOCKET_EVENT_TYPING_STOP:
		rs.hub.EmitToRoom(event.ConversationID, event.SenderID, event)
	default:
		log.Printf("Unknown relay event: %v", event.Event)
	}
}
