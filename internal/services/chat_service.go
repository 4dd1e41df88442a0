package services

import (
	"strings"

	"chatline/internal/errs"
	"chatline/internal/models"
	"chatline/internal/repositories"
)

const DefaultMessagePageSize = 50

type ChatService struct {
	chatRepo *repositories.ChatRepository
	userRepo *repositories.UserRepository
	relay    *RelayService
}

func NewChatService(
	chatRepo *repositories.ChatRepository,
	userRepo *repositories.UserRepository,
	relay *RelayService,
) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
		relay:    relay,
	}
}

// FindOrCreateConversation returns the caller's one-to-one conversation with
// the other user, creating it on first contact. The returned flag reports
// whether a new conversation was created.
func (cs *ChatService) FindOrCreateConversation(selfID, otherID uint) (*models.ConversationResponse, bool, []error) {
	var serviceErrs []error

	if otherID == 0 {
		serviceErrs = append(serviceErrs, errs.ErrInvalidParams)
		return nil, false, serviceErrs
	}
	if selfID == otherID {
		serviceErrs = append(serviceErrs, errs.ErrSelfConversation)
		return nil, false, serviceErrs
	}
	if _, err := cs.userRepo.GetUserByID(otherID); err != nil {
		serviceErrs = append(serviceErrs, err)
		return nil, false, serviceErrs
	}

	conversation, created, repoErrs := cs.chatRepo.FindOrCreateConversation(selfID, otherID)
	if len(repoErrs) > 0 {
		return nil, false, repoErrs
	}

	response, err := cs.resolveConversation(conversation)
	if err != nil {
		serviceErrs = append(serviceErrs, err)
		return nil, false, serviceErrs
	}
	return response, created, nil
}

func (cs *ChatService) GetUserConversations(userID uint) (*models.ConversationListResponse, []error) {
	var serviceErrs []error

	conversations, repoErrs := cs.chatRepo.GetUserConversations(userID)
	if len(repoErrs) > 0 {
		return nil, repoErrs
	}

	responses := []models.ConversationResponse{}
	for i := range conversations {
		response, err := cs.resolveConversation(&conversations[i])
		if err != nil {
			serviceErrs = append(serviceErrs, err)
			return nil, serviceErrs
		}
		responses = append(responses, *response)
	}

	return &models.ConversationListResponse{Conversations: responses}, nil
}

// SendMessage persists the message, then hands it to the relay. Relay
// failures never affect the returned result.
func (cs *ChatService) SendMessage(senderID uint, body *models.SendMessageRequestBody) (*models.MessageResponse, []error) {
	var serviceErrs []error

	if strings.TrimSpace(body.Content) == "" && (body.MediaURL == nil || *body.MediaURL == "") {
		serviceErrs = append(serviceErrs, errs.ErrEmptyMessage)
		return nil, serviceErrs
	}

	conversation, err := cs.chatRepo.GetConversationByID(body.ConversationID)
	if err != nil {
		serviceErrs = append(serviceErrs, err)
		return nil, serviceErrs
	}
	if !conversation.HasParticipant(senderID) {
		serviceErrs = append(serviceErrs, errs.ErrNotConversationMember)
		return nil, serviceErrs
	}

	message := &models.Message{
		ConversationID: body.ConversationID,
		SenderID:       senderID,
		Content:        body.Content,
		MediaURL:       body.MediaURL,
		MediaType:      body.MediaType,
	}
	saved, repoErrs := cs.chatRepo.SaveMessage(message)
	if len(repoErrs) > 0 {
		return nil, repoErrs
	}

	response, err := cs.resolveMessage(saved)
	if err != nil {
		serviceErrs = append(serviceErrs, err)
		return nil, serviceErrs
	}

	cs.relay.BroadcastMessage(saved.ConversationID, response)

	return response, nil
}

// GetMessages returns a chronological page of messages older than the before
// cursor. The caller must be a participant.
func (cs *ChatService) GetMessages(userID, conversationID uint, limit int, before uint) (*models.MessageListResponse, []error) {
	var serviceErrs []error

	conversation, err := cs.chatRepo.GetConversationByID(conversationID)
	if err != nil {
		serviceErrs = append(serviceErrs, err)
		return nil, serviceErrs
	}
	if !conversation.HasParticipant(userID) {
		serviceErrs = append(serviceErrs, errs.ErrNotConversationMember)
		return nil, serviceErrs
	}

	if limit < 1 || limit > 100 {
		limit = DefaultMessagePageSize
	}

	messages, repoErrs := cs.chatRepo.GetMessagesBefore(conversationID, limit, before)
	if len(repoErrs) > 0 {
		return nil, repoErrs
	}

	responses, err := cs.resolveMessages(messages)
	if err != nil {
		serviceErrs = append(serviceErrs, err)
		return nil, serviceErrs
	}

	return &models.MessageListResponse{
		Messages: responses,
		Limit:    limit,
		Before:   before,
	}, nil
}

// MarkRead adds the reader to the message's read set and relays the receipt.
// Idempotent: re-reading returns the same reader set.
func (cs *ChatService) MarkRead(messageID, readerID uint) (*models.MessageResponse, []error) {
	var serviceErrs []error

	message, repoErrs := cs.chatRepo.MarkMessageRead(messageID, readerID)
	if len(repoErrs) > 0 {
		return nil, repoErrs
	}

	response, err := cs.resolveMessage(message)
	if err != nil {
		serviceErrs = append(serviceErrs, err)
		return nil, serviceErrs
	}

	cs.relay.BroadcastRead(message.ConversationID, map[string]uint{
		"messageId": messageID,
		"userId":    readerID,
	})

	return response, nil
}

func (cs *ChatService) CheckConversationExists(conversationID uint) bool {
	_, err := cs.chatRepo.GetConversationByID(conversationID)
	return err == nil
}

func (cs *ChatService) CheckUserInConversation(userID, conversationID uint) bool {
	conversation, err := cs.chatRepo.GetConversationByID(conversationID)
	if err != nil {
		return false
	}
	return conversation.HasParticipant(userID)
}

// resolveConversation builds the response with participants and last message
// looked up by id, replacing the original's dynamic populate joins.
func (cs *ChatService) resolveConversation(conversation *models.Conversation) (*models.ConversationResponse, error) {
	users, err := cs.userRepo.GetUsersByIDs([]uint{conversation.UserOneID, conversation.UserTwoID})
	if err != nil {
		return nil, err
	}

	participants := []*models.UserResponse{}
	for _, id := range []uint{conversation.UserOneID, conversation.UserTwoID} {
		if user, ok := users[id]; ok {
			participants = append(participants, user.ToUserResponse())
		}
	}

	var lastMessage *models.MessageResponse
	if conversation.LastMessageID != nil {
		message, err := cs.chatRepo.GetMessageByID(*conversation.LastMessageID)
		if err == nil {
			lastMessage, err = cs.resolveMessage(message)
			if err != nil {
				return nil, err
			}
		}
	}

	response := conversation.ToConversationResponse(participants, lastMessage)
	return &response, nil
}

func (cs *ChatService) resolveMessage(message *models.Message) (*models.MessageResponse, error) {
	sender, err := cs.userRepo.GetUserByID(message.SenderID)
	if err != nil {
		return nil, err
	}
	readers, err := cs.chatRepo.GetMessageReaders(message.ID)
	if err != nil {
		return nil, err
	}
	return message.ToMessageResponse(sender.ToUserResponse(), readers), nil
}

func (cs *ChatService) resolveMessages(messages []models.Message) ([]*models.MessageResponse, error) {
	responses := []*models.MessageResponse{}
	if len(messages) == 0 {
		return responses, nil
	}

	senderIDs := make([]uint, 0, len(messages))
	messageIDs := make([]uint, 0, len(messages))
	for i := range messages {
		senderIDs = append(senderIDs, messages[i].SenderID)
		messageIDs = append(messageIDs, messages[i].ID)
	}

	senders, err := cs.userRepo.GetUsersByIDs(senderIDs)
	if err != nil {
		return nil, err
	}
	readers, err := cs.chatRepo.GetReadersForMessages(messageIDs)
	if err != nil {
		return nil, err
	}

	for i := range messages {
		var sender *models.UserResponse
		if user, ok := senders[messages[i].SenderID]; ok {
			sender = user.ToUserResponse()
		}
		responses = append(responses, messages[i].ToMessageResponse(sender, readers[messages[i].ID]))
	}
	return responses, nil
}
