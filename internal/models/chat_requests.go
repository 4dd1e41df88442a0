package models

type CreateConversationRequestBody struct {
	UserID uint `json:"userId"`
}

type SendMessageRequestBody struct {
	ConversationID uint    `json:"conversationId"`
	Content        string  `json:"content"`
	MediaURL       *string `json:"mediaURL"`
	MediaType      *string `json:"mediaType"`
}

type AddContactRequestBody struct {
	UserID uint `json:"userId"`
}
