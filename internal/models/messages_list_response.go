package models

type MessageListResponse struct {
	Messages []*MessageResponse `json:"messages"`
	Limit    int                `json:"limit"`
	Before   uint               `json:"before,omitempty"`
}
