package dto

// StartConversationRequest payload.
type StartConversationRequest struct {
	ProfessionalID string `json:"professionalId"`
}

// SendMessageRequest payload, shared by conversations and support chats.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// OpenSupportChatRequest payload.
type OpenSupportChatRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}
