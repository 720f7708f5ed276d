package models

import "time"

// Chat roles
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// Chat reply modes
const (
	ChatModeText  = "text"
	ChatModeImage = "image"
)

// ChatWindowSize is the number of past messages sent as conversation context
const ChatWindowSize = 5

// ChatMessage is a single chat turn
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SendChatRequest is a user chat message
type SendChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
	// CourseID optionally scopes the conversation to a course
	CourseID string `json:"courseId,omitempty" validate:"omitempty,uuid"`
}

// ChatReply is the assistant answer to a chat message
type ChatReply struct {
	Mode    string      `json:"mode"`
	Message ChatMessage `json:"message"`
}
