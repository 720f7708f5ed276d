package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/enrichment"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/platform/textgen"
	"go.uber.org/zap"
)

// ChatHistoryRepository is the interface that wraps methods for per-user chat history storage
type ChatHistoryRepository interface {
	// Method Append adds messages to the end of the user's history.
	Append(ctx context.Context, userID string, messages ...models.ChatMessage) error
	// Method Window returns the last n messages, oldest first.
	Window(ctx context.Context, userID string, n int) ([]models.ChatMessage, error)
	Clear(ctx context.Context, userID string) error
}

// Chatter answers a conversation
type Chatter interface {
	Chat(ctx context.Context, system string, history []textgen.Message, user string) (string, error)
}

const (
	chatTextPrompt = "You are a friendly tutor on an online learning platform. Answer questions about programming, " +
		"technology and the platform's courses clearly and concisely. Use short paragraphs and examples where helpful."
	chatImagePrompt = "You are a tutor on an online learning platform. The learner asked for a visual. Describe in words " +
		"the diagram, graph or picture that would best explain the topic: its parts, labels and how they relate. " +
		"Keep it under 200 words."
	chatApology = "Sorry, I can't answer right now. Please try again in a moment."

	chatHistoryLimit = 50
)

// imageKeywords switch a message to image-description mode
var imageKeywords = []string{"diagram", "image", "graph", "picture"}

// chatService implements ChatService
type chatService struct {
	historyRepo ChatHistoryRepository
	chatter     Chatter
	courseRepo  CourseReader
	logger      *zap.Logger
	now         func() time.Time
}

// NewChatService creates a new chat service. chatter may be nil, in which case every
// message is answered with an apology.
func NewChatService(historyRepo ChatHistoryRepository, chatter Chatter, courseRepo CourseReader, logger *zap.Logger) *chatService {
	return &chatService{
		historyRepo: historyRepo,
		chatter:     chatter,
		courseRepo:  courseRepo,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Send answers a user message using the last models.ChatWindowSize messages as context.
// Collaborator failures never surface as errors: the reply is an apology instead.
func (s *chatService) Send(ctx context.Context, userID string, req *models.SendChatRequest) (*models.ChatReply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", models.ErrInvalidInput)
	}

	window, err := s.historyRepo.Window(ctx, userID, models.ChatWindowSize)
	if err != nil {
		s.logger.Warn("failed to load chat history", zap.String("user_id", userID), zap.Error(err))
		window = nil
	}

	mode := detectChatMode(message)
	system := chatTextPrompt
	if mode == models.ChatModeImage {
		system = chatImagePrompt
	}
	if req.CourseID != "" && s.courseRepo != nil {
		if course, err := s.courseRepo.GetByID(ctx, req.CourseID); err == nil {
			system += fmt.Sprintf(" The learner is studying the course \"%s\" (%s).", course.Title, course.Category)
		}
	}

	answer := chatApology
	if s.chatter != nil {
		text, err := s.chatter.Chat(ctx, system, toTextgenHistory(window), message)
		switch {
		case err != nil:
			s.logger.Warn("chat completion failed", zap.String("user_id", userID), zap.Error(err))
		case strings.TrimSpace(text) == "":
			s.logger.Warn("chat completion returned no text", zap.String("user_id", userID))
		default:
			answer = strings.TrimSpace(text)
		}
	}

	now := s.now()
	reply := models.ChatMessage{
		Role:      models.ChatRoleAssistant,
		Content:   answer,
		Timestamp: now,
	}
	if mode == models.ChatModeImage {
		reply.ImageURL = enrichment.StockImage(message)
	}

	userMessage := models.ChatMessage{Role: models.ChatRoleUser, Content: message, Timestamp: now}
	if err := s.historyRepo.Append(ctx, userID, userMessage, reply); err != nil {
		s.logger.Warn("failed to save chat history", zap.String("user_id", userID), zap.Error(err))
	}

	return &models.ChatReply{Mode: mode, Message: reply}, nil
}

// History returns the stored conversation of a user, oldest first
func (s *chatService) History(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	return s.historyRepo.Window(ctx, userID, chatHistoryLimit)
}

// Clear removes the stored conversation of a user
func (s *chatService) Clear(ctx context.Context, userID string) error {
	return s.historyRepo.Clear(ctx, userID)
}

// detectChatMode picks image mode when the message mentions any of imageKeywords
func detectChatMode(message string) string {
	lower := strings.ToLower(message)
	for _, kw := range imageKeywords {
		if strings.Contains(lower, kw) {
			return models.ChatModeImage
		}
	}
	return models.ChatModeText
}

func toTextgenHistory(messages []models.ChatMessage) []textgen.Message {
	history := make([]textgen.Message, 0, len(messages))
	for _, m := range messages {
		role := textgen.RoleUser
		if m.Role == models.ChatRoleAssistant {
			role = textgen.RoleAssistant
		}
		history = append(history, textgen.Message{Role: role, Content: m.Content})
	}
	return history
}
