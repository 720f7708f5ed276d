package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/go-redis/redis/v8"
)

const chatHistoryKeyPrefix = "chat:history:"

// chatHistoryRepository keeps a bounded per-user chat history in a Redis list
type chatHistoryRepository struct {
	redis      *redis.Client
	maxEntries int
	ttl        time.Duration
}

// NewChatHistoryRepository creates a chat history repository keeping at most maxEntries messages per user
func NewChatHistoryRepository(rdb *redis.Client, maxEntries int, ttl time.Duration) *chatHistoryRepository {
	if maxEntries < 1 {
		maxEntries = 50
	}
	return &chatHistoryRepository{
		redis:      rdb,
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

func chatHistoryKey(userID string) string {
	return chatHistoryKeyPrefix + userID
}

// Append adds messages to the end of the user's history and trims it to the configured size
func (r *chatHistoryRepository) Append(ctx context.Context, userID string, messages ...models.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}

	values := make([]any, 0, len(messages))
	for _, m := range messages {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to encode chat message: %w", err)
		}
		values = append(values, data)
	}

	key := chatHistoryKey(userID)
	_, err := r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.LTrim(ctx, key, int64(-r.maxEntries), -1)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append chat history: %w", err)
	}

	return nil
}

// Window returns the last n messages of the user's history, oldest first
func (r *chatHistoryRepository) Window(ctx context.Context, userID string, n int) ([]models.ChatMessage, error) {
	if n < 1 {
		return []models.ChatMessage{}, nil
	}

	raw, err := r.redis.LRange(ctx, chatHistoryKey(userID), int64(-n), -1).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}

	return decodeChatMessages(raw)
}

// Clear removes the user's history
func (r *chatHistoryRepository) Clear(ctx context.Context, userID string) error {
	if err := r.redis.Del(ctx, chatHistoryKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear chat history: %w", err)
	}
	return nil
}

func decodeChatMessages(raw []string) ([]models.ChatMessage, error) {
	messages := make([]models.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var m models.ChatMessage
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("failed to decode chat message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}
