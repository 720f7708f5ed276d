package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChatHistoryRepository(t *testing.T) {
	repo := NewChatHistoryRepository(nil, 0, time.Hour)

	assert.Equal(t, 50, repo.maxEntries)
	assert.Equal(t, time.Hour, repo.ttl)
}

func TestChatHistoryKey(t *testing.T) {
	assert.Equal(t, "chat:history:u1", chatHistoryKey("u1"))
}

func TestDecodeChatMessages(t *testing.T) {
	messages, err := decodeChatMessages([]string{
		`{"role":"user","content":"hi","timestamp":"2025-01-01T00:00:00Z"}`,
		`{"role":"assistant","content":"hello","imageUrl":"https://img","timestamp":"2025-01-01T00:00:01Z"}`,
	})
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "assistant", messages[1].Role)
	assert.Equal(t, "https://img", messages[1].ImageURL)

	_, err = decodeChatMessages([]string{"{"})
	assert.Error(t, err)
}
