package handlers

import (
	"context"
	"net/http"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ChatService is the interface that wraps methods for the learning assistant.
type ChatService interface {
	// Method Send answers a user message using the last few messages as context.
	//
	// Image requests are answered with a stock image. Generator failures produce an apology reply.
	Send(ctx context.Context, userID string, req *models.SendChatRequest) (*models.ChatReply, error)
	History(ctx context.Context, userID string) ([]models.ChatMessage, error)
	Clear(ctx context.Context, userID string) error
}

// ChatHandler handles assistant chat HTTP requests
type ChatHandler struct {
	BaseHandler
	chatService ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		BaseHandler: BaseHandler{Logger: logger},
		chatService: chatService,
	}
}

// RegisterRoutes registers chat routes
func (h *ChatHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/chat", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Send)
		r.Get("/history", h.History)
		r.Delete("/history", h.Clear)
	})
}

// Send handles POST /chat
// @Summary Ask the assistant
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SendChatRequest true "Message"
// @Success 200 {object} models.ChatReply "Reply"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Router /api/v1/chat [post]
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var req models.SendChatRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	reply, err := h.chatService.Send(r.Context(), userID, &req)
	if err != nil {
		h.RespondServiceError(w, err, "send message")
		return
	}

	h.RespondJSON(w, http.StatusOK, reply)
}

// History handles GET /chat/history
// @Summary Chat history
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ChatMessage "Messages, oldest first"
// @Router /api/v1/chat/history [get]
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	messages, err := h.chatService.History(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, err, "get chat history")
		return
	}

	h.RespondJSON(w, http.StatusOK, messages)
}

// Clear handles DELETE /chat/history
// @Summary Clear chat history
// @Tags chat
// @Security BearerAuth
// @Success 204 "Cleared"
// @Router /api/v1/chat/history [delete]
func (h *ChatHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	if err := h.chatService.Clear(r.Context(), userID); err != nil {
		h.RespondServiceError(w, err, "clear chat history")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
