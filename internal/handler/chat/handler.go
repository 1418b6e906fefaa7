package chat

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Puspa222/Hack4SafeFood/internal/service/conversation"
	"github.com/Puspa222/Hack4SafeFood/internal/service/timeline"
	"github.com/Puspa222/Hack4SafeFood/pkg/utils"
)

// Handler exposes the conversation timeline over HTTP.
type Handler struct {
	timeline *timeline.Service
	manager  *conversation.Manager
}

// New creates the chat handler.
func New(timelineSvc *timeline.Service, manager *conversation.Manager) *Handler {
	return &Handler{
		timeline: timelineSvc,
		manager:  manager,
	}
}

// RegisterRoutes registers chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/messages", h.handleListMessages)
	r.Post("/messages", h.handleSendMessage)
	r.Post("/session/reset", h.handleResetSession)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	if err := h.timeline.Restore(r.Context()); err != nil {
		utils.RespondError(w, http.StatusBadGateway, "failed to load conversation history")
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.timeline.Messages())
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text := strings.TrimSpace(payload.Message)
	if text == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	exchange := h.timeline.Send(r.Context(), text)
	utils.RespondJSON(w, http.StatusOK, exchange)
}

func (h *Handler) handleResetSession(w http.ResponseWriter, r *http.Request) {
	h.manager.ResetSession()
	h.timeline.Clear()
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
