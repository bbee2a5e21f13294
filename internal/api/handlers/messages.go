package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"trustguard/internal/domain/models"
	"trustguard/internal/domain/services"
	"trustguard/internal/infrastructure/database/repository"
	"trustguard/pkg/logger"
)

const (
	minMessageLen = 10
	maxMessageLen = 5000
)

// MessagesHandler handles message analysis and history endpoints
type MessagesHandler struct {
	pipeline *services.Pipeline
	messages *repository.MessageRepository
	logger   *logger.Logger
}

// NewMessagesHandler creates a new MessagesHandler
func NewMessagesHandler(p *services.Pipeline, repo *repository.MessageRepository, log *logger.Logger) *MessagesHandler {
	return &MessagesHandler{
		pipeline: p,
		messages: repo,
		logger:   log.WithComponent("messages"),
	}
}

// Check handles POST /api/v1/check/message
func (h *MessagesHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req models.CheckMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if n := utf8.RuneCountInString(req.Message); n < minMessageLen || n > maxMessageLen {
		respondError(w, http.StatusBadRequest, "message must be between 10 and 5000 characters")
		return
	}

	resp := h.pipeline.Check(r.Context(), req.Message, req.UserID, requestFingerprint(r))
	respondJSON(w, http.StatusOK, resp)
}

// History handles GET /api/v1/history. Authenticated users pass user_id;
// anonymous callers are matched by request fingerprint.
func (h *MessagesHandler) History(w http.ResponseWriter, r *http.Request) {
	filter := repository.HistoryFilter{Fingerprint: requestFingerprint(r)}
	filter.Limit, filter.Offset = pagination(r)

	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		filter.UserID = &id
	}

	if raw := r.URL.Query().Get("risk_level"); raw != "" {
		level := models.RiskLevel(raw)
		switch level {
		case models.RiskLevelLow, models.RiskLevelMedium, models.RiskLevelHigh:
			filter.RiskLevel = &level
		default:
			respondError(w, http.StatusBadRequest, "invalid risk_level")
			return
		}
	}

	messages, err := h.messages.ListHistory(r.Context(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list message history")
		respondServiceError(w, err)
		return
	}
	if messages == nil {
		messages = []*models.Message{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":   messages,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// Feedback handles POST /api/v1/messages/{id}/feedback
func (h *MessagesHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid message id")
		return
	}

	var req struct {
		Feedback string `json:"feedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Feedback == "" {
		respondError(w, http.StatusBadRequest, "feedback is required")
		return
	}

	if err := h.messages.UpdateFeedback(r.Context(), id, req.Feedback); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// requestFingerprint derives a stable anonymous identity from the client
// address and user agent. RealIP middleware has already resolved proxies.
func requestFingerprint(r *http.Request) string {
	sum := sha256.Sum256([]byte(r.RemoteAddr + "|" + r.UserAgent()))
	return hex.EncodeToString(sum[:])
}
