package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cistcor/cistbot/backend/internal/service/ai"
	chatService "github.com/cistcor/cistbot/backend/internal/service/chat"
	"github.com/cistcor/cistbot/backend/pkg/utils"
)

// maxBodyBytes caps the request body well above the message-length limit
// so oversized payloads fail cheaply.
const maxBodyBytes = 2 << 20

// Handler exposes the chat service over HTTP.
type Handler struct {
	chatSvc *chatService.Service
}

// New creates the chat handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes mounts the chat endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var payload struct {
		Message string `json:"message"`
		Model   string `json:"model"`
		UserID  string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Mensaje inválido o demasiado largo")
		return
	}

	reply, err := h.chatSvc.Handle(r.Context(), payload.UserID, payload.Message, payload.Model)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// respondServiceError converts the service error taxonomy into JSON
// responses. None of these crash the process; they are all reported to
// the caller, who may resubmit.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *chatService.ValidationError
	if errors.As(err, &validationErr) {
		utils.RespondError(w, http.StatusBadRequest, validationErr.Reason)
		return
	}

	if errors.Is(err, ai.ErrTimeout) {
		utils.RespondError(w, http.StatusGatewayTimeout, "Tiempo de espera agotado")
		return
	}

	var upstreamErr *ai.UpstreamError
	if errors.As(err, &upstreamErr) {
		log.Printf("[chat] upstream error status=%d", upstreamErr.Status)
		utils.RespondJSON(w, upstreamErr.Status, map[string]string{
			"error":   "Error en AIML API",
			"details": upstreamErr.Body,
		})
		return
	}

	log.Printf("[chat] request failed: %v", err)
	utils.RespondError(w, http.StatusInternalServerError, "Error interno del servidor")
}
