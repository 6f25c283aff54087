package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
	"github.com/benefik-labs/benefik-cli/internal/core/ports/driven"
	"github.com/benefik-labs/benefik-cli/internal/core/ports/driving"
	"github.com/benefik-labs/benefik-cli/internal/logger"
)

// genericFailureMessage is what end users see when a collaborator
// fails. The underlying error goes to the logs, never to the client.
const genericFailureMessage = "Sorry, something went wrong while handling your request. Please try again."

// IndexStatus reports the currently loaded index, if any.
// Satisfied by the retrieval service.
type IndexStatus interface {
	Index() driven.KnowledgeIndex
}

// Handler holds the dependencies for HTTP handlers.
type Handler struct {
	chat   driving.ChatService
	status IndexStatus
}

// NewHandler creates a new Handler.
func NewHandler(chat driving.ChatService, status IndexStatus) *Handler {
	return &Handler{chat: chat, status: status}
}

// chatRequest is the POST /chat request body. SessionID may be empty
// on the first turn; the response carries the assigned ID.
type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// chatResponse is the POST /chat response body.
type chatResponse struct {
	SessionID string         `json:"session_id"`
	Reply     string         `json:"reply"`
	Phase     string         `json:"phase"`
	Profile   domain.Profile `json:"profile"`
	Sources   []chatSource   `json:"sources,omitempty"`
}

// chatSource cites a chunk that grounded the answer.
type chatSource struct {
	Source  string  `json:"source"`
	Section string  `json:"section,omitempty"`
	Score   float64 `json:"score"`
}

// errorResponse is the body for all error statuses.
type errorResponse struct {
	Error string `json:"error"`
}

// healthResponse is the GET /health response body.
type healthResponse struct {
	Status      string `json:"status"`
	IndexLoaded bool   `json:"index_loaded"`
	Chunks      int    `json:"chunks,omitempty"`
	Dimensions  int    `json:"dimensions,omitempty"`
}

// HandleChat handles POST /chat requests.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	reply, err := h.chat.Handle(r.Context(), req.SessionID, req.Message)
	if err != nil {
		h.sendError(w, err)
		return
	}

	resp := chatResponse{
		SessionID: req.SessionID,
		Reply:     reply.Text,
		Phase:     reply.Phase.String(),
		Profile:   reply.Profile,
	}
	for _, rc := range reply.Retrieved {
		resp.Sources = append(resp.Sources, chatSource{
			Source:  rc.Chunk.Source,
			Section: rc.Chunk.Section,
			Score:   rc.Score,
		})
	}
	sendJSON(w, http.StatusOK, resp)
}

// HandleHealth handles GET /health requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if index := h.status.Index(); index != nil {
		resp.IndexLoaded = true
		resp.Chunks = index.Size()
		resp.Dimensions = index.Dimensions()
	}
	sendJSON(w, http.StatusOK, resp)
}

// sendError maps domain errors to HTTP statuses. Collaborator
// failures are masked behind a generic message.
func (h *Handler) sendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrValidation):
		sendJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrIndexNotLoaded):
		sendJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "knowledge base not ready, run ingestion first"})
	default:
		logger.Warn("Chat turn failed: %v", err)
		sendJSON(w, http.StatusBadGateway, errorResponse{Error: genericFailureMessage})
	}
}

func sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Encode response: %v", err)
	}
}
