package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
	"github.com/benefik-labs/benefik-cli/internal/core/ports/driven"
	"github.com/benefik-labs/benefik-cli/internal/core/ports/driving"
)

// --- Mock implementations ---

type mockChatService struct {
	reply      *driving.ChatReply
	err        error
	gotSession string
	gotMessage string
}

func (m *mockChatService) Handle(_ context.Context, sessionID, message string) (*driving.ChatReply, error) {
	m.gotSession = sessionID
	m.gotMessage = message
	if m.err != nil {
		return nil, m.err
	}
	return m.reply, nil
}

type mockStatus struct {
	index driven.KnowledgeIndex
}

func (m *mockStatus) Index() driven.KnowledgeIndex { return m.index }

type fakeIndex struct{}

func (fakeIndex) Search(context.Context, []float32, int) ([]domain.RetrievedChunk, error) {
	return nil, nil
}
func (fakeIndex) Size() int       { return 42 }
func (fakeIndex) Dimensions() int { return 1536 }

func postChat(t *testing.T, h *Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rec, req)
	return rec
}

func TestHandleChat_Success(t *testing.T) {
	chat := &mockChatService{reply: &driving.ChatReply{
		Text:    "What is your last name?",
		Phase:   domain.PhaseIntake,
		Profile: domain.Profile{FirstName: "Dana"},
	}}
	h := NewHandler(chat, &mockStatus{})

	rec := postChat(t, h, chatRequest{SessionID: "s-1", Message: "Dana"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "s-1", resp.SessionID)
	assert.Equal(t, "What is your last name?", resp.Reply)
	assert.Equal(t, "intake", resp.Phase)
	assert.Equal(t, "Dana", resp.Profile.FirstName)
	assert.Equal(t, "Dana", chat.gotMessage)
}

func TestHandleChat_AssignsSessionID(t *testing.T) {
	chat := &mockChatService{reply: &driving.ChatReply{Phase: domain.PhaseIntake}}
	h := NewHandler(chat, &mockStatus{})

	rec := postChat(t, h, chatRequest{Message: "hello"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, resp.SessionID, chat.gotSession)
}

func TestHandleChat_ReportsSources(t *testing.T) {
	chat := &mockChatService{reply: &driving.ChatReply{
		Text:  "Gold members get 80% off.",
		Phase: domain.PhaseQA,
		Retrieved: []domain.RetrievedChunk{
			{Chunk: domain.Chunk{Source: "kb/dentel_services.html", Section: "dentel_services"}, Score: 0.91},
		},
	}}
	h := NewHandler(chat, &mockStatus{})

	rec := postChat(t, h, chatRequest{SessionID: "s-1", Message: "dental?"})

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "kb/dentel_services.html", resp.Sources[0].Source)
	assert.InDelta(t, 0.91, resp.Sources[0].Score, 1e-9)
}

func TestHandleChat_InvalidJSON(t *testing.T) {
	h := NewHandler(&mockChatService{}, &mockStatus{})

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChat_ValidationError(t *testing.T) {
	chat := &mockChatService{err: domain.ErrInvalidInput}
	h := NewHandler(chat, &mockStatus{})

	rec := postChat(t, h, chatRequest{SessionID: "s-1", Message: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChat_IndexNotLoaded(t *testing.T) {
	chat := &mockChatService{err: domain.ErrIndexNotLoaded}
	h := NewHandler(chat, &mockStatus{})

	rec := postChat(t, h, chatRequest{SessionID: "s-1", Message: "q"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleChat_CollaboratorFailureIsMasked(t *testing.T) {
	chat := &mockChatService{err: domain.ErrCompletionService}
	h := NewHandler(chat, &mockStatus{})

	rec := postChat(t, h, chatRequest{SessionID: "s-1", Message: "q"})

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, genericFailureMessage, resp.Error)
	assert.NotContains(t, resp.Error, "completion", "internal detail must not leak")
}

func TestHandleHealth_NoIndex(t *testing.T) {
	h := NewHandler(&mockChatService{}, &mockStatus{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.IndexLoaded)
}

func TestHandleHealth_WithIndex(t *testing.T) {
	h := NewHandler(&mockChatService{}, &mockStatus{index: fakeIndex{}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rec, req)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IndexLoaded)
	assert.Equal(t, 42, resp.Chunks)
	assert.Equal(t, 1536, resp.Dimensions)
}
