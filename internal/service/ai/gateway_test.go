package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/cistcor/cistbot/backend/internal/config"
	"github.com/cistcor/cistbot/backend/internal/model/chat"
)

type mockClient struct {
	lastRequest openai.ChatCompletionRequest
	response    openai.ChatCompletionResponse
	err         error
	delay       time.Duration
}

func (m *mockClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.lastRequest = req
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return openai.ChatCompletionResponse{}, ctx.Err()
		case <-time.After(m.delay):
		}
	}
	if m.err != nil {
		return openai.ChatCompletionResponse{}, m.err
	}
	return m.response, nil
}

func testAIConfig(timeout time.Duration) config.AIConfig {
	return config.AIConfig{
		Model:         "gemma-3",
		AllowedModels: []string{"gemma-3", "mistral-7b"},
		Timeout:       timeout,
	}
}

func completionResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: chat.RoleAssistant, Content: content}},
		},
	}
}

func TestCompleteReturnsReply(t *testing.T) {
	client := &mockClient{response: completionResponse("¡Hola! 😊")}
	gw := NewGateway(client, testAIConfig(time.Second))

	reply, err := gw.Complete(context.Background(), "gemma-3", []chat.Message{
		{Role: chat.RoleUser, Content: "hola"},
	})
	require.NoError(t, err)
	require.Equal(t, "¡Hola! 😊", reply)
	require.Equal(t, "gemma-3", client.lastRequest.Model)
}

func TestCompleteSubstitutesUnknownModel(t *testing.T) {
	client := &mockClient{response: completionResponse("ok")}
	gw := NewGateway(client, testAIConfig(time.Second))

	_, err := gw.Complete(context.Background(), "gpt-99-ultra", nil)
	require.NoError(t, err)
	require.Equal(t, "gemma-3", client.lastRequest.Model)
}

func TestCompleteAllowsListedModel(t *testing.T) {
	client := &mockClient{response: completionResponse("ok")}
	gw := NewGateway(client, testAIConfig(time.Second))

	_, err := gw.Complete(context.Background(), "mistral-7b", nil)
	require.NoError(t, err)
	require.Equal(t, "mistral-7b", client.lastRequest.Model)
}

func TestCompleteEmptyCompletionIsDegradedSuccess(t *testing.T) {
	for _, resp := range []openai.ChatCompletionResponse{
		{},
		completionResponse(""),
	} {
		client := &mockClient{response: resp}
		gw := NewGateway(client, testAIConfig(time.Second))

		reply, err := gw.Complete(context.Background(), "gemma-3", nil)
		require.NoError(t, err)
		require.Equal(t, NoReplyFallback, reply)
	}
}

func TestCompleteDeadlineExceeded(t *testing.T) {
	client := &mockClient{delay: 200 * time.Millisecond, response: completionResponse("tarde")}
	gw := NewGateway(client, testAIConfig(20*time.Millisecond))

	start := time.Now()
	_, err := gw.Complete(context.Background(), "gemma-3", nil)
	require.ErrorIs(t, err, ErrTimeout)
	require.Less(t, time.Since(start), 150*time.Millisecond, "call must be abandoned at the deadline")
}

func TestCompleteMapsAPIError(t *testing.T) {
	client := &mockClient{err: &openai.APIError{HTTPStatusCode: 429, Message: "rate limited"}}
	gw := NewGateway(client, testAIConfig(time.Second))

	_, err := gw.Complete(context.Background(), "gemma-3", nil)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	require.Equal(t, 429, upstreamErr.Status)
	require.Equal(t, "rate limited", upstreamErr.Body)
}

func TestCompleteMapsRequestError(t *testing.T) {
	client := &mockClient{err: &openai.RequestError{HTTPStatusCode: 502, Body: []byte("bad gateway"), Err: errors.New("bad gateway")}}
	gw := NewGateway(client, testAIConfig(time.Second))

	_, err := gw.Complete(context.Background(), "gemma-3", nil)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	require.Equal(t, 502, upstreamErr.Status)
	require.Equal(t, "bad gateway", upstreamErr.Body)
}

func TestCompleteMapsTransportError(t *testing.T) {
	client := &mockClient{err: errors.New("connection refused")}
	gw := NewGateway(client, testAIConfig(time.Second))

	_, err := gw.Complete(context.Background(), "gemma-3", nil)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}

// TestCompleteAgainstHTTPServer exercises the real client wiring against
// the provider wire format.
func TestCompleteAgainstHTTPServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"respuesta simulada"}}]}`))
	}))
	defer srv.Close()

	cfg := testAIConfig(time.Second)
	cfg.BaseURL = srv.URL
	cfg.APIKey = "test-key"

	gw := NewGateway(NewClient(cfg), cfg)
	reply, err := gw.Complete(context.Background(), "gemma-3", []chat.Message{
		{Role: chat.RoleSystem, Content: "contexto"},
		{Role: chat.RoleUser, Content: "hola"},
	})
	require.NoError(t, err)
	require.Equal(t, "respuesta simulada", reply)
}

func TestCompleteAgainstFailingHTTPServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
	}))
	defer srv.Close()

	cfg := testAIConfig(time.Second)
	cfg.BaseURL = srv.URL

	gw := NewGateway(NewClient(cfg), cfg)
	_, err := gw.Complete(context.Background(), "gemma-3", nil)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	require.Equal(t, http.StatusInternalServerError, upstreamErr.Status)
	require.Contains(t, upstreamErr.Body, "upstream exploded")
}
