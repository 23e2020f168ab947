package ai

import (
	"context"
	"errors"
	"log"
	"slices"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/cistcor/cistbot/backend/internal/config"
	"github.com/cistcor/cistbot/backend/internal/model/chat"
)

// NoReplyFallback is returned when the provider answers successfully but
// the completion content is missing. A degraded answer beats an error for
// an interactive caller.
const NoReplyFallback = "No hay respuesta"

// CompletionClient is the subset of the OpenAI client used by the
// gateway; it keeps tests free of real network calls.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewClient builds the OpenAI-compatible client for the configured
// endpoint.
func NewClient(cfg config.AIConfig) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	return openai.NewClientWithConfig(clientCfg)
}

// Gateway performs a single deadline-bounded completion call per request
// and maps provider failures onto the local error kinds. It never
// retries.
type Gateway struct {
	client        CompletionClient
	defaultModel  string
	allowedModels []string
	timeout       time.Duration
}

// NewGateway wires a gateway from the AI configuration.
func NewGateway(client CompletionClient, cfg config.AIConfig) *Gateway {
	return &Gateway{
		client:        client,
		defaultModel:  cfg.Model,
		allowedModels: cfg.AllowedModels,
		timeout:       cfg.Timeout,
	}
}

// ResolveModel returns the requested model when it is on the allow-list
// and the configured default otherwise. Unknown models are substituted,
// never rejected.
func (g *Gateway) ResolveModel(model string) string {
	if model != "" && slices.Contains(g.allowedModels, model) {
		return model
	}
	return g.defaultModel
}

// Complete issues the completion request under the configured deadline.
// Once the deadline fires the in-flight call is cancelled and ErrTimeout
// is returned; any eventual response is discarded.
func (g *Gateway) Complete(ctx context.Context, model string, messages []chat.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:    g.ResolveModel(model),
		Messages: toOpenAIMessages(messages),
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", mapError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Printf("[ai] upstream returned an empty completion for model %s", req.Model)
		return NoReplyFallback, nil
	}
	return resp.Choices[0].Message.Content, nil
}

func mapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{Status: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &UpstreamError{Status: reqErr.HTTPStatusCode, Body: string(reqErr.Body)}
	}

	return &TransportError{Err: err}
}

func toOpenAIMessages(messages []chat.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return out
}
