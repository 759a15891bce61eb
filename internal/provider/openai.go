package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider talks to any OpenAI-compatible endpoint, Ollama included.
type OpenAIProvider struct {
	name    string
	baseURL string
	model   string
	client  *openai.Client
}

func NewOpenAI(name, baseURL, apiKey, model string) *OpenAIProvider {
	return NewOpenAIWithClient(name, baseURL, apiKey, model, &http.Client{})
}

func NewOpenAIWithClient(name, baseURL, apiKey, model string, httpClient *http.Client) *OpenAIProvider {
	baseURL = strings.TrimRight(baseURL, "/")
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = httpClient
	return &OpenAIProvider{
		name:    name,
		baseURL: baseURL,
		model:   model,
		client:  openai.NewClientWithConfig(cfg),
	}
}

func (o *OpenAIProvider) Name() string { return o.name }

func (o *OpenAIProvider) ModelName() string { return o.model }

func (o *OpenAIProvider) Models(ctx context.Context) ([]string, error) {
	list, err := o.client.ListModels(ctx)
	if err != nil {
		return nil, o.wrap(err)
	}
	models := make([]string, len(list.Models))
	for i, m := range list.Models {
		models[i] = m.ID
	}
	return models, nil
}

func (o *OpenAIProvider) Complete(ctx context.Context, msgs []Message) (string, error) {
	oaMsgs := make([]openai.ChatCompletionMessage, len(msgs))
	for i, m := range msgs {
		oaMsgs[i] = openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content}
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: oaMsgs,
	})
	if err != nil {
		return "", o.wrap(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("provider %s: empty response", o.name)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// wrap prefixes the provider name and a readable cause. The original error
// stays in the chain for StatusCode and retryable.
func (o *OpenAIProvider) wrap(err error) error {
	if code, ok := StatusCode(err); ok {
		var msg string
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			msg = apiErr.Message
		}
		return fmt.Errorf("provider %s: HTTP %d: %s: %w", o.name, code, statusText(code, msg), err)
	}
	return fmt.Errorf("provider %s: %s: %w", o.name, FriendlyError(err), err)
}
