package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	perplexityBaseURL = "https://api.perplexity.ai"
	perplexityModel   = "sonar"

	groqBaseURL = "https://api.groq.com/openai/v1"
	groqModel   = "llama-3.3-70b-versatile"

	providerTimeout = 60 * time.Second
)

// ProviderMessage is one turn of the conversation sent upstream.
type ProviderMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ProviderReply is the upstream completion, with optional source citations
// (Perplexity returns these; Groq does not).
type ProviderReply struct {
	Content string
	Sources []string
}

// Provider is the contract for an upstream chat-completion API.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string

	// Complete sends the conversation upstream and returns the assistant reply.
	Complete(ctx context.Context, messages []ProviderMessage) (ProviderReply, error)
}

// openAIStyleClient talks to an OpenAI-compatible chat-completions endpoint.
// Both Perplexity and Groq expose this shape.
type openAIStyleClient struct {
	name       string
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewPerplexityProvider returns a Provider backed by the Perplexity API.
func NewPerplexityProvider(apiKey string) Provider {
	return &openAIStyleClient{
		name:       "perplexity",
		baseURL:    perplexityBaseURL,
		model:      perplexityModel,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: providerTimeout},
	}
}

// NewGroqProvider returns a Provider backed by the Groq API.
func NewGroqProvider(apiKey string) Provider {
	return &openAIStyleClient{
		name:       "groq",
		baseURL:    groqBaseURL,
		model:      groqModel,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: providerTimeout},
	}
}

// newTestClient builds a client against an arbitrary base URL, used in tests.
func newTestClient(name, baseURL, apiKey string) *openAIStyleClient {
	return &openAIStyleClient{
		name:       name,
		baseURL:    baseURL,
		model:      "test-model",
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: providerTimeout},
	}
}

func (c *openAIStyleClient) Name() string {
	return c.name
}

type completionRequest struct {
	Model    string            `json:"model"`
	Messages []ProviderMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`

	// Citations is populated by Perplexity with the source URLs backing the answer.
	Citations []string `json:"citations"`
}

// Complete sends the conversation to the chat-completions endpoint and parses
// the first choice.
func (c *openAIStyleClient) Complete(ctx context.Context, messages []ProviderMessage) (ProviderReply, error) {
	body, err := json.Marshal(completionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return ProviderReply{}, fmt.Errorf("%s: encode request: %w", c.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return ProviderReply{}, fmt.Errorf("%s: build request: %w", c.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return ProviderReply{}, fmt.Errorf("%s: request failed: %w", c.name, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return ProviderReply{}, fmt.Errorf("%s: unexpected status %d: %s", c.name, res.StatusCode, snippet)
	}

	var parsed completionResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return ProviderReply{}, fmt.Errorf("%s: decode response: %w", c.name, err)
	}

	if len(parsed.Choices) == 0 {
		return ProviderReply{}, fmt.Errorf("%s: response contained no choices", c.name)
	}

	return ProviderReply{
		Content: parsed.Choices[0].Message.Content,
		Sources: parsed.Citations,
	}, nil
}
