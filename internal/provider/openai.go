package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAI generates through the OpenAI chat completions REST API. Pass A uses
// the json_schema response format with strict mode; Pass B is a plain
// completion.
type OpenAI struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// OpenAIConfig holds construction options for the OpenAI backend.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// DefaultOpenAIConfig returns sensible defaults.
func DefaultOpenAIConfig(apiKey string) OpenAIConfig {
	return OpenAIConfig{
		APIKey:  apiKey,
		BaseURL: "https://api.openai.com/v1",
		Timeout: 120 * time.Second,
	}
}

// NewOpenAI creates an OpenAI backend with default config.
func NewOpenAI(apiKey string) *OpenAI {
	return NewOpenAIWithConfig(DefaultOpenAIConfig(apiKey))
}

// NewOpenAIWithConfig creates an OpenAI backend with custom config. Tests
// point BaseURL at a local server.
func NewOpenAIWithConfig(cfg OpenAIConfig) *OpenAI {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OpenAI{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *openAIJSONSchema `json:"json_schema,omitempty"`
}

type openAIJSONSchema struct {
	Name   string                 `json:"name"`
	Strict bool                   `json:"strict"`
	Schema map[string]interface{} `json:"schema"`
}

type openAIRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	Temperature    float64               `json:"temperature,omitempty"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// GenerateStructured requests a schema-constrained JSON completion.
func (c *OpenAI) GenerateStructured(ctx context.Context, model, systemInstruction, userPrompt string, schema map[string]interface{}) ([]byte, error) {
	req := openAIRequest{
		Model: model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.2,
		ResponseFormat: &openAIResponseFormat{
			Type: "json_schema",
			JSONSchema: &openAIJSONSchema{
				Name:   "DecisionMap",
				Strict: true,
				Schema: schema,
			},
		},
	}

	content, err := c.complete(ctx, req)
	if err != nil {
		return nil, err
	}
	raw := StripFences(content)
	if raw == "" {
		return nil, &MalformedOutputError{Provider: NameOpenAI, Detail: "empty response"}
	}
	if !json.Valid([]byte(raw)) {
		if obj := ExtractJSON(raw); obj != "" && json.Valid([]byte(obj)) {
			return []byte(obj), nil
		}
		return nil, &MalformedOutputError{Provider: NameOpenAI, Detail: "response is not valid JSON"}
	}
	return []byte(raw), nil
}

// GenerateText requests a plain completion.
func (c *OpenAI) GenerateText(ctx context.Context, model, systemInstruction, userPrompt string) (string, error) {
	req := openAIRequest{
		Model: model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.6,
	}
	content, err := c.complete(ctx, req)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(content)
	if text == "" {
		return "", &MalformedOutputError{Provider: NameOpenAI, Detail: "empty response"}
	}
	return text, nil
}

// complete performs one chat completions call. No retry: any failure is a
// terminal outcome for the invocation.
func (c *OpenAI) complete(ctx context.Context, reqBody openAIRequest) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("openai: %w", ErrCredentialMissing)
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &QuotaError{Provider: NameOpenAI, Detail: strings.TrimSpace(string(body))}
	}

	var parsed openAIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &MalformedOutputError{Provider: NameOpenAI, Detail: fmt.Sprintf("unparseable API response (status %d)", resp.StatusCode)}
	}
	if parsed.Error != nil {
		// Some quota rejections arrive with a 200-range status and an error
		// body, or a non-429 status with insufficient_quota.
		if parsed.Error.Type == "insufficient_quota" || parsed.Error.Code == "insufficient_quota" {
			return "", &QuotaError{Provider: NameOpenAI, Detail: parsed.Error.Message}
		}
		return "", fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if len(parsed.Choices) == 0 {
		return "", &MalformedOutputError{Provider: NameOpenAI, Detail: "no choices in response"}
	}
	return parsed.Choices[0].Message.Content, nil
}
