package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// Gemini generates through the Google genai SDK. Pass A uses schema-constrained
// JSON output (response MIME type application/json plus the raw JSON schema);
// Pass B is plain text at a higher temperature.
type Gemini struct {
	apiKey string

	mu     sync.Mutex
	client *genai.Client
}

// NewGemini returns a Gemini backend. The credential is checked on first use,
// not here, so an unconfigured process can still construct its provider and
// fail with a precise error when generation is actually requested.
func NewGemini(apiKey string) *Gemini {
	return &Gemini{apiKey: strings.TrimSpace(apiKey)}
}

// ensureClient lazily builds the SDK client. The credential gate lives here:
// no key, no client, no network.
func (g *Gemini) ensureClient(ctx context.Context) (*genai.Client, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrCredentialMissing)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: g.apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	g.client = client
	return client, nil
}

// GenerateStructured requests schema-constrained JSON and returns the payload
// with any markdown fences removed.
func (g *Gemini) GenerateStructured(ctx context.Context, model, systemInstruction, userPrompt string, schema map[string]interface{}) ([]byte, error) {
	client, err := g.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction:  genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:        genai.Ptr[float32](0.2),
		ResponseMIMEType:   "application/json",
		ResponseJsonSchema: schema,
	}
	contents := []*genai.Content{genai.NewContentFromText(userPrompt, genai.RoleUser)}

	resp, err := client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, g.classify(err)
	}

	raw := StripFences(resp.Text())
	if raw == "" {
		return nil, &MalformedOutputError{Provider: NameGemini, Detail: "empty response"}
	}
	if !json.Valid([]byte(raw)) {
		// One fallback: dig a balanced object out of a padded response.
		if obj := ExtractJSON(raw); obj != "" && json.Valid([]byte(obj)) {
			return []byte(obj), nil
		}
		return nil, &MalformedOutputError{Provider: NameGemini, Detail: "response is not valid JSON"}
	}
	return []byte(raw), nil
}

// GenerateText requests plain narrative text.
func (g *Gemini) GenerateText(ctx context.Context, model, systemInstruction, userPrompt string) (string, error) {
	client, err := g.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.6),
	}
	contents := []*genai.Content{genai.NewContentFromText(userPrompt, genai.RoleUser)}

	resp, err := client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", g.classify(err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &MalformedOutputError{Provider: NameGemini, Detail: "empty response"}
	}
	return text, nil
}

// classify maps SDK errors onto the caller-facing taxonomy. Quota rejections
// must stay distinguishable from everything else.
func (g *Gemini) classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED" {
			return &QuotaError{Provider: NameGemini, Detail: apiErr.Message}
		}
	}
	msg := err.Error()
	if strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "429") {
		return &QuotaError{Provider: NameGemini, Detail: msg}
	}
	return fmt.Errorf("gemini generate failed: %w", err)
}
