package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) (*OpenAI, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewOpenAIWithConfig(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})
	return c, srv
}

func chatResponse(content string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}, "finish_reason": "stop"},
		},
	})
	return string(b)
}

func TestOpenAIGenerateStructured(t *testing.T) {
	var gotReq openAIRequest
	c, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(chatResponse(`{"ok": true}`)))
	})

	raw, err := c.GenerateStructured(context.Background(), "gpt-4o-mini", "sys", "user",
		map[string]interface{}{"type": "object"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(raw))

	require.NotNil(t, gotReq.ResponseFormat)
	assert.Equal(t, "json_schema", gotReq.ResponseFormat.Type)
	require.NotNil(t, gotReq.ResponseFormat.JSONSchema)
	assert.True(t, gotReq.ResponseFormat.JSONSchema.Strict)
	assert.Equal(t, 0.2, gotReq.Temperature)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
}

func TestOpenAIGenerateStructuredStripsFences(t *testing.T) {
	c, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatResponse("```json\n{\"ok\": true}\n```")))
	})
	raw, err := c.GenerateStructured(context.Background(), "m", "", "", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(raw))
}

func TestOpenAIGenerateStructuredExtractsEmbeddedObject(t *testing.T) {
	c, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatResponse(`Sure! Here you go: {"ok": true} Let me know.`)))
	})
	raw, err := c.GenerateStructured(context.Background(), "m", "", "", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(raw))
}

func TestOpenAIGenerateText(t *testing.T) {
	var gotReq openAIRequest
	c, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(chatResponse("  the brief text  ")))
	})
	text, err := c.GenerateText(context.Background(), "m", "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "the brief text", text)
	assert.Nil(t, gotReq.ResponseFormat)
	assert.Equal(t, 0.6, gotReq.Temperature)
}

func TestOpenAIMissingCredentialNoNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(chatResponse("x")))
	}))
	t.Cleanup(srv.Close)

	c := NewOpenAIWithConfig(OpenAIConfig{APIKey: "", BaseURL: srv.URL})
	_, err := c.GenerateStructured(context.Background(), "m", "", "", nil)
	require.ErrorIs(t, err, ErrCredentialMissing)
	assert.Equal(t, int32(0), calls.Load(), "credential check must precede any request")

	_, err = c.GenerateText(context.Background(), "m", "", "")
	require.ErrorIs(t, err, ErrCredentialMissing)
	assert.Equal(t, int32(0), calls.Load())
}

func TestOpenAIQuotaErrors(t *testing.T) {
	t.Run("http 429", func(t *testing.T) {
		c, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"message": "rate limited"}}`))
		})
		_, err := c.GenerateText(context.Background(), "m", "", "")
		var qe *QuotaError
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, NameOpenAI, qe.Provider)
	})

	t.Run("insufficient_quota body", func(t *testing.T) {
		c, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": {"message": "out of credits", "type": "insufficient_quota"}}`))
		})
		_, err := c.GenerateText(context.Background(), "m", "", "")
		var qe *QuotaError
		require.ErrorAs(t, err, &qe)
	})
}

func TestOpenAIMalformedResponses(t *testing.T) {
	t.Run("unparseable body", func(t *testing.T) {
		c, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>gateway error</html>"))
		})
		_, err := c.GenerateText(context.Background(), "m", "", "")
		var me *MalformedOutputError
		require.ErrorAs(t, err, &me)
	})

	t.Run("no choices", func(t *testing.T) {
		c, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices": []}`))
		})
		_, err := c.GenerateText(context.Background(), "m", "", "")
		var me *MalformedOutputError
		require.ErrorAs(t, err, &me)
	})

	t.Run("structured content not json", func(t *testing.T) {
		c, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(chatResponse("I cannot produce JSON today.")))
		})
		_, err := c.GenerateStructured(context.Background(), "m", "", "", nil)
		var me *MalformedOutputError
		require.ErrorAs(t, err, &me)
	})
}

func TestOpenAIAPIError(t *testing.T) {
	c, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "model not found", "type": "invalid_request_error"}}`))
	})
	_, err := c.GenerateText(context.Background(), "m", "", "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCredentialMissing))
	var qe *QuotaError
	assert.False(t, errors.As(err, &qe))
}
