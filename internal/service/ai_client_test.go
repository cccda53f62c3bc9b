package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lifelens/internal/config"
	"lifelens/internal/model"
	"lifelens/internal/service"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(provider, baseURL, modelName string) *config.Config {
	return &config.Config{
		AIProvider: provider,
		AIBaseURL:  baseURL,
		AIModel:    modelName,
		AIAPIKey:   "test-key",
		AITimeout:  5 * time.Second,
	}
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestNewTextGenerator_NoneAndUnknown(t *testing.T) {
	gen, err := service.NewTextGenerator(context.Background(), testConfig(config.ProviderNone, "", ""), zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, gen)

	_, err = service.NewTextGenerator(context.Background(), testConfig("bard", "", ""), zap.NewNop())
	assert.ErrorIs(t, err, model.ErrUnknownProvider)
}

func TestOpenAIClient_Complete(t *testing.T) {
	var gotBody map[string]any
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		gotBody = decodeBody(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-test",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Hello Ava"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":3,"completion_tokens":4,"total_tokens":7}}`))
	})

	gen, err := service.NewTextGenerator(context.Background(), testConfig(config.ProviderOpenAI, srv.URL, "gpt-test"), zap.NewNop())
	require.NoError(t, err)

	temp := 0.7
	text, usage, err := gen.Complete(context.Background(), "Say hi", service.GenerationParams{Temperature: &temp, JSON: true})

	require.NoError(t, err)
	assert.Equal(t, "Hello Ava", text)
	assert.Equal(t, service.UsageInfo{PromptTokens: 3, CompletionTokens: 4, TotalTokens: 7}, usage)
	assert.Equal(t, "gpt-test", gotBody["model"])
	format, ok := gotBody["response_format"].(map[string]any)
	require.True(t, ok, "response_format is sent in JSON mode")
	assert.Equal(t, "json_object", format["type"])
}

func TestOpenAIClient_Errors(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Authorization"), "empty") {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"c2","object":"chat.completion","created":1,"model":"gpt-test","choices":[]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	})

	gen, err := service.NewTextGenerator(context.Background(), testConfig(config.ProviderOpenAI, srv.URL, "gpt-test"), zap.NewNop())
	require.NoError(t, err)
	_, _, err = gen.Complete(context.Background(), "Say hi", service.GenerationParams{})
	assert.ErrorIs(t, err, model.ErrAIGenerationFailed)

	_, _, err = gen.Complete(context.Background(), "   ", service.GenerationParams{})
	assert.ErrorIs(t, err, model.ErrAIGenerationFailed)

	cfg := testConfig(config.ProviderOpenAI, srv.URL, "gpt-test")
	cfg.AIAPIKey = "empty"
	gen, err = service.NewTextGenerator(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	_, _, err = gen.Complete(context.Background(), "Say hi", service.GenerationParams{})
	assert.ErrorIs(t, err, model.ErrEmptyResponse)
}

func TestOllamaClient_Complete(t *testing.T) {
	var gotBody map[string]any
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		gotBody = decodeBody(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama-test","created_at":"2024-01-01T00:00:00Z","message":{"role":"assistant","content":"{\"introduction\":\"I1\"}"},"done":true,"prompt_eval_count":11,"eval_count":22}` + "\n"))
	})

	// The OpenAI-style /v1 suffix is stripped for the native API.
	gen, err := service.NewTextGenerator(context.Background(), testConfig(config.ProviderOllama, srv.URL+"/v1", "llama-test"), zap.NewNop())
	require.NoError(t, err)

	maxTokens := 512
	text, usage, err := gen.Complete(context.Background(), "Write", service.GenerationParams{MaxTokens: &maxTokens, JSON: true})

	require.NoError(t, err)
	assert.Equal(t, `{"introduction":"I1"}`, text)
	assert.Equal(t, 33, usage.TotalTokens)
	assert.Equal(t, "json", gotBody["format"])
	assert.Equal(t, false, gotBody["stream"])
	options, ok := gotBody["options"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 512, options["num_predict"])
}

func TestOllamaClient_ServerError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	})

	gen, err := service.NewTextGenerator(context.Background(), testConfig(config.ProviderOllama, srv.URL, "missing"), zap.NewNop())
	require.NoError(t, err)

	_, _, err = gen.Complete(context.Background(), "Write", service.GenerationParams{})
	assert.ErrorIs(t, err, model.ErrAIGenerationFailed)
}

func TestGeminiClient_Complete(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "gemini-test:generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Gemini says hi"}]},"finishReason":"STOP"}],
			"usageMetadata":{"promptTokenCount":5,"candidatesTokenCount":6,"totalTokenCount":11}}`))
	})

	gen, err := service.NewTextGenerator(context.Background(), testConfig(config.ProviderGemini, srv.URL+"/", "gemini-test"), zap.NewNop())
	require.NoError(t, err)

	text, usage, err := gen.Complete(context.Background(), "Say hi", service.GenerationParams{JSON: true})

	require.NoError(t, err)
	assert.Equal(t, "Gemini says hi", text)
	assert.Equal(t, service.UsageInfo{PromptTokens: 5, CompletionTokens: 6, TotalTokens: 11}, usage)
}
