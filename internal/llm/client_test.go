package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionBody = `{
	"id": "test-id",
	"object": "chat.completion",
	"created": 1234567890,
	"model": "test-model",
	"choices": [{
		"index": 0,
		"message": {
			"role": "assistant",
			"content": "Final Answer: hello"
		},
		"finish_reason": "stop"
	}],
	"usage": {
		"prompt_tokens": 10,
		"completion_tokens": 20,
		"total_tokens": 30
	}
}`

func testConfig(url string) *Config {
	return &Config{
		APIKey:      "test-key",
		APIURL:      url,
		Model:       "test-model",
		MaxTokens:   256,
		Temperature: 0.7,
		Timeout:     10,
	}
}

// capturingServer records the last decoded request body.
func capturingServer(t *testing.T, captured *map[string]any, calls *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		*captured = payload

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewClient(t *testing.T) {
	config := testConfig("https://api.example.com/")

	client, err := NewClient(config)
	require.NoError(t, err)
	assert.Equal(t, config, client.config)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.NotNil(t, client.httpClient)

	_, err = NewClient(&Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "missing key", mutate: func(c *Config) { c.APIKey = "" }, want: "API key"},
		{name: "missing url", mutate: func(c *Config) { c.APIURL = "" }, want: "API URL"},
		{name: "missing model", mutate: func(c *Config) { c.Model = "" }, want: "model"},
		{name: "zero tokens", mutate: func(c *Config) { c.MaxTokens = 0 }, want: "max tokens"},
		{name: "hot temperature", mutate: func(c *Config) { c.Temperature = 2.5 }, want: "temperature"},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, want: "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("https://api.example.com")
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestClient_CompleteSendsStopSequences(t *testing.T) {
	var payload map[string]any
	var calls int32
	server := capturingServer(t, &payload, &calls)

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	out, err := client.Complete(context.Background(), "Question: hi", CompletionOptions{Stop: []string{"\nObservation"}})
	require.NoError(t, err)
	assert.Equal(t, "Final Answer: hello", out)

	assert.Equal(t, "test-model", payload["model"])
	assert.Equal(t, []any{"\nObservation"}, payload["stop"])
	assert.InDelta(t, 0.7, payload["temperature"], 1e-9)
	messages := payload["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "Question: hi", messages[0].(map[string]any)["content"])
}

func TestClientErrorHandling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Invalid API key", "type": "authentication_error", "code": "401"}}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "Hello", CompletionOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "authentication_error", apiErr.Type)
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "Hello", CompletionOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestClient_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "x", "choices": []}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "Hello", CompletionOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestNew_SelectsProvider(t *testing.T) {
	tests := []struct {
		provider string
		check    func(t *testing.T, c Completer)
	}{
		{provider: "", check: func(t *testing.T, c Completer) { assert.IsType(t, &Client{}, c) }},
		{provider: ProviderOpenAICompatible, check: func(t *testing.T, c Completer) { assert.IsType(t, &Client{}, c) }},
		{provider: ProviderLangChain, check: func(t *testing.T, c Completer) { assert.IsType(t, &LangChainCompleter{}, c) }},
		{provider: ProviderOpenAISDK, check: func(t *testing.T, c Completer) { assert.IsType(t, &OpenAICompleter{}, c) }},
	}

	for _, tt := range tests {
		t.Run("provider="+tt.provider, func(t *testing.T) {
			cfg := testConfig("https://api.example.com/v1")
			cfg.Provider = tt.provider
			c, err := New(cfg)
			require.NoError(t, err)
			tt.check(t, c)
		})
	}

	cfg := testConfig("https://api.example.com/v1")
	cfg.Provider = "carrier-pigeon"
	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestCompleterFunc(t *testing.T) {
	var f Completer = CompleterFunc(func(_ context.Context, prompt string, opts CompletionOptions) (string, error) {
		return prompt + "|" + opts.Stop[0], nil
	})
	out, err := f.Complete(context.Background(), "p", CompletionOptions{Stop: []string{"s"}})
	require.NoError(t, err)
	assert.Equal(t, "p|s", out)
}
