package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLangChainCompleter_AgainstMockServer(t *testing.T) {
	var payload map[string]any
	var calls int32
	server := capturingServer(t, &payload, &calls)

	c, err := NewLangChainCompleter(testConfig(server.URL))
	require.NoError(t, err)
	require.NotNil(t, c.Unwrap())

	out, err := c.Complete(context.Background(), "Question: hi", CompletionOptions{Stop: []string{"\nObservation"}})
	require.NoError(t, err)
	assert.Equal(t, "Final Answer: hello", out)
	assert.Equal(t, int32(1), calls)
	assert.Equal(t, "test-model", payload["model"])
	assert.Equal(t, []any{"\nObservation"}, payload["stop"])
}

func TestOpenAICompleter_AgainstMockServer(t *testing.T) {
	var payload map[string]any
	var calls int32
	server := capturingServer(t, &payload, &calls)

	c, err := NewOpenAICompleter(testConfig(server.URL))
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "Question: hi", CompletionOptions{Stop: []string{"\nObservation"}})
	require.NoError(t, err)
	assert.Equal(t, "Final Answer: hello", out)
	assert.Equal(t, int32(1), calls)
	assert.Equal(t, "test-model", payload["model"])
	assert.Equal(t, []any{"\nObservation"}, payload["stop"])
	assert.EqualValues(t, 256, payload["max_tokens"])
}

func TestProviders_RejectInvalidConfig(t *testing.T) {
	_, err := NewLangChainCompleter(&Config{})
	require.Error(t, err)

	_, err = NewOpenAICompleter(&Config{})
	require.Error(t, err)
}
