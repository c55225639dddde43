package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/MimeLyc/research-agent/internal/llm"
)

type echoTool struct{ name string }

func (e echoTool) Name() string        { return e.name }
func (e echoTool) Description() string { return "Echo back the input." }
func (e echoTool) Execute(_ context.Context, input string) Result {
	return Success(input)
}

func TestNewRegistry_KeepsOrder(t *testing.T) {
	r, err := NewRegistry(echoTool{"b"}, echoTool{"a"}, echoTool{"c"})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c"}, r.Names())
	assert.Equal(t, 3, r.Count())

	list := r.List()
	list[0] = echoTool{"mutated"}
	assert.Equal(t, "b", r.List()[0].Name())
}

func TestNewRegistry_RejectsDuplicatesAndEmptyNames(t *testing.T) {
	_, err := NewRegistry(echoTool{"echo"}, echoTool{"echo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	_, err = NewRegistry(echoTool{" "})
	require.Error(t, err)
}

func TestRegistry_GetIsExactMatch(t *testing.T) {
	r, err := NewRegistry(echoTool{"call_openai"})
	require.NoError(t, err)

	_, ok := r.Get("call_openai")
	assert.True(t, ok)
	_, ok = r.Get("Call_OpenAI")
	assert.False(t, ok)
	_, ok = r.Get("call_openai ")
	assert.False(t, ok)
}

func TestNewDefaultRegistry(t *testing.T) {
	completer := llm.CompleterFunc(func(context.Context, string, llm.CompletionOptions) (string, error) {
		return "ok", nil
	})

	r, err := NewDefaultRegistry(DefaultOptions{
		Completer:     completer,
		ScorerURL:     "http://scorer.invalid/score",
		ScorerTimeout: time.Second,
		LanguageHints: true,
		LanguageDetector: func(string) (language.Tag, bool) {
			return language.German, true
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		ModelCallToolName,
		RelevanceToolName,
		LiteratureReviewToolName,
		EssayToolName,
		ResearchGapsToolName,
	}, r.Names())

	essay, ok := r.Get(EssayToolName)
	require.True(t, ok)
	assert.Contains(t, essay.Execute(context.Background(), "Klimawandel").Content, "Write the response in German.")
}

func TestNewDefaultRegistry_RequiresDependencies(t *testing.T) {
	_, err := NewDefaultRegistry(DefaultOptions{ScorerURL: "http://x"})
	require.Error(t, err)

	_, err = NewDefaultRegistry(DefaultOptions{
		Completer: llm.CompleterFunc(func(context.Context, string, llm.CompletionOptions) (string, error) { return "", nil }),
	})
	require.Error(t, err)
}
