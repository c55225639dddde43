package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/MimeLyc/research-agent/internal/llm"
)

func TestPromptTools_Render(t *testing.T) {
	tests := []struct {
		name string
		tool *PromptTool
		want string
	}{
		{
			name: LiteratureReviewToolName,
			tool: NewLiteratureReviewTool(),
			want: "As an expert researcher and expert literature reviewer, write a literature review on the topic: graph neural networks",
		},
		{
			name: EssayToolName,
			tool: NewEssayTool(),
			want: "As a language expert and expert in essay writing, write an essay on the topic: graph neural networks",
		},
		{
			name: ResearchGapsToolName,
			tool: NewResearchGapsTool(),
			want: "As an expert researcher, identify research gaps on the topic: graph neural networks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.tool.Name())
			assert.NotEmpty(t, tt.tool.Description())

			result := tt.tool.Execute(context.Background(), "  graph neural networks \n")
			assert.False(t, result.Failed)
			assert.Equal(t, tt.want, result.Content)
		})
	}
}

func TestPromptTool_EmptyTopic(t *testing.T) {
	result := NewEssayTool().Execute(context.Background(), "   ")
	assert.True(t, result.Failed)
	assert.Equal(t, SentinelEmptyTopic, result.Content)
}

func TestPromptTool_LanguageHint(t *testing.T) {
	french := WithLanguageDetector(func(string) (language.Tag, bool) { return language.French, true })
	english := WithLanguageDetector(func(string) (language.Tag, bool) { return language.MustParse("en-GB"), true })
	unsure := WithLanguageDetector(func(string) (language.Tag, bool) { return language.Und, false })

	assert.Equal(t,
		"As an expert researcher, identify research gaps on the topic: apprentissage profond Write the response in French.",
		NewResearchGapsTool(french).Render("apprentissage profond"))
	assert.Equal(t,
		"As an expert researcher, identify research gaps on the topic: deep learning",
		NewResearchGapsTool(english).Render("deep learning"))
	assert.Equal(t,
		"As an expert researcher, identify research gaps on the topic: deep learning",
		NewResearchGapsTool(unsure).Render("deep learning"))
}

func TestPromptTool_RenderIsDeterministic(t *testing.T) {
	tool := NewLiteratureReviewTool(WithLanguageDetector(DetectLanguage))
	topic := "The effect of transformer architectures on long document summarisation in scientific literature"
	assert.Equal(t, tool.Render(topic), tool.Render(topic))
}

func TestDetectLanguage_EnglishTextGetsNoHint(t *testing.T) {
	tool := NewEssayTool(WithLanguageDetector(DetectLanguage))
	topic := "The influence of social media on the political opinions of young people in the modern world"
	assert.Equal(t, "As a language expert and expert in essay writing, write an essay on the topic: "+topic, tool.Render(topic))
}

func TestModelCallTool(t *testing.T) {
	var gotPrompt string
	var gotStop []string
	tool := NewModelCallTool(llm.CompleterFunc(func(_ context.Context, prompt string, opts llm.CompletionOptions) (string, error) {
		gotPrompt = prompt
		gotStop = opts.Stop
		return "An essay about bees.", nil
	}))

	result := tool.Execute(context.Background(), "  write about bees ")
	require.False(t, result.Failed)
	assert.Equal(t, "An essay about bees.", result.Content)
	assert.Equal(t, "write about bees", gotPrompt)
	assert.Empty(t, gotStop)
	assert.Equal(t, ModelCallToolName, tool.Name())
}

func TestModelCallTool_Failures(t *testing.T) {
	boom := errors.New("connection reset")
	tool := NewModelCallTool(llm.CompleterFunc(func(context.Context, string, llm.CompletionOptions) (string, error) {
		return "", boom
	}))

	result := tool.Execute(context.Background(), "hello")
	assert.True(t, result.Failed)
	assert.Equal(t, SentinelModelFailed, result.Content)
	assert.ErrorIs(t, result.Cause, boom)

	result = tool.Execute(context.Background(), "")
	assert.True(t, result.Failed)
	assert.Equal(t, SentinelModelFailed, result.Content)
}
