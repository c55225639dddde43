package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/MimeLyc/research-agent/pkg/log"
)

const (
	LiteratureReviewToolName = "transform_user_query_for_literature_review"
	EssayToolName            = "transform_user_query_for_essay"
	ResearchGapsToolName     = "transform_user_query_for_research_gaps"
)

// SentinelEmptyTopic is the observation returned for a blank topic.
const SentinelEmptyTopic = "Error 400: a topic is required to build the prompt"

// LanguageDetector reports the language of text when it is confidently
// detected.
type LanguageDetector func(text string) (language.Tag, bool)

// PromptTool renders a fixed prompt template around a topic. It performs no I/O.
type PromptTool struct {
	name        string
	description string
	template    string
	detect      LanguageDetector
}

// PromptOption configures a PromptTool.
type PromptOption func(*PromptTool)

// WithLanguageDetector appends a "write in <language>" sentence when detect
// reports a non-English topic. A nil detector disables the hint.
func WithLanguageDetector(detect LanguageDetector) PromptOption {
	return func(t *PromptTool) {
		t.detect = detect
	}
}

func newPromptTool(name, description, template string, opts ...PromptOption) *PromptTool {
	t := &PromptTool{
		name:        name,
		description: description,
		template:    template,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewLiteratureReviewTool(opts ...PromptOption) *PromptTool {
	return newPromptTool(
		LiteratureReviewToolName,
		"This tool is used to transform user query for literature review report!",
		"As an expert researcher and expert literature reviewer, write a literature review on the topic: %s",
		opts...,
	)
}

func NewEssayTool(opts ...PromptOption) *PromptTool {
	return newPromptTool(
		EssayToolName,
		"This tool is used to transform user query for writing an essay!",
		"As a language expert and expert in essay writing, write an essay on the topic: %s",
		opts...,
	)
}

func NewResearchGapsTool(opts ...PromptOption) *PromptTool {
	return newPromptTool(
		ResearchGapsToolName,
		"This tool is used to transform user query for identifying research gaps!",
		"As an expert researcher, identify research gaps on the topic: %s",
		opts...,
	)
}

func (t *PromptTool) Name() string {
	return t.name
}

func (t *PromptTool) Description() string {
	return t.description
}

func (t *PromptTool) Execute(_ context.Context, input string) Result {
	topic := strings.TrimSpace(input)
	if topic == "" {
		log.GetLogger().With("tool", t.name).Warn("empty topic")
		return Failure(SentinelEmptyTopic, fmt.Errorf("empty topic"))
	}
	return Success(t.Render(topic))
}

// Render returns the prompt for topic.
func (t *PromptTool) Render(topic string) string {
	prompt := fmt.Sprintf(t.template, topic)
	if t.detect == nil {
		return prompt
	}
	tag, ok := t.detect(topic)
	if !ok || isEnglish(tag) {
		return prompt
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return prompt
	}
	return prompt + fmt.Sprintf(" Write the response in %s.", name)
}

func isEnglish(tag language.Tag) bool {
	base, _ := tag.Base()
	return base.String() == "en"
}

// DetectLanguage is the default LanguageDetector backed by whatlanggo.
func DetectLanguage(text string) (language.Tag, bool) {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return language.Und, false
	}
	code := info.Lang.Iso6391()
	if code == "" {
		return language.Und, false
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
