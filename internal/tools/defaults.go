package tools

import (
	"fmt"
	"time"

	"github.com/MimeLyc/research-agent/internal/llm"
)

// DefaultOptions configures the standard research tool set.
type DefaultOptions struct {
	Completer        llm.Completer
	ScorerURL        string
	ScorerTimeout    time.Duration
	LanguageHints    bool
	LanguageDetector LanguageDetector
}

// NewDefaultRegistry builds the fixed registry served by the agent:
// direct model call, relevance check and the three prompt transforms.
func NewDefaultRegistry(opts DefaultOptions) (*Registry, error) {
	if opts.Completer == nil {
		return nil, fmt.Errorf("completer is required")
	}

	relevance, err := NewRelevanceTool(opts.ScorerURL, opts.ScorerTimeout)
	if err != nil {
		return nil, err
	}

	var promptOpts []PromptOption
	if opts.LanguageHints {
		detect := opts.LanguageDetector
		if detect == nil {
			detect = DetectLanguage
		}
		promptOpts = append(promptOpts, WithLanguageDetector(detect))
	}

	return NewRegistry(
		NewModelCallTool(opts.Completer),
		relevance,
		NewLiteratureReviewTool(promptOpts...),
		NewEssayTool(promptOpts...),
		NewResearchGapsTool(promptOpts...),
	)
}
