package agent

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/MimeLyc/research-agent/internal/tools"
)

//go:embed react.tmpl
var reactTemplate string

// StopSequence ends a model turn before it invents its own observation.
const StopSequence = "\nObservation"

// PromptRenderer builds the ReAct prompt for one iteration.
// Render is pure: the same tools, query and transcript give the same bytes.
type PromptRenderer struct {
	tmpl *template.Template
}

type promptData struct {
	ToolList   string
	ToolNames  string
	Query      string
	Scratchpad string
}

func NewPromptRenderer() (*PromptRenderer, error) {
	tmpl, err := template.New("react").Parse(reactTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	return &PromptRenderer{tmpl: tmpl}, nil
}

// Render returns the full prompt for the next model call.
func (r *PromptRenderer) Render(toolset []tools.Tool, query string, transcript []Step) (string, error) {
	lines := make([]string, 0, len(toolset))
	names := make([]string, 0, len(toolset))
	for _, t := range toolset {
		lines = append(lines, fmt.Sprintf("%s: %s", t.Name(), t.Description()))
		names = append(names, t.Name())
	}

	var b strings.Builder
	err := r.tmpl.Execute(&b, promptData{
		ToolList:   strings.Join(lines, "\n"),
		ToolNames:  strings.Join(names, ", "),
		Query:      query,
		Scratchpad: Scratchpad(transcript),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return b.String(), nil
}

// Scratchpad replays the transcript in the order the model produced it.
func Scratchpad(transcript []Step) string {
	var b strings.Builder
	for _, step := range transcript {
		b.WriteString(step.Action.Log)
		b.WriteString("\nObservation: ")
		b.WriteString(step.Observation.Content)
		b.WriteString("\nThought: ")
	}
	return b.String()
}
