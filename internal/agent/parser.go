package agent

import (
	"regexp"
	"strings"
)

var (
	actionRe      = regexp.MustCompile(`(?is)Action\s*\d*\s*:[\s]*(.*?)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)
	actionOnlyRe  = regexp.MustCompile(`(?im)^\s*Action\s*\d*\s*:`)
	finalAnswerRe = regexp.MustCompile(`(?is)Final\s*Answer\s*:(.*)`)
	observationRe = regexp.MustCompile(`(?i)\n\s*Observation\s*:`)
)

// ParseAction decodes raw model output into an Invoke or a Final action.
//
// Accepted shapes:
//
//	Thought: ...
//	Action: <tool name>
//	Action Input: <input>
//
// or
//
//	Thought: I now know the final answer
//	Final Answer: <answer>
//
// Output holding both an action and a final answer is rejected.
func ParseAction(raw string) (Action, error) {
	hasFinal := finalAnswerRe.MatchString(raw)

	if m := actionRe.FindStringSubmatch(raw); m != nil {
		if hasFinal {
			return nil, NewError(ErrParse, "model output contains both a final answer and an action").
				WithContext("output", raw)
		}

		tool := strings.TrimSpace(m[1])
		if tool == "" {
			return nil, NewError(ErrParse, "model output has an empty action name").
				WithContext("output", raw)
		}

		return Invoke{
			Tool:  tool,
			Input: cleanInput(m[2]),
			Log:   raw,
		}, nil
	}

	if m := finalAnswerRe.FindStringSubmatch(raw); m != nil {
		return Final{
			Answer: strings.TrimSpace(m[1]),
			Log:    raw,
		}, nil
	}

	if actionOnlyRe.MatchString(raw) {
		return nil, NewError(ErrParse, `model output has "Action:" without "Action Input:"`).
			WithContext("output", raw)
	}

	return nil, NewError(ErrParse, `could not find "Action:" or "Final Answer:" in model output`).
		WithContext("output", raw)
}

// cleanInput drops a hallucinated observation, surrounding whitespace and
// one pair of wrapping double quotes.
func cleanInput(s string) string {
	if loc := observationRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
