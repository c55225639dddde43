package tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"

	"github.com/MimeLyc/research-agent/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const RelevanceToolName = "find_whether_a_research_paper_is_relevant_to_user_query"

// SentinelRelevanceFailed is the observation returned whenever a paper
// could not be scored, whatever the reason.
const SentinelRelevanceFailed = "Error 400: unable to determine whether the research paper is relevant to the user query"

const paperDetailsSchema = `{
	"type": "object",
	"properties": {
		"query":    {"type": "string", "pattern": "\\S"},
		"title":    {"type": "string", "pattern": "\\S"},
		"abstract": {"type": "string", "pattern": "\\S"}
	},
	"required": ["query", "title", "abstract"]
}`

// PaperDetails is the input of the relevance tool and the request body sent
// to the scorer.
type PaperDetails struct {
	Query    string `json:"query"`
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
}

type scorerResponse struct {
	RelevanceScore jsoniter.RawMessage `json:"relevance_score"`
}

// RelevanceTool asks a remote classifier whether a paper matches a query.
type RelevanceTool struct {
	scorerURL  string
	httpClient *http.Client
	schema     *jsonschema.Schema
	inflight   singleflight.Group
}

// NewRelevanceTool creates a relevance tool posting to scorerURL.
func NewRelevanceTool(scorerURL string, timeout time.Duration) (*RelevanceTool, error) {
	if strings.TrimSpace(scorerURL) == "" {
		return nil, fmt.Errorf("relevance scorer URL is required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	schema, err := compileSchema("paper_details.json", paperDetailsSchema)
	if err != nil {
		return nil, err
	}

	return &RelevanceTool{
		scorerURL: scorerURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		schema: schema,
	}, nil
}

func compileSchema(name, raw string) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", name, err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource %s: %w", name, err)
	}
	schema, err := c.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}
	return schema, nil
}

func (t *RelevanceTool) Name() string {
	return RelevanceToolName
}

func (t *RelevanceTool) Description() string {
	return `This tool is used to find whether the given paper title and paper abstract are relevant to the user query or not! ` +
		`Input must be a JSON object with the string fields "query", "title" and "abstract".`
}

func (t *RelevanceTool) Execute(ctx context.Context, input string) Result {
	logger := log.GetLogger().With("tool", t.Name())

	details, err := t.parseInput(input)
	if err != nil {
		logger.Error("invalid tool input %q: %v", input, err)
		return Failure(SentinelRelevanceFailed, err)
	}

	relevant, err := t.score(ctx, details)
	if err != nil {
		logger.Error("scoring failed for title %q: %v", details.Title, err)
		return Failure(SentinelRelevanceFailed, err)
	}

	logger.Info("paper %q relevant=%t", details.Title, relevant)
	return Success(formatRelevance(details, relevant))
}

func (t *RelevanceTool) parseInput(input string) (PaperDetails, error) {
	raw := trimCodeFence(input)

	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return PaperDetails{}, fmt.Errorf("tool input is not valid JSON: %w", err)
	}
	if err := t.schema.Validate(inst); err != nil {
		return PaperDetails{}, fmt.Errorf("tool input does not match schema: %w", err)
	}

	var details PaperDetails
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		return PaperDetails{}, fmt.Errorf("failed to decode tool input: %w", err)
	}
	return details, nil
}

// scorerBody is the request sent to the scorer: trimmed and NFC-normalized.
// The observation keeps the fields as the model sent them.
func scorerBody(details PaperDetails) ([]byte, error) {
	return json.Marshal(PaperDetails{
		Query:    norm.NFC.String(strings.TrimSpace(details.Query)),
		Title:    norm.NFC.String(strings.TrimSpace(details.Title)),
		Abstract: norm.NFC.String(strings.TrimSpace(details.Abstract)),
	})
}

// score collapses identical concurrent requests into one remote call. The
// shared call runs detached from any single caller, bounded by the client
// timeout; each caller still stops waiting when its own ctx is done.
func (t *RelevanceTool) score(ctx context.Context, details PaperDetails) (bool, error) {
	body, err := scorerBody(details)
	if err != nil {
		return false, fmt.Errorf("failed to marshal request: %w", err)
	}

	shared := context.WithoutCancel(ctx)
	ch := t.inflight.DoChan(string(body), func() (any, error) {
		return t.post(shared, body)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	case <-ctx.Done():
		return false, fmt.Errorf("scoring abandoned: %w", ctx.Err())
	}
}

func (t *RelevanceTool) post(ctx context.Context, body []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.scorerURL, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("scorer error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed scorerResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return false, fmt.Errorf("failed to parse response: %w", err)
	}

	score, err := parseScore(parsed.RelevanceScore)
	if err != nil {
		return false, err
	}
	return score == 1, nil
}

// parseScore accepts integral JSON numbers and numeric strings.
func parseScore(raw jsoniter.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Errorf("response has no relevance_score")
	}

	text := string(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		text = strings.TrimSpace(s)
	}

	if n, err := strconv.Atoi(text); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("relevance_score %s is not an integer", string(raw))
	}
	return int(f), nil
}

func formatRelevance(details PaperDetails, relevant bool) string {
	verdict := "are relevant"
	if !relevant {
		verdict = "are not relevant"
	}
	return fmt.Sprintf(`The research paper titled "%s" with abstract "%s" and the user query "%s" %s.`,
		details.Title, details.Abstract, details.Query, verdict)
}

// trimCodeFence strips whitespace and a surrounding markdown code fence.
func trimCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[\"") {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
