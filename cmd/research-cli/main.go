// Command research-cli is an interactive client for the research agent API.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	colorReset  = "\033[0m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorBold   = "\033[1m"
)

type step struct {
	Tool        string `json:"tool"`
	Input       string `json:"input"`
	Observation string `json:"observation"`
	Failed      bool   `json:"failed"`
}

type agentResult struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	Steps  []step `json:"steps"`
}

type client struct {
	baseURL    string
	verbose    bool
	httpClient *http.Client
}

func main() {
	baseURL := flag.String("url", "http://localhost:8000", "research agent API base URL")
	verbose := flag.Bool("verbose", false, "print tool steps")
	timeout := flag.Duration("timeout", 3*time.Minute, "per query timeout")
	flag.Parse()

	c := &client{
		baseURL:    strings.TrimRight(*baseURL, "/"),
		verbose:    *verbose,
		httpClient: &http.Client{Timeout: *timeout},
	}
	if err := run(c); err != nil {
		fmt.Fprintf(os.Stderr, "%serror: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
}

func run(c *client) error {
	rl, err := readline.New(colorCyan + colorBold + "Query: " + colorReset)
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		query := strings.TrimSpace(line)
		switch query {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		}

		result, err := c.ask(context.Background(), query)
		if err != nil {
			fmt.Fprintf(rl.Stderr(), "%s%v%s\n", colorRed, err, colorReset)
			continue
		}
		printResult(rl.Stdout(), result)
	}
}

func (c *client) ask(ctx context.Context, query string) (*agentResult, error) {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/agent"
	if c.verbose {
		url += "?verbose=true"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &errBody) == nil && errBody.Detail != "" {
			return nil, fmt.Errorf("agent error (status %d): %s", resp.StatusCode, errBody.Detail)
		}
		return nil, fmt.Errorf("agent error (status %d)", resp.StatusCode)
	}

	var parsed struct {
		Result agentResult `json:"result"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &parsed.Result, nil
}

func printResult(w io.Writer, r *agentResult) {
	for i, s := range r.Steps {
		color := colorYellow
		if s.Failed {
			color = colorRed
		}
		fmt.Fprintf(w, "%s[%d] %s(%s)%s\n    %s\n", color, i+1, s.Tool, s.Input, colorReset, s.Observation)
	}
	fmt.Fprintf(w, "%s\n\n", r.Output)
}
