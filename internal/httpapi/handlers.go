package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/MimeLyc/research-agent/internal/agent"
	"github.com/MimeLyc/research-agent/pkg/log"
)

type agentQuery struct {
	Query string `json:"query"`
}

type paperInput struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Query    string `json:"query"`
}

type literatureReviewQuery struct {
	Data  *paperInput `json:"data"`
	Query string      `json:"query"`
}

type agentResponse struct {
	Result resultBody `json:"result"`
}

type resultBody struct {
	Input  string     `json:"input"`
	Output string     `json:"output"`
	Steps  []stepBody `json:"steps,omitempty"`
}

type stepBody struct {
	Tool        string `json:"tool"`
	Input       string `json:"input"`
	Observation string `json:"observation"`
	Failed      bool   `json:"failed"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"message": "Research Agent API is running.",
	})
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	var req agentQuery
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusUnprocessableEntity, "query must not be empty")
		return
	}

	log.GetLogger().With("request_id", RequestID(r.Context())).Info("Starting the agent for other tasks")
	s.runAgent(w, r, req.Query)
}

func (s *Server) handleLiteratureReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	var req literatureReviewQuery
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusUnprocessableEntity, "query must not be empty")
		return
	}
	if req.Data == nil {
		writeError(w, http.StatusUnprocessableEntity, "data is required")
		return
	}

	input, err := literatureReviewInput(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	log.GetLogger().With("request_id", RequestID(r.Context())).Info("Starting the agent for the literature review task")
	s.runAgent(w, r, input)
}

func (s *Server) runAgent(w http.ResponseWriter, r *http.Request, query string) {
	result, err := s.agent.Execute(r.Context(), agent.AgentRequest{Query: query})
	if err != nil {
		log.GetLogger().With("request_id", RequestID(r.Context())).Error("Agent run failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	body := resultBody{
		Input:  result.Input,
		Output: result.Output,
	}
	if verbose, _ := strconv.ParseBool(r.URL.Query().Get("verbose")); verbose {
		body.Steps = make([]stepBody, 0, len(result.Steps))
		for _, step := range result.Steps {
			body.Steps = append(body.Steps, stepBody{
				Tool:        step.Action.Tool,
				Input:       step.Action.Input,
				Observation: step.Observation.Content,
				Failed:      step.Observation.Failed,
			})
		}
	}
	writeJSON(w, http.StatusOK, agentResponse{Result: body})
}

// literatureReviewInput embeds the paper as JSON so the model can pass it
// straight to the relevance tool.
func literatureReviewInput(req literatureReviewQuery) (string, error) {
	paper := *req.Data
	if strings.TrimSpace(paper.Title) == "" || strings.TrimSpace(paper.Abstract) == "" {
		return "", fmt.Errorf("data.title and data.abstract are required")
	}
	if strings.TrimSpace(paper.Query) == "" {
		paper.Query = req.Query
	}

	details, err := json.Marshal(paper)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\n\nResearch paper details: %s", req.Query, details), nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"detail": msg,
	})
}
