package httpapi

import (
	"context"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/cors"

	"github.com/MimeLyc/research-agent/internal/agent"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type Server struct {
	agent agent.Agent

	allowedOrigins []string

	mux     *http.ServeMux
	handler http.Handler
	server  *http.Server
}

type Option func(*Server)

// WithAllowedOrigins sets the CORS allow list. Empty allows every origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

func NewServer(a agent.Agent, opts ...Option) *Server {
	s := &Server{
		agent:          a,
		allowedOrigins: []string{"*"},
		mux:            http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()

	c := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
	})
	s.handler = withRequestID(c.Handler(withRecovery(s.mux)))
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/agent", s.handleAgent)
	s.mux.HandleFunc("/literature_review", s.handleLiteratureReview)
	s.mux.HandleFunc("/", s.handleHealth)
}
