package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	gochi "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"faqagent/internal/domain"
	logpkg "faqagent/internal/logger"
	"faqagent/internal/metrics"
	"faqagent/internal/service"
)

const (
	defaultTopK = 5
	maxTopK     = 50

	maxAnswerBodyBytes = 64 << 10
)

// Agent is the reply boundary used by the answer endpoint.
type Agent interface {
	Threshold() float64
	ReplyWithThreshold(ctx context.Context, message string, threshold float64) service.Reply
}

// Index exposes ranked candidates and the corpus.
type Index interface {
	Search(text string, topK int) []domain.QueryResult
	Corpus() domain.Corpus
}

// Server serves the agent over JSON HTTP.
type Server struct {
	agent  Agent
	index  Index
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(agent Agent, index Index, logger *zap.Logger) *Server {
	return &Server{agent: agent, index: index, logger: logger}
}

// Router builds the chi router with middleware and all routes.
func (s *Server) Router() http.Handler {
	r := gochi.NewRouter()
	r.Use(Recoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(s.logger))
	r.Use(metrics.Middleware())

	r.Get("/health", s.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/v1", func(r gochi.Router) {
		r.Post("/answer", s.Answer)
		r.Get("/search", s.Search)
		r.Get("/faq", s.ListFAQ)
	})
	return r
}

type answerRequest struct {
	Question  string   `json:"question"`
	Threshold *float64 `json:"threshold,omitempty"`
}

type matchResponse struct {
	Index    int     `json:"index"`
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score"`
}

type answerResponse struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Confident bool           `json:"confident"`
	Source    string         `json:"source"`
	Match     *matchResponse `json:"match,omitempty"`
}

type searchResponse struct {
	Query   string          `json:"query"`
	Results []matchResponse `json:"results"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Answer handles POST /v1/answer.
func (s *Server) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxAnswerBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request_too_large", "request body exceeds 64 KiB")
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	threshold := s.agent.Threshold()
	if req.Threshold != nil {
		if *req.Threshold < 0 || *req.Threshold > 1 {
			writeError(w, http.StatusBadRequest, "validation_failed", "threshold must be within [0, 1]")
			return
		}
		threshold = *req.Threshold
	}

	reply := s.agent.ReplyWithThreshold(r.Context(), req.Question, threshold)
	logpkg.FromContext(r.Context()).Debug("answered",
		zap.String("reply_id", reply.ID),
		zap.String("source", string(reply.Source)),
	)

	resp := answerResponse{
		ID:        reply.ID,
		Text:      reply.Text,
		Confident: reply.Confident,
		Source:    string(reply.Source),
	}
	if reply.Match != nil {
		m := matchToResponse(*reply.Match)
		resp.Match = &m
	}
	writeJSON(w, http.StatusOK, resp)
}

// Search handles GET /v1/search?q=&k=.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	k := defaultTopK
	if raw := r.URL.Query().Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxTopK {
			writeError(w, http.StatusBadRequest, "validation_failed", "k must be an integer in [1, 50]")
			return
		}
		k = n
	}

	results := s.index.Search(q, k)
	resp := searchResponse{Query: q, Results: make([]matchResponse, 0, len(results))}
	for _, res := range results {
		resp.Results = append(resp.Results, matchToResponse(res))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListFAQ handles GET /v1/faq.
func (s *Server) ListFAQ(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"entries": s.index.Corpus().Entries()})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"entries": s.index.Corpus().Len(),
	})
}

func matchToResponse(r domain.QueryResult) matchResponse {
	return matchResponse{
		Index:    r.Index,
		Question: r.Entry.Question,
		Answer:   r.Entry.Answer,
		Score:    r.Score,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
