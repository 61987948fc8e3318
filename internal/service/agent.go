package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"faqagent/internal/domain"
	"faqagent/internal/metrics"
)

// EmptyPrompt is the reply to a blank message.
const EmptyPrompt = "Please type a question (e.g., “What does EVA do?”)."

// Retriever is the retrieval boundary the agent answers from.
type Retriever interface {
	Answer(text string, threshold float64) (*domain.QueryResult, bool)
}

// Responder is the static fallback; it never fails.
type Responder interface {
	Respond(text string) string
}

// Reply is one agent turn.
type Reply struct {
	ID        string
	Text      string
	Match     *domain.QueryResult
	Confident bool
	Source    domain.Source
}

// Agent answers each message independently: a confident FAQ match is
// returned directly, otherwise the generator or the static fallback replies.
type Agent struct {
	retriever Retriever
	generator domain.Generator
	generic   Responder
	threshold float64
	logger    *zap.Logger
}

// NewAgent wires an agent. A nil generator behaves as never available.
func NewAgent(retriever Retriever, generator domain.Generator, generic Responder, threshold float64, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{
		retriever: retriever,
		generator: generator,
		generic:   generic,
		threshold: threshold,
		logger:    logger,
	}
}

// Threshold returns the default confidence threshold.
func (a *Agent) Threshold() float64 { return a.threshold }

// Answer is the retrieval boundary: the best match and whether it is confident.
func (a *Agent) Answer(text string, threshold float64) (*domain.QueryResult, bool) {
	return a.retriever.Answer(text, threshold)
}

// Reply answers message at the agent's default threshold.
func (a *Agent) Reply(ctx context.Context, message string) Reply {
	return a.ReplyWithThreshold(ctx, message, a.threshold)
}

// ReplyWithThreshold answers message using threshold for the confidence gate.
func (a *Agent) ReplyWithThreshold(ctx context.Context, message string, threshold float64) Reply {
	reply := a.compose(ctx, strings.TrimSpace(message), threshold)
	reply.ID = uuid.NewString()

	metrics.RepliesTotal.WithLabelValues(string(reply.Source)).Inc()
	fields := []zap.Field{
		zap.String("reply_id", reply.ID),
		zap.String("source", string(reply.Source)),
		zap.Bool("confident", reply.Confident),
	}
	if reply.Match != nil {
		fields = append(fields, zap.Int("match_index", reply.Match.Index), zap.Float64("score", reply.Match.Score))
	}
	a.logger.Info("reply", fields...)
	return reply
}

func (a *Agent) compose(ctx context.Context, message string, threshold float64) Reply {
	if message == "" {
		metrics.QueriesTotal.WithLabelValues("empty").Inc()
		return Reply{Text: EmptyPrompt, Source: domain.SourcePrompt}
	}

	match, confident := a.retriever.Answer(message, threshold)
	if match != nil {
		metrics.MatchScore.Observe(match.Score)
	}
	if match != nil && confident {
		metrics.QueriesTotal.WithLabelValues("confident").Inc()
		return Reply{
			Text:      FormatAnswer(match.Entry.Answer, match),
			Match:     match,
			Confident: true,
			Source:    domain.SourceFAQ,
		}
	}
	metrics.QueriesTotal.WithLabelValues("unconfident").Inc()

	text, source := a.fallback(ctx, message)
	// the closest entry is shown for transparency even when unconfident
	return Reply{
		Text:   FormatAnswer(text, match),
		Match:  match,
		Source: source,
	}
}

func (a *Agent) fallback(ctx context.Context, message string) (string, domain.Source) {
	if a.generator != nil {
		if text, ok := a.generator.Generate(ctx, message); ok && strings.TrimSpace(text) != "" {
			return text, domain.SourceLLM
		}
	}
	return a.generic.Respond(message), domain.SourceGeneric
}

// FormatAnswer appends the matched question and its score to answer. A nil
// match leaves answer unchanged.
func FormatAnswer(answer string, match *domain.QueryResult) string {
	if match == nil {
		return answer
	}
	return fmt.Sprintf("%s\n\nMatched FAQ: “%s”\nConfidence: %.2f", answer, match.Entry.Question, match.Score)
}
