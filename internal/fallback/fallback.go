// Package fallback produces replies for questions the FAQ corpus cannot answer
// with confidence.
package fallback

import (
	"context"
	"errors"
	"fmt"

	"faqagent/internal/domain"
)

// DefaultMessage is the static reply used when no generator is available.
const DefaultMessage = "I may not have that specific detail in my FAQ set. " +
	"If your question is about Thoughtful AI’s agents (EVA, CAM, PHIL) or their benefits, " +
	"try asking using those names. Otherwise, share a bit more context and I’ll do my best to help."

// Generator kinds accepted by New.
const (
	KindAuto   = "auto"
	KindOpenAI = "openai"
	KindNone   = "none"
)

// ErrMissingAPIKey is returned when the openai generator is requested without a key.
var ErrMissingAPIKey = errors.New("missing API key")

// Generic is the static fallback. It never fails.
type Generic struct {
	Message string
}

// Respond returns the configured message, or DefaultMessage when unset.
func (g Generic) Respond(string) string {
	if g.Message == "" {
		return DefaultMessage
	}
	return g.Message
}

// Null is a generator that is never available.
type Null struct{}

// Generate always reports the generator as unavailable.
func (Null) Generate(context.Context, string) (string, bool) { return "", false }

// New selects a generator. "auto" uses OpenAI when cfg carries an API key and
// Null otherwise; "openai" requires a key; "none" is always Null.
func New(kind string, cfg *Config) (domain.Generator, error) {
	hasKey := cfg != nil && cfg.APIKey != ""
	switch kind {
	case KindAuto, "":
		if hasKey {
			return NewOpenAI(cfg), nil
		}
		return Null{}, nil
	case KindOpenAI:
		if !hasKey {
			return nil, fmt.Errorf("openai generator: %w", ErrMissingAPIKey)
		}
		return NewOpenAI(cfg), nil
	case KindNone:
		return Null{}, nil
	default:
		return nil, fmt.Errorf("unknown fallback generator %q", kind)
	}
}
