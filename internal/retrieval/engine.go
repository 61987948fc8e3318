// Package retrieval matches free-text questions against a fixed FAQ corpus.
package retrieval

import (
	"fmt"
	"strings"

	"faqagent/internal/domain"
	"faqagent/internal/embedding/tfidf"
	"faqagent/internal/vectorstore"
	"faqagent/internal/vectorstore/memory"
)

// Engine scores queries against the corpus questions in a TF-IDF space fitted
// at construction. It is immutable and safe for concurrent use.
type Engine struct {
	corpus     domain.Corpus
	vectorizer *tfidf.Vectorizer
	store      vectorstore.Storage
}

// New fits the vector space over the corpus questions.
// An empty corpus fails with a *domain.ConfigurationError.
func New(corpus domain.Corpus) (*Engine, error) {
	if corpus.Len() == 0 {
		return nil, &domain.ConfigurationError{Reason: domain.ReasonEmptyCorpus}
	}
	questions := corpus.Questions()
	vz, err := tfidf.Fit(questions)
	if err != nil {
		return nil, err
	}
	vectors := make([]tfidf.Vector, len(questions))
	for i, q := range questions {
		vectors[i] = vz.Transform(q)
	}
	store, err := memory.NewStorage(corpus.Entries(), vectors)
	if err != nil {
		return nil, fmt.Errorf("load vector store: %w", err)
	}
	return &Engine{corpus: corpus, vectorizer: vz, store: store}, nil
}

// Corpus returns the corpus the engine was built from.
func (e *Engine) Corpus() domain.Corpus { return e.corpus }

// Dimension returns the size of the fitted vocabulary.
func (e *Engine) Dimension() int { return e.vectorizer.Dimension() }

// Query returns the best matching entry, or nil when text is blank.
// A query sharing no vocabulary with the corpus still yields the first entry
// with score 0.
func (e *Engine) Query(text string) *domain.QueryResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	best := e.store.Best(e.vectorizer.Transform(text))
	return &best
}

// Search returns up to topK ranked candidates for text.
func (e *Engine) Search(text string, topK int) []domain.QueryResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return e.store.Search(e.vectorizer.Transform(text), topK)
}

// Answer runs Query and applies the confidence gate.
func (e *Engine) Answer(text string, threshold float64) (*domain.QueryResult, bool) {
	return Decide(e.Query(text), threshold)
}
