package memory

import (
	"errors"
	"sort"

	"faqagent/internal/domain"
	"faqagent/internal/embedding/tfidf"
	"faqagent/internal/vectorstore"
)

var _ vectorstore.Storage = (*Storage)(nil)

// Storage is a read-only in-memory vector store using brute-force cosine similarity.
// It is safe for concurrent use because nothing is written after NewStorage.
type Storage struct {
	entries []domain.FAQEntry
	vectors []tfidf.Vector
}

// NewStorage loads entries and their vectors. vectors[i] belongs to entries[i].
func NewStorage(entries []domain.FAQEntry, vectors []tfidf.Vector) (*Storage, error) {
	if len(entries) != len(vectors) {
		return nil, errors.New("entries and vectors length mismatch")
	}
	if len(entries) == 0 {
		return nil, errors.New("no entries")
	}
	s := &Storage{
		entries: make([]domain.FAQEntry, len(entries)),
		vectors: make([]tfidf.Vector, len(vectors)),
	}
	copy(s.entries, entries)
	copy(s.vectors, vectors)
	return s, nil
}

func (s *Storage) Len() int { return len(s.entries) }

// Search returns up to topK entries by descending score. Equal scores keep
// corpus order.
func (s *Storage) Search(vector tfidf.Vector, topK int) []domain.QueryResult {
	if topK <= 0 {
		topK = 5
	}
	// vectors are L2-normalized, so the dot product is the cosine
	scores := s.scores(vector)
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.QueryResult, 0, topK)
	for _, j := range idxs[:topK] {
		results = append(results, s.result(j, scores[j]))
	}
	return results
}

// Best returns the highest scoring entry; the lowest index wins ties.
func (s *Storage) Best(vector tfidf.Vector) domain.QueryResult {
	scores := s.scores(vector)
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return s.result(best, scores[best])
}

func (s *Storage) scores(vector tfidf.Vector) []float64 {
	scores := make([]float64, len(s.vectors))
	if vector.IsZero() {
		return scores
	}
	for i := range s.vectors {
		scores[i] = tfidf.Dot(s.vectors[i], vector)
	}
	return scores
}

func (s *Storage) result(i int, score float64) domain.QueryResult {
	return domain.QueryResult{Entry: s.entries[i], Index: i, Score: score}
}
