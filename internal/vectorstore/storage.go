package vectorstore

import (
	"faqagent/internal/domain"
	"faqagent/internal/embedding/tfidf"
)

// Storage holds the fitted corpus vectors and ranks them against a query vector.
type Storage interface {
	Len() int
	Search(vector tfidf.Vector, topK int) []domain.QueryResult
	Best(vector tfidf.Vector) domain.QueryResult
}
