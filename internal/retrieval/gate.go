package retrieval

import "faqagent/internal/domain"

// DefaultThreshold is the minimum score for a confident match. Values between
// 0.20 and 0.30 work well for small FAQ sets.
const DefaultThreshold = 0.22

// Decide reports whether result is confident at threshold. The result is
// returned either way so callers can show it as a hint.
func Decide(result *domain.QueryResult, threshold float64) (*domain.QueryResult, bool) {
	if result == nil {
		return nil, false
	}
	return result, result.Score >= threshold
}
