package summarizer

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"faqagent/internal/embedding/tfidf"
)

// TopicSummarizer picks the terms that best describe what a corpus covers.
// Acronyms (EVA, CAM) come first in order of appearance, then the remaining
// terms by document frequency.
type TopicSummarizer struct {
	tokenPattern *regexp.Regexp
}

// NewTopicSummarizer creates a topic summarizer.
func NewTopicSummarizer() *TopicSummarizer {
	return &TopicSummarizer{tokenPattern: regexp.MustCompile(`[\p{L}\p{N}]{2,}`)}
}

type term struct {
	surface string
	first   int
	df      int
	acronym bool
}

// Topics returns up to limit terms from docs, keeping the surface casing of
// their first occurrence.
func (s *TopicSummarizer) Topics(docs []string, limit int) []string {
	if limit <= 0 {
		limit = 3
	}
	terms := map[string]*term{}
	order := 0
	for _, doc := range docs {
		seen := map[string]struct{}{}
		for _, tok := range s.tokenPattern.FindAllString(doc, -1) {
			key := strings.ToLower(tok)
			if tfidf.IsStopWord(key) {
				continue
			}
			t, ok := terms[key]
			if !ok {
				t = &term{surface: tok, first: order}
				terms[key] = t
				order++
			}
			if isAcronym(tok) {
				t.acronym = true
			}
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				t.df++
			}
		}
	}

	ranked := make([]*term, 0, len(terms))
	for _, t := range terms {
		ranked = append(ranked, t)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.acronym != b.acronym {
			return a.acronym
		}
		if !a.acronym && a.df != b.df {
			return a.df > b.df
		}
		return a.first < b.first
	})
	if limit > len(ranked) {
		limit = len(ranked)
	}
	out := make([]string, limit)
	for i := range out {
		out[i] = ranked[i].surface
	}
	return out
}

// Welcome builds the one-line introduction shown before the first question.
func (s *TopicSummarizer) Welcome(docs []string, limit int) string {
	topics := s.Topics(docs, limit)
	if len(topics) == 0 {
		return "Ask a question."
	}
	return "Ask about " + strings.Join(topics, ", ") + ", or anything else in the FAQ."
}

func isAcronym(tok string) bool {
	letters := 0
	for _, r := range tok {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= 2
}
