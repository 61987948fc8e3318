package tfidf

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"faqagent/internal/domain"
)

// Vectorizer is a TF-IDF model fitted once over a fixed set of documents.
// Features are unigrams and adjacent bigrams of stop-word-filtered tokens.
// It is read-only after Fit.
type Vectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Fit builds the vocabulary and IDF values from docs.
func Fit(docs []string) (*Vectorizer, error) {
	if len(docs) == 0 {
		return nil, &domain.ConfigurationError{Reason: domain.ReasonEmptyCorpus}
	}
	// Build document frequencies
	df := make(map[string]int)
	for _, text := range docs {
		seen := make(map[string]struct{})
		for _, f := range Analyze(text) {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			df[f]++
		}
	}
	if len(df) == 0 {
		return nil, &domain.ConfigurationError{Reason: domain.ReasonEmptyVocabulary}
	}
	// Create stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v := &Vectorizer{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for i, term := range terms {
		v.vocabulary[term] = i
		// Smoothed IDF
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return v, nil
}

// Dimension returns the vocabulary size.
func (v *Vectorizer) Dimension() int { return len(v.idf) }

// Index returns the vocabulary position of a feature.
func (v *Vectorizer) Index(feature string) (int, bool) {
	i, ok := v.vocabulary[feature]
	return i, ok
}

// IDF returns the inverse document frequency at vocabulary position i.
func (v *Vectorizer) IDF(i int) float64 { return v.idf[i] }

// Transform projects text into the fitted space. Features outside the
// vocabulary are dropped. The result is L2-normalized, or empty when no
// feature is known.
func (v *Vectorizer) Transform(text string) Vector {
	counts := make(map[int]int)
	for _, f := range Analyze(text) {
		if idx, ok := v.vocabulary[f]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return Vector{}
	}
	vec := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)
	norm := 0.0
	for _, idx := range vec.Indices {
		w := float64(counts[idx]) * v.idf[idx]
		vec.Values = append(vec.Values, w)
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for i := range vec.Values {
		vec.Values[i] /= norm
	}
	return vec
}

// Analyze returns the features of text in order of appearance: every
// unigram followed by the bigrams of adjacent filtered tokens.
func Analyze(text string) []string {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(tokens)-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// Tokenize lowercases text and returns word tokens of two or more
// characters with English stop words removed.
func Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if IsStopWord(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
