package domain

import "context"

// FAQEntry is a single static question/answer pair.
type FAQEntry struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// Corpus is an immutable ordered sequence of FAQ entries.
// An entry's identity is its position.
type Corpus struct {
	entries []FAQEntry
}

// NewCorpus copies entries into a new corpus.
func NewCorpus(entries []FAQEntry) Corpus {
	cp := make([]FAQEntry, len(entries))
	copy(cp, entries)
	return Corpus{entries: cp}
}

// Len returns the number of entries.
func (c Corpus) Len() int { return len(c.entries) }

// At returns the entry at index i.
func (c Corpus) At(i int) FAQEntry { return c.entries[i] }

// Entries returns a copy of the entries in corpus order.
func (c Corpus) Entries() []FAQEntry {
	cp := make([]FAQEntry, len(c.entries))
	copy(cp, c.entries)
	return cp
}

// Questions returns the questions in corpus order.
func (c Corpus) Questions() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Question
	}
	return out
}

// QueryResult is the best corpus entry for a query and its cosine similarity.
type QueryResult struct {
	Entry FAQEntry
	Index int
	Score float64
}

// Source identifies what produced a reply.
type Source string

const (
	SourceFAQ     Source = "faq"
	SourceLLM     Source = "llm"
	SourceGeneric Source = "generic"
	SourcePrompt  Source = "prompt"
)

// Generator produces fallback text for a question the corpus cannot answer.
// ok is false when the generator is not configured or the call failed.
type Generator interface {
	Generate(ctx context.Context, text string) (reply string, ok bool)
}
