// Package corpus loads the static FAQ entries the agent answers from.
package corpus

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"faqagent/internal/domain"
)

//go:embed faq.yaml
var defaultFAQ []byte

type file struct {
	Entries []domain.FAQEntry `yaml:"entries"`
}

// Default returns the built-in FAQ corpus.
func Default() (domain.Corpus, error) {
	c, err := Parse(defaultFAQ)
	if err != nil {
		return domain.Corpus{}, fmt.Errorf("built-in corpus: %w", err)
	}
	return c, nil
}

// Load reads a YAML corpus file of the form {entries: [{question, answer}]}.
func Load(path string) (domain.Corpus, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return domain.Corpus{}, fmt.Errorf("read corpus %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return domain.Corpus{}, fmt.Errorf("corpus %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML corpus data. Entries keep file order and duplicates are
// kept. An empty entry list is not an error here; the retrieval engine
// rejects it.
func Parse(data []byte) (domain.Corpus, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.Corpus{}, fmt.Errorf("parse: %w", err)
	}
	for i, e := range f.Entries {
		if strings.TrimSpace(e.Question) == "" {
			return domain.Corpus{}, fmt.Errorf("entry %d: question is blank", i)
		}
	}
	return domain.NewCorpus(f.Entries), nil
}
