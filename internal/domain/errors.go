package domain

// ConfigurationError reports a corpus that cannot back a retrieval engine.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "configuration error: " + e.Reason }

// Configuration error reasons.
const (
	ReasonEmptyCorpus     = "empty corpus"
	ReasonEmptyVocabulary = "empty vocabulary"
)
