package tfidf

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"faqagent/internal/domain"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"stop words dropped", "What does EVA do?", []string{"does", "eva"}},
		{"single letters dropped", "a b c word", []string{"word"}},
		{"punctuation splits", "claims-processing, agent!", []string{"claims", "processing", "agent"}},
		{"digits kept", "HTTP 404 error", []string{"http", "404", "error"}},
		{"only stop words", "what is the", nil},
		{"empty", "   ", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Tokenize(tc.in)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestAnalyze_UnigramsThenBigrams(t *testing.T) {
	got := Analyze("How do I reset my password now?")
	want := []string{"reset", "password", "reset password"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Analyze = %v, want %v", got, want)
	}
}

func TestAnalyze_BigramsSkipStopWords(t *testing.T) {
	// "of" is removed before bigrams are formed
	got := Analyze("benefits of agents")
	want := []string{"benefits", "agents", "benefits agents"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Analyze = %v, want %v", got, want)
	}
}

func TestFit_EmptyCorpus(t *testing.T) {
	_, err := Fit(nil)
	var cfgErr *domain.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Reason != domain.ReasonEmptyCorpus {
		t.Errorf("reason = %q, want %q", cfgErr.Reason, domain.ReasonEmptyCorpus)
	}
}

func TestFit_EmptyVocabulary(t *testing.T) {
	_, err := Fit([]string{"what is the", "how are you"})
	var cfgErr *domain.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Reason != domain.ReasonEmptyVocabulary {
		t.Errorf("reason = %q, want %q", cfgErr.Reason, domain.ReasonEmptyVocabulary)
	}
}

func TestFit_SmoothedIDF(t *testing.T) {
	v, err := Fit([]string{"apple banana", "apple cherry"})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	// unigrams apple, banana, cherry + bigrams "apple banana", "apple cherry"
	if v.Dimension() != 5 {
		t.Fatalf("Dimension = %d, want 5", v.Dimension())
	}
	apple, ok := v.Index("apple")
	if !ok {
		t.Fatal("apple missing from vocabulary")
	}
	if got := v.IDF(apple); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("idf(apple) = %v, want 1", got)
	}
	banana, _ := v.Index("banana")
	want := math.Log(3.0/2.0) + 1
	if got := v.IDF(banana); math.Abs(got-want) > 1e-12 {
		t.Errorf("idf(banana) = %v, want %v", got, want)
	}
}

func TestFit_VocabularySorted(t *testing.T) {
	v, err := Fit([]string{"zebra apple"})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	a, _ := v.Index("apple")
	z, _ := v.Index("zebra")
	if a >= z {
		t.Errorf("expected lexical order, apple=%d zebra=%d", a, z)
	}
}

func TestTransform(t *testing.T) {
	v, err := Fit([]string{"claims processing agent", "payment posting agent"})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	t.Run("unit length", func(t *testing.T) {
		vec := v.Transform("claims agent")
		if got := Dot(vec, vec); math.Abs(got-1) > 1e-9 {
			t.Errorf("|v|^2 = %v, want 1", got)
		}
	})

	t.Run("unseen terms dropped", func(t *testing.T) {
		vec := v.Transform("weather forecast")
		if !vec.IsZero() {
			t.Errorf("expected zero vector, got %+v", vec)
		}
		if v.Dimension() != 9 {
			t.Errorf("vocabulary changed after Transform: %d", v.Dimension())
		}
	})

	t.Run("indices increasing", func(t *testing.T) {
		vec := v.Transform("payment posting claims processing")
		for i := 1; i < len(vec.Indices); i++ {
			if vec.Indices[i] <= vec.Indices[i-1] {
				t.Fatalf("indices not increasing: %v", vec.Indices)
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		a := v.Transform("payment agent")
		b := v.Transform("payment agent")
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Transform not deterministic: %+v vs %+v", a, b)
		}
	})
}

func TestDot(t *testing.T) {
	a := Vector{Indices: []int{0, 2, 5}, Values: []float64{1, 2, 3}}
	b := Vector{Indices: []int{2, 3, 5}, Values: []float64{4, 1, 2}}
	if got := Dot(a, b); got != 14 {
		t.Errorf("Dot = %v, want 14", got)
	}
	if got := Dot(a, Vector{}); got != 0 {
		t.Errorf("Dot with zero = %v, want 0", got)
	}
}
