// Package preprocess implements the shared text preprocessor: a pure,
// stateless transformer parameterized by a Config. Same input and config
// always yields the same output token sequence.
package preprocess

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tokenizer selects how raw text is split into units before filtering.
type Tokenizer string

const (
	TokenizerWord      Tokenizer = "word"
	TokenizerCharacter Tokenizer = "character"
)

// Config parameterizes Preprocess. The zero value is a usable, minimal
// configuration (no normalization, whitespace word split only); use
// DefaultConfig for the full pipeline.
type Config struct {
	Lowercase            bool
	StripAccents         bool
	RemoveURLsEmailsNums bool
	RemovePunctuation    bool
	Tokenizer            Tokenizer
	RemoveStopwords      bool
	Lemmatize            bool
	MinTokenLength        int
	NgramRange           [2]int // [a, b]; a<=b, both >=1
	StopwordSet          map[string]struct{} // nil -> DefaultStopwords()
}

// DefaultConfig returns the full English + domain-technical preprocessing
// configurable normalization pipeline.
func DefaultConfig() Config {
	return Config{
		Lowercase:            true,
		StripAccents:         true,
		RemoveURLsEmailsNums: true,
		RemovePunctuation:    true,
		Tokenizer:            TokenizerWord,
		RemoveStopwords:      true,
		Lemmatize:            true,
		MinTokenLength:       2,
		NgramRange:           [2]int{1, 1},
	}
}

var (
	urlRegex   = regexp.MustCompile(`https?://\S+|www\.\S+`)
	emailRegex = regexp.MustCompile(`[[:alnum:].+-]+@[[:alnum:].-]+\.[[:alpha:]]{2,}`)
	numberRegex = regexp.MustCompile(`\b\d+(\.\d+)?\b`)
	punctRegex  = regexp.MustCompile(`[^\p{L}\p{N}\s-]+`)
	hyphenEdgeRegex = regexp.MustCompile(`(^-+|-+$)`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Preprocess runs text through the configured pipeline and returns an
// ordered sequence of tokens (n-grams joined by a single space when
// cfg.NgramRange spans more than unigrams).
func Preprocess(text string, cfg Config) []string {
	if cfg.NgramRange == [2]int{0, 0} {
		cfg.NgramRange = [2]int{1, 1}
	}

	s := text

	if cfg.Lowercase {
		s = strings.ToLower(s)
	}
	if cfg.StripAccents {
		s = stripAccents(s)
	}
	if cfg.RemoveURLsEmailsNums {
		s = urlRegex.ReplaceAllString(s, " ")
		s = emailRegex.ReplaceAllString(s, " ")
		s = numberRegex.ReplaceAllString(s, " ")
	}
	if cfg.RemovePunctuation {
		s = punctRegex.ReplaceAllString(s, " ")
		s = hyphenEdgeRegex.ReplaceAllString(s, "")
	}
	s = whitespaceRegex.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if s == "" {
		return nil
	}

	var units []string
	switch cfg.Tokenizer {
	case TokenizerCharacter:
		for _, r := range strings.ReplaceAll(s, " ", "") {
			units = append(units, string(r))
		}
	default:
		units = strings.Fields(s)
	}

	stopwords := cfg.StopwordSet
	if stopwords == nil && cfg.RemoveStopwords {
		stopwords = DefaultStopwords()
	}

	filtered := make([]string, 0, len(units))
	for _, u := range units {
		if cfg.RemoveStopwords && cfg.Tokenizer == TokenizerWord {
			if _, isStop := stopwords[u]; isStop {
				continue
			}
		}
		if cfg.Lemmatize && cfg.Tokenizer == TokenizerWord {
			u = Lemmatize(u)
		}
		if len([]rune(u)) < cfg.MinTokenLength {
			continue
		}
		filtered = append(filtered, u)
	}

	a, b := cfg.NgramRange[0], cfg.NgramRange[1]
	if a < 1 {
		a = 1
	}
	if b < a {
		b = a
	}
	if a == 1 && b == 1 {
		return filtered
	}
	return nGrams(filtered, a, b)
}

// nGrams emits every contiguous n-gram of filtered for n in [a,b], joined
// with a single space, in left-to-right order grouped by starting index.
func nGrams(tokens []string, a, b int) []string {
	var out []string
	for i := range tokens {
		for n := a; n <= b; n++ {
			if i+n > len(tokens) {
				continue
			}
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// stripAccents normalizes accented characters to their closest ASCII form
// (NFD decomposition with combining marks removed).
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
