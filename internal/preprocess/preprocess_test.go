package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocess_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	text := "Generative AI models, such as GPT-4, are transforming research!"

	first := Preprocess(text, cfg)
	second := Preprocess(text, cfg)

	assert.Equal(t, first, second)
}

func TestPreprocess_RemovesStopwordsAndPunctuation(t *testing.T) {
	cfg := DefaultConfig()
	tokens := Preprocess("The model is trained on large datasets.", cfg)

	assert.NotContains(t, tokens, "the")
	assert.NotContains(t, tokens, "is")
	for _, tok := range tokens {
		assert.NotContains(t, tok, ".")
	}
}

func TestPreprocess_RemovesURLsEmailsNumbers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RemoveStopwords = false
	cfg.Lemmatize = false
	tokens := Preprocess("Visit https://example.com or email me@example.com, 42 times", cfg)

	for _, tok := range tokens {
		assert.NotContains(t, tok, "http")
		assert.NotContains(t, tok, "@")
		assert.NotEqual(t, "42", tok)
	}
}

func TestPreprocess_MinTokenLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinTokenLength = 4
	tokens := Preprocess("a an ok fine transformer", cfg)

	for _, tok := range tokens {
		assert.GreaterOrEqual(t, len([]rune(tok)), 4)
	}
}

func TestPreprocess_NgramRange(t *testing.T) {
	cfg := Config{
		Lowercase:  true,
		Tokenizer:  TokenizerWord,
		NgramRange: [2]int{1, 2},
	}
	tokens := Preprocess("deep learning models", cfg)

	assert.Contains(t, tokens, "deep")
	assert.Contains(t, tokens, "deep learning")
	assert.Contains(t, tokens, "learning models")
}

func TestPreprocess_EmptyInput(t *testing.T) {
	tokens := Preprocess("   ", DefaultConfig())
	assert.Nil(t, tokens)
}

func TestLemmatize(t *testing.T) {
	cases := map[string]string{
		"studies":  "study",
		"running":  "run",
		"models":   "model",
		"analyses": "analys",
	}
	for input, want := range cases {
		assert.Equal(t, want, Lemmatize(input), "input=%s", input)
	}
}
