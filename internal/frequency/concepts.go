// Package frequency implements the predefined-concept counter and the
// automatic keyword extractor , sharing internal/preprocess
// with the similarity and clustering engines.
package frequency

import (
	"sort"
	"strings"

	"bibliometric-api/internal/core"
)

// Concept is a reference-vocabulary term, optionally with alternative
// surface forms ("variants") that should be folded into the same count.
type Concept struct {
	Name     string   `json:"name"`
	Variants []string `json:"variants,omitempty"`
	Category string   `json:"category,omitempty"`
}

// DefaultContextWindow is the number of tokens reported on each side of a
// concept occurrence, per the documented default W=5.
const DefaultContextWindow = 5

// DefaultMaxContextsPerDoc bounds how many context windows are retained
// per document for a single concept, keeping ConceptFrequency small for
// high-frequency concepts.
const DefaultMaxContextsPerDoc = 3

// PredefinedConcepts returns the reference vocabulary for the configured
// domain (default: generative artificial intelligence), grouped by
// category. It is immutable after process start.
func PredefinedConcepts() []Concept {
	return []Concept{
		{Name: "machine learning", Variants: []string{"ml"}, Category: "foundations"},
		{Name: "deep learning", Variants: []string{"dl"}, Category: "foundations"},
		{Name: "neural network", Variants: []string{"neural networks", "ann"}, Category: "foundations"},
		{Name: "transformer", Variants: []string{"transformers"}, Category: "architectures"},
		{Name: "attention mechanism", Variants: []string{"self-attention", "attention"}, Category: "architectures"},
		{Name: "large language model", Variants: []string{"llm", "llms"}, Category: "generative ai"},
		{Name: "generative adversarial network", Variants: []string{"gan", "gans"}, Category: "generative ai"},
		{Name: "diffusion model", Variants: []string{"diffusion models"}, Category: "generative ai"},
		{Name: "prompt engineering", Variants: nil, Category: "generative ai"},
		{Name: "fine-tuning", Variants: []string{"finetuning", "fine tuning"}, Category: "training"},
		{Name: "reinforcement learning from human feedback", Variants: []string{"rlhf"}, Category: "training"},
		{Name: "transfer learning", Variants: nil, Category: "training"},
		{Name: "text generation", Variants: nil, Category: "applications"},
		{Name: "image generation", Variants: nil, Category: "applications"},
		{Name: "natural language processing", Variants: []string{"nlp"}, Category: "applications"},
		{Name: "bias", Variants: []string{"biases", "algorithmic bias"}, Category: "ethics"},
		{Name: "hallucination", Variants: []string{"hallucinations"}, Category: "ethics"},
		{Name: "explainability", Variants: []string{"interpretability"}, Category: "ethics"},
	}
}

// AnalyzeConcepts scans corpus (one entry per abstract) for each concept's
// occurrences (including variants), case-insensitively and respecting
// word boundaries, over the non-stopword-removed preprocessed text, per
// a fixed window around each match. Order of the returned slice matches the order of
// concepts passed in.
func AnalyzeConcepts(corpus []string, concepts []Concept, window int) []core.ConceptFrequency {
	if window <= 0 {
		window = DefaultContextWindow
	}

	docTokens := make([][]string, len(corpus))
	for i, doc := range corpus {
		docTokens[i] = tokenizeKeepingStopwords(doc)
	}

	results := make([]core.ConceptFrequency, 0, len(concepts))
	for _, concept := range concepts {
		surfaceForms := surfaceFormsOf(concept)
		freq := core.ConceptFrequency{Concept: concept.Name}

		for docIdx, tokens := range docTokens {
			occurrencesInDoc := 0
			windowsInDoc := 0
			for _, form := range surfaceForms {
				formTokens := strings.Fields(form)
				if len(formTokens) == 0 {
					continue
				}
				positions := findTokenSequence(tokens, formTokens)
				occurrencesInDoc += len(positions)
				for _, pos := range positions {
					if windowsInDoc >= DefaultMaxContextsPerDoc {
						continue
					}
					freq.ContextWindows = append(freq.ContextWindows, contextWindow(tokens, pos, len(formTokens), window))
					windowsInDoc++
				}
			}
			if occurrencesInDoc > 0 {
				freq.TotalOccurrences += occurrencesInDoc
				freq.DocumentFrequency++
				freq.DocumentIndices = append(freq.DocumentIndices, docIdx)
			}
		}

		if len(corpus) > 0 {
			freq.RelativeFrequency = float64(freq.DocumentFrequency) / float64(len(corpus))
		}
		results = append(results, freq)
	}
	return results
}

// surfaceFormsOf returns the concept's name plus all variants, lowercased.
func surfaceFormsOf(c Concept) []string {
	forms := make([]string, 0, 1+len(c.Variants))
	forms = append(forms, strings.ToLower(strings.TrimSpace(c.Name)))
	for _, v := range c.Variants {
		forms = append(forms, strings.ToLower(strings.TrimSpace(v)))
	}
	return forms
}

// findTokenSequence returns the starting indices in tokens where the
// contiguous sequence formTokens occurs, respecting word boundaries (each
// token compared as a whole, not a substring).
func findTokenSequence(tokens, formTokens []string) []int {
	var positions []int
	if len(formTokens) == 0 || len(tokens) < len(formTokens) {
		return positions
	}
	for i := 0; i+len(formTokens) <= len(tokens); i++ {
		match := true
		for j, ft := range formTokens {
			if tokens[i+j] != ft {
				match = false
				break
			}
		}
		if match {
			positions = append(positions, i)
		}
	}
	return positions
}

// contextWindow returns the W-token-before/after span around the match at
// tokens[pos:pos+matchLen].
func contextWindow(tokens []string, pos, matchLen, window int) string {
	start := pos - window
	if start < 0 {
		start = 0
	}
	end := pos + matchLen + window
	if end > len(tokens) {
		end = len(tokens)
	}
	return strings.Join(tokens[start:end], " ")
}

// tokenizeKeepingStopwords produces a lowercased, punctuation-stripped
// token sequence WITHOUT stop-word removal or lemmatization, matching
// a non-stop-word-removed form of the preprocessed text.
func tokenizeKeepingStopwords(text string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	fields := strings.Fields(b.String())
	return fields
}

// ConceptsByCategory groups the predefined vocabulary for the
// GET /frequency/predefined-concepts endpoint.
func ConceptsByCategory(concepts []Concept) map[string][]Concept {
	grouped := make(map[string][]Concept)
	for _, c := range concepts {
		grouped[c.Category] = append(grouped[c.Category], c)
	}
	return grouped
}

// SortedCategories returns the category keys of a grouping in stable
// alphabetical order, for deterministic JSON array rendering.
func SortedCategories(grouped map[string][]Concept) []string {
	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
