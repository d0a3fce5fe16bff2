package frequency

import "testing"

func TestAnalyzeConcepts_CountsVariantsAcrossDocuments(t *testing.T) {
	corpus := []string{
		"machine learning is used twice: machine learning really works well.",
		"ML is a popular technique in this abstract.",
	}
	concepts := []Concept{{Name: "machine learning", Variants: []string{"ml"}}}

	results := AnalyzeConcepts(corpus, concepts, DefaultContextWindow)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	got := results[0]
	if got.TotalOccurrences != 3 {
		t.Errorf("total occurrences = %d, want 3", got.TotalOccurrences)
	}
	if got.DocumentFrequency != 2 {
		t.Errorf("document frequency = %d, want 2", got.DocumentFrequency)
	}
	if got.RelativeFrequency != 1.0 {
		t.Errorf("relative frequency = %f, want 1.0", got.RelativeFrequency)
	}
}

func TestExtractKeywords_FrequencyModeRanksByCount(t *testing.T) {
	corpus := []string{
		"transformer transformer transformer attention",
		"attention attention transformer",
	}
	params := DefaultKeywordParams()
	params.Method = MethodFrequency
	params.MaxKeyword = 2

	kws := ExtractKeywords(corpus, params)
	if len(kws) == 0 {
		t.Fatal("expected at least one keyword")
	}
	if kws[0].Term != "transformer" {
		t.Errorf("top keyword = %q, want %q", kws[0].Term, "transformer")
	}
}

func TestEvaluate_ExactAndPartialMatchesCountedSeparately(t *testing.T) {
	extracted := []Keyword{{Term: "machine learning"}, {Term: "learning rate"}, {Term: "unrelated term"}}
	reference := []string{"machine learning", "learning"}

	result := Evaluate(extracted, reference)

	if len(result.ExactMatches) != 1 {
		t.Errorf("exact matches = %v, want 1 entry", result.ExactMatches)
	}
	if len(result.PartialMatches) != 1 {
		t.Errorf("partial matches = %v, want 1 entry", result.PartialMatches)
	}
	if result.Precision <= 0 || result.Recall <= 0 {
		t.Errorf("expected nonzero precision/recall, got p=%f r=%f", result.Precision, result.Recall)
	}
}

func TestEvaluate_EmptyDenominatorsYieldZero(t *testing.T) {
	result := Evaluate(nil, nil)
	if result.Precision != 0 || result.Recall != 0 || result.F1 != 0 {
		t.Errorf("expected all-zero metrics for empty inputs, got %+v", result)
	}
}
