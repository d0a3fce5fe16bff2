package dedup

import (
	"testing"

	"bibliometric-api/internal/core"
)

func pub(id, doi, title string) core.Publication {
	return core.Publication{ID: id, DOI: doi, Title: title}
}

func TestRun_DOILevelCatchesIdenticalDOI(t *testing.T) {
	records := []core.Publication{
		pub("1", "10.1/a", "AI in Education"),
		pub("2", "10.1/a", "A completely different title"),
	}
	unique, dups := Run(records, 0.95)
	if len(unique) != 1 || len(dups) != 1 {
		t.Fatalf("got %d unique, %d dups; want 1, 1", len(unique), len(dups))
	}
	if dups[0].Level != core.DedupLevelDOI {
		t.Errorf("level = %s, want doi", dups[0].Level)
	}
	if dups[0].KeptID != "1" {
		t.Errorf("kept = %s, want 1", dups[0].KeptID)
	}
}

func TestRun_HashLevelCatchesNormalizedTitleMatch(t *testing.T) {
	records := []core.Publication{
		pub("1", "10.1/a", "The AI Revolution!"),
		pub("2", "10.2/b", "ai revolution"),
	}
	unique, dups := Run(records, 0.95)
	if len(unique) != 1 || len(dups) != 1 {
		t.Fatalf("got %d unique, %d dups; want 1, 1", len(unique), len(dups))
	}
	if dups[0].Level != core.DedupLevelHash {
		t.Errorf("level = %s, want hash", dups[0].Level)
	}
}

func TestRun_FuzzyLevelCatchesNearDuplicateTitles(t *testing.T) {
	records := []core.Publication{
		pub("1", "10.1/a", "Deep Learning for Natural Language Processing"),
		pub("2", "10.2/b", "Deep Learning for Natural Language Processing Tasks"),
	}
	unique, dups := Run(records, 0.80)
	if len(unique) != 1 || len(dups) != 1 {
		t.Fatalf("got %d unique, %d dups; want 1, 1", len(unique), len(dups))
	}
	if dups[0].Level != core.DedupLevelFuzzyTitle {
		t.Errorf("level = %s, want fuzzy_title", dups[0].Level)
	}
	if dups[0].Ratio < 0.80 {
		t.Errorf("ratio = %f, want >= 0.80", dups[0].Ratio)
	}
}

func TestRun_HighThresholdKeepsNearDuplicates(t *testing.T) {
	records := []core.Publication{
		pub("1", "10.1/a", "AI in Education"),
		pub("2", "10.1/a", "AI in Education"),
		pub("3", "10.1/b", "AI in Educational Contexts"),
	}
	unique, dups := Run(records, 0.99)
	if len(unique) != 2 {
		t.Fatalf("got %d unique, want 2", len(unique))
	}
	if len(dups) != 1 || dups[0].Level != core.DedupLevelDOI {
		t.Fatalf("expected exactly one doi-level duplicate, got %+v", dups)
	}
}

func TestRun_EmptyTitleAndDOIAlwaysKept(t *testing.T) {
	records := []core.Publication{
		pub("1", "", ""),
		pub("2", "", ""),
	}
	unique, dups := Run(records, 0.95)
	if len(unique) != 2 || len(dups) != 0 {
		t.Fatalf("got %d unique, %d dups; want 2, 0 (records with no doi/title can never be deduplicated)", len(unique), len(dups))
	}
}

func TestRun_Idempotent(t *testing.T) {
	records := []core.Publication{
		pub("1", "10.1/a", "Graph Neural Networks for Molecules"),
		pub("2", "10.1/a", "duplicate by doi"),
		pub("3", "10.2/b", "Graph Neural Networks for Molecules"),
	}
	first, _ := Run(records, 0.95)
	second, _ := Run(first, 0.95)
	if len(second) != len(first) {
		t.Fatalf("dedup not idempotent: first=%d second=%d", len(first), len(second))
	}
}

func TestRun_PreservationCountsMatchInput(t *testing.T) {
	records := []core.Publication{
		pub("1", "10.1/a", "A Study of Transformers"),
		pub("2", "10.1/a", "dup by doi"),
		pub("3", "10.2/b", "A Study of Transformers"),
		pub("4", "10.3/c", "Entirely Unrelated Subject Matter"),
	}
	unique, dups := Run(records, 0.95)
	if len(unique)+len(dups) != len(records) {
		t.Fatalf("kept(%d) + duplicates(%d) != input(%d)", len(unique), len(dups), len(records))
	}
}

func TestSequenceMatcherRatio_EmptyEmptyIsOne(t *testing.T) {
	if r := SequenceMatcherRatio("", ""); r != 1.0 {
		t.Errorf("ratio(\"\",\"\") = %f, want 1.0", r)
	}
}

func TestSequenceMatcherRatio_Identical(t *testing.T) {
	if r := SequenceMatcherRatio("hello world", "hello world"); r != 1.0 {
		t.Errorf("ratio identical = %f, want 1.0", r)
	}
}
