package export

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"bibliometric-api/internal/core"
)

func sampleRecords() []core.Publication {
	year := 2023
	return []core.Publication{
		{
			ID:              "pub-1",
			DOI:             "10.1234/abc",
			Title:           "Attention in {Curly} Titles",
			Abstract:        "An abstract.",
			Authors:         []core.Author{{Name: "Jane Doe"}, {Name: "John Roe"}},
			Keywords:        []string{"attention", "transformers"},
			Year:            &year,
			Journal:         "Journal of Examples",
			Source:          "mock",
			PublicationType: "article",
			URL:             "https://example.invalid/1",
			CitationCount:   4,
		},
	}
}

func TestJSON_RoundTrips(t *testing.T) {
	data, err := JSON(sampleRecords())
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var out []core.Publication
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 1 || out[0].Title != sampleRecords()[0].Title {
		t.Errorf("round-tripped record mismatch: %+v", out)
	}
}

func TestBibTeX_EscapesBraces(t *testing.T) {
	data, err := BibTeX(sampleRecords())
	if err != nil {
		t.Fatalf("BibTeX() error: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "@article{pub-1,") {
		t.Errorf("expected article entry keyed by id, got: %s", s)
	}
	if !strings.Contains(s, `\{Curly\}`) {
		t.Errorf("expected escaped braces in title, got: %s", s)
	}
}

func TestRIS_HasTerminatorPerRecord(t *testing.T) {
	data, err := RIS(sampleRecords())
	if err != nil {
		t.Fatalf("RIS() error: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "TY  - JOUR\r\n") {
		t.Errorf("expected JOUR type tag, got: %s", s)
	}
	if !strings.Contains(s, "ER  - \r\n") {
		t.Errorf("expected ER terminator, got: %s", s)
	}
}

func TestCSV_FlattensNestedFields(t *testing.T) {
	data, err := CSV(sampleRecords())
	if err != nil {
		t.Fatalf("CSV() error: %v", err)
	}
	r := csv.NewReader(strings.NewReader(string(data)))
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parsing csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	authorsCol := 4
	if rows[1][authorsCol] != "Jane Doe; John Roe" {
		t.Errorf("authors column = %q, want joined with '; '", rows[1][authorsCol])
	}
}

func TestRender_UnknownFormatErrors(t *testing.T) {
	if _, err := Render(Format("xml"), sampleRecords()); err == nil {
		t.Error("expected error for unknown format")
	}
}
