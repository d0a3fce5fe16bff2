package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"bibliometric-api/internal/core"
)

var csvHeader = []string{
	"id", "doi", "title", "abstract", "authors", "keywords",
	"year", "journal", "source", "publication_type", "url", "citation_count",
}

// CSV renders records as RFC-4180-quoted, comma-delimited rows; nested
// fields (authors, keywords) are flattened with "; " joins.
func CSV(records []core.Publication) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}

	for _, r := range records {
		names := make([]string, len(r.Authors))
		for i, a := range r.Authors {
			names[i] = a.Name
		}

		year := ""
		if r.Year != nil {
			year = fmt.Sprintf("%d", *r.Year)
		}

		row := []string{
			r.ID,
			r.DOI,
			r.Title,
			r.Abstract,
			strings.Join(names, "; "),
			strings.Join(r.Keywords, "; "),
			year,
			r.Journal,
			r.Source,
			r.PublicationType,
			r.URL,
			fmt.Sprintf("%d", r.CitationCount),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing csv row for %s: %w", r.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv writer: %w", err)
	}
	return buf.Bytes(), nil
}
