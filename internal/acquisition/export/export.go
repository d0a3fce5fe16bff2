package export

import (
	"fmt"

	"bibliometric-api/internal/core"
)

// Format is one of the four supported artifact formats.
type Format string

const (
	FormatJSON   Format = "json"
	FormatBibTeX Format = "bibtex"
	FormatRIS    Format = "ris"
	FormatCSV    Format = "csv"
)

// ContentType returns the MIME type served for a format's artifact bytes.
func ContentType(f Format) string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatBibTeX:
		return "application/x-bibtex"
	case FormatRIS:
		return "application/x-research-info-systems"
	case FormatCSV:
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

// Filename returns the conventional artifact filename for a format, per
// the documented persisted layout (unified.json, unified.bib, ...).
func Filename(f Format) string {
	switch f {
	case FormatJSON:
		return "unified.json"
	case FormatBibTeX:
		return "unified.bib"
	case FormatRIS:
		return "unified.ris"
	case FormatCSV:
		return "unified.csv"
	default:
		return "unified.dat"
	}
}

// Render dispatches to the format-specific writer. An unknown format
// returns an error so the caller can surface the documented NotFound.
func Render(f Format, records []core.Publication) ([]byte, error) {
	switch f {
	case FormatJSON:
		return JSON(records)
	case FormatBibTeX:
		return BibTeX(records)
	case FormatRIS:
		return RIS(records)
	case FormatCSV:
		return CSV(records)
	default:
		return nil, fmt.Errorf("unknown export format: %s", f)
	}
}

// ParseFormat validates and normalizes a format string from the HTTP path.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatBibTeX, FormatRIS, FormatCSV:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format: %s", s)
	}
}
