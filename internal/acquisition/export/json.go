// Package export serializes a deduplicated Publication set to the four
// artifact formats : JSON, BibTeX, RIS and CSV.
package export

import (
	"encoding/json"

	"bibliometric-api/internal/core"
)

// JSON renders records as a pretty-printed JSON array of canonical
// publication objects.
func JSON(records []core.Publication) ([]byte, error) {
	if records == nil {
		records = []core.Publication{}
	}
	return json.MarshalIndent(records, "", "  ")
}
