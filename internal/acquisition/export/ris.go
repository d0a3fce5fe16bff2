package export

import (
	"fmt"
	"strings"

	"bibliometric-api/internal/core"
)

// RIS renders records as tag-per-line RIS entries with CRLF line endings
// and an "ER  - " terminator per record.
func RIS(records []core.Publication) ([]byte, error) {
	var b strings.Builder
	for _, r := range records {
		writeTag(&b, "TY", risType(r.PublicationType))
		writeTag(&b, "TI", r.Title)
		for _, a := range r.Authors {
			writeTag(&b, "AU", a.Name)
		}
		if r.Year != nil {
			writeTag(&b, "PY", fmt.Sprintf("%d", *r.Year))
		}
		if r.Journal != "" {
			writeTag(&b, "JO", r.Journal)
		}
		if r.Abstract != "" {
			writeTag(&b, "AB", r.Abstract)
		}
		for _, kw := range r.Keywords {
			writeTag(&b, "KW", kw)
		}
		if r.DOI != "" {
			writeTag(&b, "DO", r.DOI)
		}
		if r.URL != "" {
			writeTag(&b, "UR", r.URL)
		}
		if r.ID != "" {
			writeTag(&b, "ID", r.ID)
		}
		b.WriteString("ER  - \r\n\r\n")
	}
	return []byte(b.String()), nil
}

func risType(publicationType string) string {
	switch publicationType {
	case "article":
		return "JOUR"
	case "inproceedings":
		return "CONF"
	default:
		return "GEN"
	}
}

func writeTag(b *strings.Builder, tag, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s  - %s\r\n", tag, value)
}
