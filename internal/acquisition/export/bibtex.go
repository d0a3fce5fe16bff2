package export

import (
	"fmt"
	"strings"

	"bibliometric-api/internal/core"
)

// BibTeX renders records as one @entry per record; entry key = record ID,
// entry type chosen from PublicationType with "misc" as the fallback.
// Every string field is brace-escaped so that nested braces
// in titles survive a round-trip.
func BibTeX(records []core.Publication) ([]byte, error) {
	var b strings.Builder
	for _, r := range records {
		entryType := bibtexType(r.PublicationType)
		fmt.Fprintf(&b, "@%s{%s,\n", entryType, bibtexKey(r.ID))
		fmt.Fprintf(&b, "  title = {%s},\n", escapeBraces(r.Title))
		if len(r.Authors) > 0 {
			names := make([]string, len(r.Authors))
			for i, a := range r.Authors {
				names[i] = a.Name
			}
			fmt.Fprintf(&b, "  author = {%s},\n", escapeBraces(strings.Join(names, " and ")))
		}
		if r.Year != nil {
			fmt.Fprintf(&b, "  year = {%d},\n", *r.Year)
		}
		if r.Journal != "" {
			fmt.Fprintf(&b, "  journal = {%s},\n", escapeBraces(r.Journal))
		}
		if r.Abstract != "" {
			fmt.Fprintf(&b, "  abstract = {%s},\n", escapeBraces(r.Abstract))
		}
		if len(r.Keywords) > 0 {
			fmt.Fprintf(&b, "  keywords = {%s},\n", escapeBraces(strings.Join(r.Keywords, "; ")))
		}
		if r.DOI != "" {
			fmt.Fprintf(&b, "  doi = {%s},\n", escapeBraces(r.DOI))
		}
		if r.URL != "" {
			fmt.Fprintf(&b, "  url = {%s},\n", escapeBraces(r.URL))
		}
		b.WriteString("}\n\n")
	}
	return []byte(b.String()), nil
}

func bibtexType(publicationType string) string {
	switch publicationType {
	case "article":
		return "article"
	case "inproceedings":
		return "inproceedings"
	default:
		return "misc"
	}
}

// bibtexKey strips characters BibTeX keys can't contain (commas, braces,
// whitespace); record IDs are opaque-minted and ASCII already, so this is
// mostly defensive.
func bibtexKey(id string) string {
	replacer := strings.NewReplacer(",", "_", "{", "_", "}", "_", " ", "_")
	return replacer.Replace(id)
}

// escapeBraces brace-escapes literal "{" and "}" in a field value so a
// title containing braces (or other BibTeX-significant text) round-trips.
func escapeBraces(s string) string {
	s = strings.ReplaceAll(s, "{", "\\{")
	s = strings.ReplaceAll(s, "}", "\\}")
	return s
}
