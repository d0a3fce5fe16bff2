// Package dedup implements a three-level duplicate detector: DOI
// identity, normalized-title hash, and fuzzy title similarity, with a
// highest-ratio-wins, earliest-arrival tie-break policy.
package dedup

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"

	"bibliometric-api/internal/core"
)

// DefaultThreshold is the default fuzzy-title similarity threshold τ.
const DefaultThreshold = 0.95

var (
	leadingArticleRegex = regexp.MustCompile(`^(a|an|the)\s+`)
	nonAlnumRegex        = regexp.MustCompile(`[^a-z0-9\s]+`)
	whitespaceRegex      = regexp.MustCompile(`\s+`)
)

// Deduplicator accepts Publications one at a time and reports duplicates
// against the set already accepted. It is not safe for concurrent use;
// callers feed it records sequentially (the acquisition pipeline does so
// after all sources have completed, preserving first-seen order).
type Deduplicator struct {
	threshold float64

	doiIndex   map[string]int // DOI -> index into accepted
	hashIndex  map[string]int // normalized-title hash -> index into accepted
	accepted   []core.Publication
	normTitles []string // accepted[i]'s normalized title, parallel to accepted
}

// New constructs a Deduplicator with the given fuzzy-match threshold τ.
// A non-positive threshold falls back to DefaultThreshold.
func New(threshold float64) *Deduplicator {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Deduplicator{
		threshold: threshold,
		doiIndex:  make(map[string]int),
		hashIndex: make(map[string]int),
	}
}

// NormalizeTitle lowercases, strips punctuation, removes a single leading
// article ("a"/"an"/"the"), and collapses whitespace, 
// step 2.
func NormalizeTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = nonAlnumRegex.ReplaceAllString(t, " ")
	t = whitespaceRegex.ReplaceAllString(t, " ")
	t = strings.TrimSpace(t)
	t = leadingArticleRegex.ReplaceAllString(t, "")
	t = whitespaceRegex.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

func titleHash(normalized string) string {
	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Add offers record R to the deduplicator. If R is a duplicate of an
// already-accepted record, it returns (entry, true). Otherwise R is
// inserted and (core.DuplicateEntry{}, false) is returned. Edge cases:
// an empty title means only level 1 (DOI) can catch a duplicate; an empty
// DOI and empty title together mean R can never be flagged and is always
// kept.
func (d *Deduplicator) Add(r core.Publication) (core.DuplicateEntry, bool) {
	// Level 1: DOI identity.
	if r.DOI != "" {
		if idx, ok := d.doiIndex[r.DOI]; ok {
			return core.DuplicateEntry{
				Duplicate: r,
				KeptID:    d.accepted[idx].ID,
				Level:     core.DedupLevelDOI,
			}, true
		}
	}

	normTitle := NormalizeTitle(r.Title)

	// Level 2: normalized-title hash.
	if normTitle != "" {
		hash := titleHash(normTitle)
		if idx, ok := d.hashIndex[hash]; ok {
			return core.DuplicateEntry{
				Duplicate: r,
				KeptID:    d.accepted[idx].ID,
				Level:     core.DedupLevelHash,
			}, true
		}

		// Level 3: fuzzy title similarity against every accepted record.
		// Tie-break: highest ratio, earliest arrival on ties.
		bestIdx := -1
		bestRatio := 0.0
		for i, existing := range d.normTitles {
			ratio := SequenceMatcherRatio(normTitle, existing)
			if ratio >= d.threshold && ratio > bestRatio {
				bestRatio = ratio
				bestIdx = i
			}
		}
		if bestIdx >= 0 {
			return core.DuplicateEntry{
				Duplicate: r,
				KeptID:    d.accepted[bestIdx].ID,
				Level:     core.DedupLevelFuzzyTitle,
				Ratio:     bestRatio,
			}, true
		}
	}

	// Not a duplicate under any level: accept and index.
	idx := len(d.accepted)
	d.accepted = append(d.accepted, r)
	d.normTitles = append(d.normTitles, normTitle)
	if r.DOI != "" {
		d.doiIndex[r.DOI] = idx
	}
	if normTitle != "" {
		d.hashIndex[titleHash(normTitle)] = idx
	}
	return core.DuplicateEntry{}, false
}

// Accepted returns the unique set accumulated so far, in first-seen
// arrival order (the documented documented total order).
func (d *Deduplicator) Accepted() []core.Publication {
	out := make([]core.Publication, len(d.accepted))
	copy(out, d.accepted)
	return out
}

// Run deduplicates an entire incoming slice in arrival order and returns
// the unique set plus the duplicate report. Running Run again over its
// own output is idempotent: every record in the output set is pairwise
// below all three levels against the rest of the set by construction.
func Run(records []core.Publication, threshold float64) ([]core.Publication, []core.DuplicateEntry) {
	d := New(threshold)
	var entries []core.DuplicateEntry
	for _, r := range records {
		if entry, isDup := d.Add(r); isDup {
			entries = append(entries, entry)
		}
	}
	return d.Accepted(), entries
}
