// Package core defines the canonical entity shapes shared across the
// acquisition, similarity, frequency and clustering engines.
package core

import "time"

// Author represents a single author of a Publication.
type Author struct {
	Name        string `json:"name"`                   // Author's full name
	Affiliation string `json:"affiliation,omitempty"`  // Institutional affiliation, if known
	Country     string `json:"country,omitempty"`      // ISO-3166 alpha-3 code or resolvable country name
	ORCID       string `json:"orcid,omitempty"`        // ORCID identifier, if known
}

// Publication is the canonical, deduplicated entity shape for a scientific
// publication abstract. Two Publications are considered the same content
// when they survive the three-level deduplicator in internal/acquisition/dedup
// as a single kept record.
type Publication struct {
	ID              string    `json:"id"`                          // Internally-minted opaque id
	DOI             string    `json:"doi,omitempty"`               // "10.NNNN/..." form, if present
	SourceNativeID  string    `json:"source_native_id,omitempty"`  // Adapter-native identifier
	Title           string    `json:"title"`                       // Required, non-empty after trimming
	Abstract        string    `json:"abstract,omitempty"`          // Optional abstract text
	Authors         []Author  `json:"authors"`                     // Ordered sequence of authors
	Keywords        []string  `json:"keywords,omitempty"`          // Set of keyword strings
	Year            *int      `json:"year,omitempty"`              // In [1900, current_year+1] when present
	Journal         string    `json:"journal,omitempty"`           // Journal / venue name
	Source          string    `json:"source"`                      // Registered adapter name
	PublicationType string    `json:"publication_type,omitempty"`  // "article" | "inproceedings" | "misc" | ...
	URL             string    `json:"url,omitempty"`
	CitationCount   int       `json:"citation_count,omitempty"`
	DateAcquired    time.Time `json:"date_acquired"` // When the pipeline accepted this record
}

// JobStatus enumerates the legal states of a JobState. The only permitted
// transitions are pending->running, running->completed, running->failed
// and running->cancelled.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// SourceProgress tracks per-adapter progress within a job.
type SourceProgress struct {
	Source     string `json:"source"`
	Requested  int    `json:"requested"`
	Downloaded int    `json:"downloaded"`
	Error      string `json:"error,omitempty"`
	Done       bool   `json:"done"`
}

// JobState is the full lifecycle record for one acquisition job. It is
// owned exclusively by the job registry; callers receive value copies.
type JobState struct {
	ID              string            `json:"job_id"`
	Query           string            `json:"query"`
	Sources         []string          `json:"sources"`
	Status          JobStatus         `json:"status"`
	Progress        []SourceProgress  `json:"progress"`
	Downloaded      int               `json:"downloaded"`
	Unique          int               `json:"unique"`
	Duplicates      int               `json:"duplicates"`
	Errors          []string          `json:"errors,omitempty"`
	FailureReason   string            `json:"failure_reason,omitempty"`
	ExportFormats   []string          `json:"export_formats"`
	ArtifactPaths   map[string]string `json:"artifact_paths,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	CompletedAt     time.Time         `json:"completed_at,omitempty"`
	cancelRequested bool              // checked cooperatively; not part of the JSON snapshot
}

// CancelRequested reports whether cancellation has been requested for this
// snapshot. Only meaningful on the live JobState held by the registry, not
// on a value copy handed back to an HTTP caller.
func (j *JobState) CancelRequested() bool { return j.cancelRequested }

// RequestCancel marks the job's cancel flag. Safe to call from outside the
// goroutine running the job; the job checks the flag at defined
// cancellation boundaries between source calls.
func (j *JobState) RequestCancel() { j.cancelRequested = true }

// DedupLevel identifies which test caught a duplicate record.
type DedupLevel string

const (
	DedupLevelDOI        DedupLevel = "doi"
	DedupLevelHash       DedupLevel = "hash"
	DedupLevelFuzzyTitle DedupLevel = "fuzzy_title"
)

// DuplicateEntry records one duplicate detection: the record that was
// dropped, the record it was merged against, the level that caught it, and
// (for fuzzy matches) the similarity ratio that triggered the match.
type DuplicateEntry struct {
	Duplicate Publication `json:"duplicate"`
	KeptID    string      `json:"kept_id"`
	Level     DedupLevel  `json:"level"`
	Ratio     float64     `json:"ratio,omitempty"` // Only set for fuzzy_title
}

// DuplicateReport is the full set of duplicates detected for one job.
type DuplicateReport struct {
	JobID   string           `json:"job_id"`
	Entries []DuplicateEntry `json:"entries"`
}

// LinkageRow encodes one merge step of an agglomerative hierarchical
// clustering, in the standard SciPy-style layout: nodes i and j (leaves are
// 0..n-1, internal nodes are n, n+1, ...) merged at distance d into a
// cluster of the given size.
type LinkageRow struct {
	I        int     `json:"i"`
	J        int     `json:"j"`
	Distance float64 `json:"distance"`
	Size     int     `json:"size"`
}

// DendrogramNode describes one internal node of the merge tree: its two
// children (reusing LinkageRow's node numbering), its merge distance and
// the resulting subtree size. Sufficient to reconstruct and render the tree.
type DendrogramNode struct {
	ID       int     `json:"id"`
	Left     int     `json:"left"`
	Right    int     `json:"right"`
	Distance float64 `json:"distance"`
	Size     int     `json:"size"`
}

// QualityMetrics bundles the multi-metric clustering quality evaluation.
// Pointers are nil when the metric is undefined for the current cut
// (k<2, k>=n, or a degenerate cluster size).
type QualityMetrics struct {
	Silhouette       *float64 `json:"silhouette,omitempty"`
	DaviesBouldin    *float64 `json:"davies_bouldin,omitempty"`
	CalinskiHarabasz *float64 `json:"calinski_harabasz,omitempty"`
}

// ClusteringResult is the full output of one hierarchical clustering run.
type ClusteringResult struct {
	Method                string           `json:"method"`
	Linkage               []LinkageRow     `json:"linkage"`
	Labels                []int            `json:"labels"`
	NumClusters           int              `json:"num_clusters"`
	CopheneticCorrelation *float64         `json:"cophenetic_correlation,omitempty"`
	Quality               QualityMetrics   `json:"quality"`
	Dendrogram            []DendrogramNode `json:"dendrogram"`
	MonotonicityWarning   string           `json:"monotonicity_warning,omitempty"`
}

// ConceptFrequency is the frequency record for one predefined concept.
type ConceptFrequency struct {
	Concept           string   `json:"concept"`
	TotalOccurrences  int      `json:"total_occurrences"`
	DocumentFrequency int      `json:"document_frequency"`
	RelativeFrequency float64  `json:"relative_frequency"`
	DocumentIndices   []int    `json:"document_indices"`
	ContextWindows    []string `json:"context_windows,omitempty"`
}
