// Package acquisition orchestrates the end-to-end acquisition workflow:
// fan a query out across Source adapters (grounded on
// internal/sources/manager.go's semaphore + sync.WaitGroup fan-out,
// generalized from feed fetching to adapter search), deduplicate,
// export to the four artifact formats, and expose job status through a
// job.Registry.
package acquisition

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"bibliometric-api/internal/acquisition/dedup"
	"bibliometric-api/internal/acquisition/export"
	"bibliometric-api/internal/acquisition/job"
	"bibliometric-api/internal/acquisition/retry"
	"bibliometric-api/internal/acquisition/source"
	"bibliometric-api/internal/config"
	"bibliometric-api/internal/core"
	"bibliometric-api/internal/logger"

	"log/slog"

	"golang.org/x/time/rate"
)

// Request is the decoded body of POST /data/download.
type Request struct {
	Query               string   `json:"query"`
	Sources             []string `json:"sources"`
	MaxResultsPerSource int      `json:"max_results_per_source"`
	ExportFormats       []string `json:"export_formats"`
	YearMin             int      `json:"-"`
	YearMax             int      `json:"-"`
}

// yearRange is the wire shape of Request's optional year_range field.
type yearRange struct {
	Min int `json:"min,omitempty"`
	Max int `json:"max,omitempty"`
}

// requestWire mirrors Request but carries year_range as a nested object,
// translated into YearMin/YearMax by UnmarshalJSON.
type requestWire struct {
	Query               string     `json:"query"`
	Sources             []string   `json:"sources"`
	MaxResultsPerSource int        `json:"max_results_per_source"`
	ExportFormats       []string   `json:"export_formats"`
	YearRange           *yearRange `json:"year_range,omitempty"`
}

// UnmarshalJSON translates the wire shape's nested year_range object into
// the flat YearMin/YearMax fields the pipeline works with internally.
func (req *Request) UnmarshalJSON(data []byte) error {
	var wire requestWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	req.Query = wire.Query
	req.Sources = wire.Sources
	req.MaxResultsPerSource = wire.MaxResultsPerSource
	req.ExportFormats = wire.ExportFormats
	if wire.YearRange != nil {
		req.YearMin = wire.YearRange.Min
		req.YearMax = wire.YearRange.Max
	}
	return nil
}

// MarshalJSON renders Request back to the wire shape, the inverse of
// UnmarshalJSON.
func (req Request) MarshalJSON() ([]byte, error) {
	wire := requestWire{
		Query:               req.Query,
		Sources:             req.Sources,
		MaxResultsPerSource: req.MaxResultsPerSource,
		ExportFormats:       req.ExportFormats,
	}
	if req.YearMin != 0 || req.YearMax != 0 {
		wire.YearRange = &yearRange{Min: req.YearMin, Max: req.YearMax}
	}
	return json.Marshal(wire)
}

// Pipeline ties together the Source registry, the job registry, the
// deduplicator and the export writers, modeled on the prior
// dependency-injected internal/pipeline.Pipeline struct.
type Pipeline struct {
	sources              *source.Registry
	jobs                 *job.Registry
	baseDir              string
	dedupThreshold       float64
	retryParams          retry.Params
	sourceTimeout        time.Duration
	maxConcurrentSources int
	log                  *slog.Logger

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter
}

// New constructs a Pipeline from process configuration.
func New(sources *source.Registry, jobs *job.Registry, cfg config.Acquisition) *Pipeline {
	maxConcurrent := cfg.MaxConcurrentSources
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	timeout := cfg.SourceCallTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Pipeline{
		sources:              sources,
		jobs:                 jobs,
		baseDir:              cfg.DownloadBaseDir,
		dedupThreshold:       cfg.DedupSimilarityThreshold,
		retryParams:          retry.Params{MaxAttempts: maxInt(cfg.MaxRetries, 1), BaseDelay: 200 * time.Millisecond},
		sourceTimeout:        timeout,
		maxConcurrentSources: maxConcurrent,
		log:                  logger.Get(),
		limiters:             make(map[string]*rate.Limiter),
	}
}

// limiterFor returns the per-adapter rate.Limiter for s, creating it on
// first use from s.RateLimit(). A zero or negative rate limit means the
// adapter imposes no spacing between calls.
func (p *Pipeline) limiterFor(s source.Source) *rate.Limiter {
	p.limiterMu.Lock()
	defer p.limiterMu.Unlock()

	if l, ok := p.limiters[s.Name()]; ok {
		return l
	}

	interval := s.RateLimit()
	var l *rate.Limiter
	if interval <= 0 {
		l = rate.NewLimiter(rate.Inf, 1)
	} else {
		l = rate.NewLimiter(rate.Every(interval), 1)
	}
	p.limiters[s.Name()] = l
	return l
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Submit resolves the requested source adapters, creates a job and starts
// its background run, returning immediately with a pending snapshot per
// the documented "submission returns a handle immediately" lifecycle.
func (p *Pipeline) Submit(ctx context.Context, req Request) (core.JobState, error) {
	srcs, err := p.sources.Resolve(req.Sources)
	if err != nil {
		return core.JobState{}, err
	}
	formats, err := parseFormats(req.ExportFormats)
	if err != nil {
		return core.JobState{}, err
	}

	j := p.jobs.Create(req.Query, req.Sources, req.ExportFormats)
	go p.run(context.Background(), j.ID, srcs, formats, req)
	return *j, nil
}

func parseFormats(names []string) ([]export.Format, error) {
	if len(names) == 0 {
		names = []string{string(export.FormatJSON)}
	}
	out := make([]export.Format, 0, len(names))
	for _, n := range names {
		f, err := export.ParseFormat(n)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// run executes one job's full lifecycle: fan out across sources
// concurrently, collect raw records in source-completion order,
// deduplicate, export, and transition the job to its terminal state. It
// never panics the caller: any error is recorded on the job itself.
func (p *Pipeline) run(ctx context.Context, jobID string, srcs []source.Source, formats []export.Format, req Request) {
	_ = p.jobs.Mutate(jobID, func(j *core.JobState) {
		j.Status = core.JobRunning
		j.Progress = make([]core.SourceProgress, len(srcs))
		for i, s := range srcs {
			j.Progress[i] = core.SourceProgress{Source: s.Name(), Requested: req.MaxResultsPerSource}
		}
	})

	raw, sourceErrCount := p.fanOut(ctx, jobID, srcs, req)

	if p.jobs.CancelRequested(jobID) {
		p.transitionCancelled(jobID)
		return
	}

	if sourceErrCount >= len(srcs) && len(srcs) > 0 {
		_ = p.jobs.Mutate(jobID, func(j *core.JobState) {
			j.Status = core.JobFailed
			j.FailureReason = "all sources failed"
			j.CompletedAt = time.Now()
		})
		return
	}

	unique, duplicates := dedup.Run(raw, p.dedupThreshold)

	if p.jobs.CancelRequested(jobID) {
		p.transitionCancelled(jobID)
		return
	}

	artifactPaths, err := p.export(jobID, unique, duplicates, formats)
	if err != nil {
		if p.jobs.CancelRequested(jobID) {
			p.transitionCancelled(jobID)
			return
		}
		p.cleanupPartialExport(jobID)
		_ = p.jobs.Mutate(jobID, func(j *core.JobState) {
			j.Status = core.JobFailed
			j.FailureReason = fmt.Sprintf("export failed: %v", err)
			j.CompletedAt = time.Now()
		})
		return
	}

	_ = p.jobs.Mutate(jobID, func(j *core.JobState) {
		j.Status = core.JobCompleted
		j.Downloaded = len(raw)
		j.Unique = len(unique)
		j.Duplicates = len(duplicates)
		j.ArtifactPaths = artifactPaths
		j.CompletedAt = time.Now()
	})
}

// fanOut runs each source's search concurrently (bounded by
// maxConcurrentSources), retrying failed calls with backoff, and returns
// the concatenated raw records ordered by source-completion plus the
// count of sources that failed outright. Source completion order is
// nondeterministic by design and this is expected.
func (p *Pipeline) fanOut(ctx context.Context, jobID string, srcs []source.Source, req Request) ([]core.Publication, int) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		all      []core.Publication
		failures int
	)
	sem := make(chan struct{}, p.maxConcurrentSources)

	for _, s := range srcs {
		if p.jobs.CancelRequested(jobID) {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(s source.Source) {
			defer wg.Done()
			defer func() { <-sem }()

			records, err := p.searchOneSource(ctx, s, req)

			mu.Lock()
			all = append(all, records...)
			if err != nil {
				failures++
				p.log.Error("source failed", "source", s.Name(), "error", err)
			}
			mu.Unlock()

			_ = p.jobs.Mutate(jobID, func(j *core.JobState) {
				for i := range j.Progress {
					if j.Progress[i].Source == s.Name() {
						j.Progress[i].Downloaded = len(records)
						j.Progress[i].Done = true
						if err != nil {
							j.Progress[i].Error = err.Error()
						}
					}
				}
				if err != nil {
					j.Errors = append(j.Errors, fmt.Sprintf("%s: %v", s.Name(), err))
				}
			})
		}(s)
	}

	wg.Wait()
	return all, failures
}

// searchOneSource runs one adapter's search with a per-call timeout and
// retries the whole search with exponential backoff. Each attempt waits
// on the adapter's rate limiter first, honoring the configured minimum
// spacing between outbound calls.
func (p *Pipeline) searchOneSource(ctx context.Context, s source.Source, req Request) ([]core.Publication, error) {
	limiter := p.limiterFor(s)
	var records []core.Publication
	err := retry.Do(ctx, p.retryParams, func() error {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		records = nil
		callCtx, cancel := context.WithTimeout(ctx, p.sourceTimeout)
		defer cancel()

		out, errs := s.Search(callCtx, source.Query{
			Text:       req.Query,
			MaxResults: req.MaxResultsPerSource,
			YearMin:    req.YearMin,
			YearMax:    req.YearMax,
		})

		for pub := range out {
			records = append(records, pub)
		}
		if err, ok := <-errs; ok && err != nil {
			return err
		}
		return nil
	})
	return records, err
}

func (p *Pipeline) transitionCancelled(jobID string) {
	p.cleanupPartialExport(jobID)
	_ = p.jobs.Mutate(jobID, func(j *core.JobState) {
		j.Status = core.JobCancelled
		j.CompletedAt = time.Now()
	})
}

// export writes the unique set and duplicate report to the four artifact
// formats under a per-job directory, checking the cancel flag before each
// file.
func (p *Pipeline) export(jobID string, unique []core.Publication, duplicates []core.DuplicateEntry, formats []export.Format) (map[string]string, error) {
	dir := filepath.Join(p.baseDir, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating job directory: %w", err)
	}

	paths := make(map[string]string)
	for _, f := range formats {
		if p.jobs.CancelRequested(jobID) {
			return paths, fmt.Errorf("cancelled before writing %s", f)
		}
		data, err := export.Render(f, unique)
		if err != nil {
			return paths, fmt.Errorf("rendering %s: %w", f, err)
		}
		path := filepath.Join(dir, export.Filename(f))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", f, err)
		}
		paths[string(f)] = path
	}

	report := core.DuplicateReport{JobID: jobID, Entries: duplicates}
	reportData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return paths, fmt.Errorf("encoding duplicate report: %w", err)
	}
	reportPath := filepath.Join(dir, "duplicates.json")
	if err := os.WriteFile(reportPath, reportData, 0o644); err != nil {
		return paths, fmt.Errorf("writing duplicate report: %w", err)
	}
	paths["duplicates"] = reportPath

	summary := map[string]any{
		"downloaded": len(unique) + len(duplicates),
		"unique":     len(unique),
		"duplicates": len(duplicates),
	}
	summaryData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return paths, fmt.Errorf("encoding summary: %w", err)
	}
	summaryPath := filepath.Join(dir, "summary.json")
	if err := os.WriteFile(summaryPath, summaryData, 0o644); err != nil {
		return paths, fmt.Errorf("writing summary: %w", err)
	}
	paths["summary"] = summaryPath

	return paths, nil
}

// cleanupPartialExport deletes a cancelled job's per-job directory,
// per the documented "must delete any partially-written export files".
func (p *Pipeline) cleanupPartialExport(jobID string) {
	dir := filepath.Join(p.baseDir, jobID)
	if err := os.RemoveAll(dir); err != nil {
		p.log.Warn("failed to clean up partial export", "job_id", jobID, "error", err)
	}
}

// Jobs exposes the underlying registry for handlers that need direct
// read access (status, list, duplicates, downloads).
func (p *Pipeline) Jobs() *job.Registry { return p.jobs }

// Sources exposes the underlying source registry for GET /data/sources.
func (p *Pipeline) Sources() *source.Registry { return p.sources }

// Cancel requests cancellation of a running job.
func (p *Pipeline) Cancel(jobID string) (core.JobStatus, error) {
	return p.jobs.RequestCancel(jobID)
}
