package acquisition

import (
	"context"
	"os"
	"testing"
	"time"

	"bibliometric-api/internal/acquisition/job"
	"bibliometric-api/internal/acquisition/source"
	"bibliometric-api/internal/config"
	"bibliometric-api/internal/core"
)

func TestPipeline_SubmitRunsToCompletion(t *testing.T) {
	dir := t.TempDir()

	sources := source.NewRegistry()
	sources.Register(source.NewMockSource("mock", 0))

	jobs := job.NewRegistry()
	p := New(sources, jobs, config.Acquisition{
		DownloadBaseDir:          dir,
		DedupSimilarityThreshold: 0.95,
		MaxRetries:               1,
		SourceCallTimeout:        5 * time.Second,
		MaxConcurrentSources:     2,
	})

	snapshot, err := p.Submit(context.Background(), Request{
		Query:               "generative ai",
		Sources:             []string{"mock"},
		MaxResultsPerSource: 3,
		ExportFormats:       []string{"json", "csv"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if snapshot.Status != core.JobPending {
		t.Errorf("initial status = %s, want pending", snapshot.Status)
	}

	final := waitForTerminal(t, jobs, snapshot.ID, 2*time.Second)
	if final.Status != core.JobCompleted {
		t.Fatalf("final status = %s, want completed (errors=%v)", final.Status, final.Errors)
	}
	// The mock's three titles differ only in the trailing result number, so
	// their fuzzy-title ratio (about 0.979) is above the 0.95 threshold and
	// deduplication keeps the first one.
	if final.Unique != 1 {
		t.Errorf("unique = %d, want 1", final.Unique)
	}
	if _, err := os.Stat(final.ArtifactPaths["json"]); err != nil {
		t.Errorf("expected json artifact on disk: %v", err)
	}
}

func TestPipeline_SubmitUnknownSourceErrors(t *testing.T) {
	sources := source.NewRegistry()
	jobs := job.NewRegistry()
	p := New(sources, jobs, config.Acquisition{DownloadBaseDir: t.TempDir()})

	_, err := p.Submit(context.Background(), Request{Query: "x", Sources: []string{"nonexistent"}})
	if err == nil {
		t.Error("expected error for unknown source")
	}
}

func waitForTerminal(t *testing.T, jobs *job.Registry, id string, timeout time.Duration) core.JobState {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		j, err := jobs.Get(id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if j.Status == core.JobCompleted || j.Status == core.JobFailed || j.Status == core.JobCancelled {
			return j
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not reach a terminal state within %s", id, timeout)
	return core.JobState{}
}
