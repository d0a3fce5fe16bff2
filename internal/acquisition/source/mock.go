package source

import (
	"context"
	"fmt"
	"time"

	"bibliometric-api/internal/core"

	"github.com/google/uuid"
)

// MockSource is one of the two built-in Source adapters (the other is
// HTMLListingSource). It generates
// deterministic synthetic publications from the query text, standing in
// for the concrete ACM/SAGE/ScienceDirect integrations that stay out of
// scope here. Other adapters satisfy the same Source interface.
type MockSource struct {
	name      string
	rateLimit time.Duration
	// latency simulates per-call network latency so callers observe the
	// suspension points a real adapter would hit between outbound calls.
	latency time.Duration
}

// NewMockSource constructs a mock adapter with the given registered name
// and per-call rate limit.
func NewMockSource(name string, rateLimit time.Duration) *MockSource {
	return &MockSource{name: name, rateLimit: rateLimit, latency: 5 * time.Millisecond}
}

func (m *MockSource) Name() string { return m.name }

func (m *MockSource) RateLimit() time.Duration { return m.rateLimit }

func (m *MockSource) Search(ctx context.Context, q Query) (<-chan core.Publication, <-chan error) {
	out := make(chan core.Publication)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		n := q.MaxResults
		if n <= 0 {
			n = 10
		}

		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				errs <- fmt.Errorf("%s: search cancelled: %w", m.name, ctx.Err())
				return
			case <-time.After(m.latency):
			}

			year := 2023
			if q.YearMin > 0 {
				year = q.YearMin
			}
			if q.YearMax > 0 && year > q.YearMax {
				year = q.YearMax
			}

			pub := core.Publication{
				ID:             uuid.NewString(),
				DOI:            fmt.Sprintf("10.9999/%s-%d", m.name, i),
				SourceNativeID: fmt.Sprintf("%s-%d", m.name, i),
				Title:          fmt.Sprintf("%s: a study on %s (result %d)", q.Text, q.Text, i),
				Abstract:       fmt.Sprintf("This paper studies %s and reports experimental findings relevant to %s.", q.Text, q.Text),
				Authors:        []core.Author{{Name: "A. Researcher"}},
				Keywords:       []string{q.Text},
				Year:           intPtr(year),
				Journal:        fmt.Sprintf("Journal of %s Studies", m.name),
				Source:         m.name,
				PublicationType: "article",
				URL:            fmt.Sprintf("https://example.invalid/%s/%d", m.name, i),
				CitationCount:  i,
				DateAcquired:   time.Now(),
			}

			select {
			case out <- pub:
			case <-ctx.Done():
				errs <- fmt.Errorf("%s: search cancelled: %w", m.name, ctx.Err())
				return
			}
		}
	}()

	return out, errs
}

func intPtr(v int) *int { return &v }
