// Package job implements the process-wide JobState registry of
// a single mutex-guarded map from job id to JobState, with an
// explicit removal operation so a deployment wanting bounded memory can
// evict completed jobs after a TTL.
package job

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"bibliometric-api/internal/core"

	"github.com/google/uuid"
)

// Registry is the single process-wide map from job id to JobState. Reads
// are frequent but short; contention is expected to be low, matching
// the documented stated access pattern.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*core.JobState
}

// NewRegistry constructs an empty job registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*core.JobState)}
}

// Create mints a new job id and stores a pending JobState for it,
// returning the live pointer for the pipeline to mutate as work
// progresses. The only legal transitions from here are documented on
// core.JobState.
func (r *Registry) Create(query string, sources, exportFormats []string) *core.JobState {
	r.mu.Lock()
	defer r.mu.Unlock()

	j := &core.JobState{
		ID:            uuid.NewString(),
		Query:         query,
		Sources:       sources,
		Status:        core.JobPending,
		ExportFormats: exportFormats,
		CreatedAt:     time.Now(),
	}
	r.jobs[j.ID] = j
	return j
}

// Get returns a value copy of the job state for id, or an error if
// unknown (a NotFound error).
func (r *Registry) Get(id string) (core.JobState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return core.JobState{}, fmt.Errorf("unknown job id: %s", id)
	}
	return *j, nil
}

// List returns value copies of every job, ordered by creation time.
func (r *Registry) List() []core.JobState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.JobState, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, *j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.Before(out[k].CreatedAt) })
	return out
}

// RequestCancel marks a job's cooperative cancel flag. Cancelling a job
// already in a terminal state returns that terminal status together with
// an error (a Conflict at the HTTP boundary); an unknown id returns an
// empty status and an error.
func (r *Registry) RequestCancel(id string) (core.JobStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return "", fmt.Errorf("unknown job id: %s", id)
	}
	if j.Status == core.JobCompleted || j.Status == core.JobFailed || j.Status == core.JobCancelled {
		return j.Status, fmt.Errorf("job %s is already terminal (%s)", id, j.Status)
	}
	j.RequestCancel()
	return j.Status, nil
}

// Remove deletes a job from the registry, the explicit removal operation
// so a deployment can bound memory.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
}

// EvictExpired removes every terminal job whose CompletedAt is older than
// ttl, run periodically from a ticking goroutine started alongside the
// server (supplemented feature, see DESIGN.md).
func (r *Registry) EvictExpired(now time.Time, ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, j := range r.jobs {
		if !isTerminal(j.Status) || j.CompletedAt.IsZero() {
			continue
		}
		if now.Sub(j.CompletedAt) >= ttl {
			delete(r.jobs, id)
			evicted++
		}
	}
	return evicted
}

func isTerminal(s core.JobStatus) bool {
	return s == core.JobCompleted || s == core.JobFailed || s == core.JobCancelled
}

// Mutate applies fn to the live JobState for id under the registry's
// write lock. This is the single synchronization point the pipeline uses
// to update a running job's fields, so that concurrent Get/List snapshots
// (taken under the read lock) never observe a torn write.
func (r *Registry) Mutate(id string, fn func(*core.JobState)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return fmt.Errorf("unknown job id: %s", id)
	}
	fn(j)
	return nil
}

// CancelRequested reports whether cancellation was requested for id,
// synchronized the same way as Mutate.
func (r *Registry) CancelRequested(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return false
	}
	return j.CancelRequested()
}
