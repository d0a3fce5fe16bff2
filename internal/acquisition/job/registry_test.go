package job

import (
	"testing"
	"time"

	"bibliometric-api/internal/core"
)

func TestRegistry_CreateAndGet(t *testing.T) {
	r := NewRegistry()
	j := r.Create("generative ai", []string{"mock"}, []string{"json"})
	if j.Status != core.JobPending {
		t.Errorf("status = %s, want pending", j.Status)
	}
	got, err := r.Get(j.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != j.ID {
		t.Errorf("id mismatch")
	}
}

func TestRegistry_GetUnknownErrors(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("nonexistent"); err == nil {
		t.Error("expected error for unknown job id")
	}
}

func TestRegistry_RequestCancelOnTerminalJobIsConflict(t *testing.T) {
	r := NewRegistry()
	j := r.Create("q", []string{"mock"}, []string{"json"})
	_ = r.Mutate(j.ID, func(js *core.JobState) { js.Status = core.JobCompleted })

	if _, err := r.RequestCancel(j.ID); err == nil {
		t.Error("expected conflict error cancelling a terminal job")
	}
}

func TestRegistry_EvictExpiredRemovesOldTerminalJobsOnly(t *testing.T) {
	r := NewRegistry()
	j1 := r.Create("q1", nil, nil)
	j2 := r.Create("q2", nil, nil)

	past := time.Now().Add(-2 * time.Hour)
	_ = r.Mutate(j1.ID, func(js *core.JobState) {
		js.Status = core.JobCompleted
		js.CompletedAt = past
	})
	// j2 stays pending, never evicted regardless of age.

	evicted := r.EvictExpired(time.Now(), time.Hour)
	if evicted != 1 {
		t.Errorf("evicted = %d, want 1", evicted)
	}
	if _, err := r.Get(j1.ID); err == nil {
		t.Error("expected j1 to be evicted")
	}
	if _, err := r.Get(j2.ID); err != nil {
		t.Error("expected j2 (pending) to survive eviction")
	}
}
