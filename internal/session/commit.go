package session

import (
	"context"
	"fmt"

	"pegasis/internal/domain"
)

// CommitPhase names the half of the two-phase commit that failed.
type CommitPhase string

const (
	// PhaseWrite: the store write failed; the session kept its previous
	// state and the transition had no effect.
	PhaseWrite CommitPhase = "write"

	// PhaseReconcile: the write succeeded but the reconciling re-fetch
	// failed; the session holds the optimistic merged state until the
	// next successful read.
	PhaseReconcile CommitPhase = "reconcile"
)

// CommitError reports a failed persist or reconcile step.
type CommitError struct {
	Phase CommitPhase
	Err   error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit %s: %v", e.Phase, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// commit persists the fully-resolved next state and reconciles against
// the store's read. The store's answer replaces local state
// unconditionally; it may enrich or normalize fields the engine never
// set.
func (s *Session) commit(ctx context.Context, next *domain.User) error {
	if _, err := s.users.Update(ctx, next.ID, domain.UpdateFrom(next)); err != nil {
		return &CommitError{Phase: PhaseWrite, Err: err}
	}
	s.user = next

	fresh, err := s.users.Find(ctx, next.ID)
	if err != nil {
		return &CommitError{Phase: PhaseReconcile, Err: err}
	}
	if fresh == nil {
		return &CommitError{Phase: PhaseReconcile, Err: domain.ErrNotFound}
	}
	s.user = fresh
	return nil
}
