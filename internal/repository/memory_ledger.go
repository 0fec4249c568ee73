package repository

import (
	"context"
	"sync"
	"time"

	"github.com/stemsi/bonafide-backend/internal/model"
)

// MemoryLedgerRepository keeps the request ledger in process memory, newest first.
type MemoryLedgerRepository struct {
	mu       sync.RWMutex
	requests []model.BonafideRequest
}

// NewMemoryLedgerRepository creates an empty ledger.
func NewMemoryLedgerRepository() *MemoryLedgerRepository {
	return &MemoryLedgerRepository{}
}

// Insert prepends r to the ledger.
func (l *MemoryLedgerRepository) Insert(_ context.Context, r *model.BonafideRequest) error {
	stored := *r
	stored.Student = nil

	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append([]model.BonafideRequest{stored}, l.requests...)
	return nil
}

// Get retrieves a request by ID.
func (l *MemoryLedgerRepository) Get(_ context.Context, id string) (*model.BonafideRequest, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, r := range l.requests {
		if r.ID == id {
			found := r
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// SetStatus records a decision on a request; unknown IDs are a no-op.
func (l *MemoryLedgerRepository) SetStatus(_ context.Context, id string, status model.RequestStatus, actor string, at time.Time) (*model.BonafideRequest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.requests {
		if l.requests[i].ID == id {
			applyDecision(&l.requests[i], status, actor, at)
			updated := l.requests[i]
			return &updated, nil
		}
	}
	return nil, nil
}

// Decide records a decision only while the request is still pending.
func (l *MemoryLedgerRepository) Decide(_ context.Context, id string, status model.RequestStatus, actor string, at time.Time) (*model.BonafideRequest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.requests {
		if l.requests[i].ID != id {
			continue
		}
		if l.requests[i].Status != model.StatusPending {
			return nil, ErrNotPending
		}
		applyDecision(&l.requests[i], status, actor, at)
		updated := l.requests[i]
		return &updated, nil
	}
	return nil, nil
}

// ListAll returns every request, newest first.
func (l *MemoryLedgerRepository) ListAll(_ context.Context) ([]model.BonafideRequest, error) {
	return l.filter(func(*model.BonafideRequest) bool { return true }), nil
}

// ListByStudent returns the requests of one student, newest first.
func (l *MemoryLedgerRepository) ListByStudent(_ context.Context, studentID string) ([]model.BonafideRequest, error) {
	return l.filter(func(r *model.BonafideRequest) bool { return r.StudentID == studentID }), nil
}

// ListByCollege returns the requests of students of one college, newest first.
func (l *MemoryLedgerRepository) ListByCollege(_ context.Context, collegeID string) ([]model.BonafideRequest, error) {
	return l.filter(func(r *model.BonafideRequest) bool { return r.CollegeID == collegeID }), nil
}

func (l *MemoryLedgerRepository) filter(keep func(*model.BonafideRequest) bool) []model.BonafideRequest {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.BonafideRequest, 0, len(l.requests))
	for i := range l.requests {
		if keep(&l.requests[i]) {
			out = append(out, l.requests[i])
		}
	}
	return out
}
