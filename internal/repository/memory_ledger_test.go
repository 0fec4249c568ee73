package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/bonafide-backend/internal/model"
)

func pending(id, studentID, collegeID string) *model.BonafideRequest {
	return &model.BonafideRequest{
		ID:          id,
		StudentID:   studentID,
		CollegeID:   collegeID,
		Purpose:     "passport",
		Status:      model.StatusPending,
		RequestDate: time.Now(),
	}
}

func TestMemoryLedger_InsertPrepends(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedgerRepository()

	require.NoError(t, l.Insert(ctx, pending("r-1", "s-1", "c-1")))
	require.NoError(t, l.Insert(ctx, pending("r-2", "s-2", "c-1")))
	require.NoError(t, l.Insert(ctx, pending("r-3", "s-1", "c-2")))

	all, err := l.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"r-3", "r-2", "r-1"}, ids(all))
}

func TestMemoryLedger_ListByStudentIsOrderedSubset(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedgerRepository()
	for i, s := range []string{"s-1", "s-2", "s-1", "s-3", "s-1"} {
		require.NoError(t, l.Insert(ctx, pending("r-"+string(rune('a'+i)), s, "c-1")))
	}

	all, err := l.ListAll(ctx)
	require.NoError(t, err)
	mine, err := l.ListByStudent(ctx, "s-1")
	require.NoError(t, err)

	var want []model.BonafideRequest
	for _, r := range all {
		if r.StudentID == "s-1" {
			want = append(want, r)
		}
	}
	assert.Equal(t, want, mine)
	assert.Equal(t, []string{"r-e", "r-c", "r-a"}, ids(mine))
}

func TestMemoryLedger_ListByCollege(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedgerRepository()
	require.NoError(t, l.Insert(ctx, pending("r-1", "s-1", "c-1")))
	require.NoError(t, l.Insert(ctx, pending("r-2", "s-2", "c-2")))

	got, err := l.ListByCollege(ctx, "c-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"r-2"}, ids(got))
}

func TestMemoryLedger_SetStatus(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedgerRepository()
	require.NoError(t, l.Insert(ctx, pending("r-1", "s-1", "c-1")))
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	approved, err := l.SetStatus(ctx, "r-1", model.StatusApproved, "Dr. Reed", at)
	require.NoError(t, err)
	require.NotNil(t, approved)
	assert.Equal(t, model.StatusApproved, approved.Status)
	require.NotNil(t, approved.ProcessedBy)
	assert.Equal(t, "Dr. Reed", *approved.ProcessedBy)
	require.NotNil(t, approved.ProcessedDate)
	assert.True(t, at.Equal(*approved.ProcessedDate))
	require.NotNil(t, approved.CertificatePath)
	assert.Equal(t, "certificates/r-1.pdf", *approved.CertificatePath)

	// The ledger itself accepts re-transitions and clears the certificate path.
	rejected, err := l.SetStatus(ctx, "r-1", model.StatusRejected, "Registrar", at.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, rejected.Status)
	assert.Nil(t, rejected.CertificatePath)
	assert.Equal(t, "Registrar", *rejected.ProcessedBy)

	stored, err := l.Get(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, rejected, stored)
}

func TestMemoryLedger_SetStatusUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedgerRepository()
	require.NoError(t, l.Insert(ctx, pending("r-1", "s-1", "c-1")))

	got, err := l.SetStatus(ctx, "missing", model.StatusApproved, "Dr. Reed", time.Now())
	require.NoError(t, err)
	assert.Nil(t, got)

	r, err := l.Get(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, r.Status)
	assert.Nil(t, r.ProcessedDate)

	_, err = l.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func ids(rs []model.BonafideRequest) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestMemoryLedger_DecideOnlyFromPending(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedgerRepository()
	require.NoError(t, l.Insert(ctx, pending("r-1", "s-1", "c-1")))
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	approved, err := l.Decide(ctx, "r-1", model.StatusApproved, "Dr. Reed", at)
	require.NoError(t, err)
	require.NotNil(t, approved)
	assert.Equal(t, model.StatusApproved, approved.Status)

	_, err = l.Decide(ctx, "r-1", model.StatusRejected, "Registrar", at.Add(time.Hour))
	assert.ErrorIs(t, err, ErrNotPending)

	stored, err := l.Get(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, stored.Status)
	assert.Equal(t, "Dr. Reed", *stored.ProcessedBy)

	got, err := l.Decide(ctx, "missing", model.StatusApproved, "Dr. Reed", at)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryLedger_ConcurrentDecideHasOneWinner(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedgerRepository()
	require.NoError(t, l.Insert(ctx, pending("r-1", "s-1", "c-1")))

	const deciders = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < deciders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := model.StatusApproved
			if i%2 == 1 {
				status = model.StatusRejected
			}
			r, err := l.Decide(ctx, "r-1", status, "Admin", time.Now())
			if err == nil && r != nil {
				mu.Lock()
				winners++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrNotPending)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}
