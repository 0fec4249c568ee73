package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/bonafide-backend/internal/model"
)

func TestMemoryBroker_DeliversToOwnStudentOnly(t *testing.T) {
	b := NewMemoryBroker()
	ctx := context.Background()

	mine, cancelMine, err := b.Subscribe(ctx, "s-1")
	require.NoError(t, err)
	defer cancelMine()
	other, cancelOther, err := b.Subscribe(ctx, "s-2")
	require.NoError(t, err)
	defer cancelOther()

	require.NoError(t, b.Publish(ctx, Event{RequestID: "r-1", StudentID: "s-1", Status: model.StatusApproved}))

	select {
	case e := <-mine:
		assert.Equal(t, "r-1", e.RequestID)
		assert.Equal(t, model.StatusApproved, e.Status)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	select {
	case e := <-other:
		t.Fatalf("unexpected event for other student: %+v", e)
	default:
	}
}

func TestMemoryBroker_CancelClosesChannel(t *testing.T) {
	b := NewMemoryBroker()
	ch, cancel, err := b.Subscribe(context.Background(), "s-1")
	require.NoError(t, err)

	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.NoError(t, b.Publish(context.Background(), Event{StudentID: "s-1"}))
}

func TestMemoryBroker_ContextEndsSubscription(t *testing.T) {
	b := NewMemoryBroker()
	ctx, cancel := context.WithCancel(context.Background())
	ch, _, err := b.Subscribe(ctx, "s-1")
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancel")
	}
}

func TestEventFor(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	by := "Dr. Evelyn Reed"
	e := EventFor(&model.BonafideRequest{
		ID: "r-1", StudentID: "s-1", Status: model.StatusRejected,
		ProcessedBy: &by, ProcessedDate: &at,
	})
	assert.Equal(t, Event{RequestID: "r-1", StudentID: "s-1", Status: model.StatusRejected, ProcessedBy: by, ProcessedDate: at}, e)
}
