// Package notify fans out request status changes to the students who own them.
package notify

import (
	"context"
	"time"

	"github.com/stemsi/bonafide-backend/internal/model"
)

// Event is published whenever an admin processes a request.
type Event struct {
	RequestID     string              `json:"request_id"`
	StudentID     string              `json:"student_id"`
	Status        model.RequestStatus `json:"status"`
	ProcessedBy   string              `json:"processed_by"`
	ProcessedDate time.Time           `json:"processed_date"`
}

// EventFor builds the event for a processed request.
func EventFor(r *model.BonafideRequest) Event {
	e := Event{
		RequestID: r.ID,
		StudentID: r.StudentID,
		Status:    r.Status,
	}
	if r.ProcessedBy != nil {
		e.ProcessedBy = *r.ProcessedBy
	}
	if r.ProcessedDate != nil {
		e.ProcessedDate = *r.ProcessedDate
	}
	return e
}

// Broker delivers events to subscribers of a student.
//
// Subscribe returns a channel that receives the student's events until the
// returned cancel func is called or ctx ends; the channel is closed then.
type Broker interface {
	Publish(ctx context.Context, e Event) error
	Subscribe(ctx context.Context, studentID string) (<-chan Event, func(), error)
}

const subscriberBuffer = 16
