package websocket

import (
	"time"

	"github.com/stemsi/bonafide-backend/internal/model"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError         Event = "error"
	EventConnected     Event = "connected"
	EventStatusChanged Event = "status_changed"
	EventPong          Event = "pong"
)

// ConnectedResponse is sent once after the upgrade.
type ConnectedResponse struct {
	Event     Event  `json:"event"`
	StudentID string `json:"student_id"`
}

// StatusChangedResponse announces a decision on one of the student's requests.
type StatusChangedResponse struct {
	Event         Event               `json:"event"`
	RequestID     string              `json:"request_id"`
	Status        model.RequestStatus `json:"status"`
	ProcessedBy   string              `json:"processed_by"`
	ProcessedDate time.Time           `json:"processed_date"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
