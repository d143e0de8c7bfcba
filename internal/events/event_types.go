package events

import (
	"time"

	"github.com/xyzesther/CommunityAssist/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated       EventType = "request_created"
	EventRequestCompleted     EventType = "request_completed"
	EventAppointmentScheduled EventType = "appointment_scheduled"
	EventAppointmentCancelled EventType = "appointment_cancelled"
	EventAppointmentCompleted EventType = "appointment_completed"
)

// Actor encapsulates actor metadata for an event. Subject is the
// identity-provider subject of the caller that triggered it.
type Actor struct {
	Subject string `json:"subject"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID string      `json:"request_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	Title string `json:"title"`
}

// RequestCompletedPayload payload.
type RequestCompletedPayload struct {
	OldStatus domain.RequestStatus `json:"old_status"`
}

// AppointmentScheduledPayload payload.
type AppointmentScheduledPayload struct {
	AppointmentID string    `json:"appointment_id"`
	Time          time.Time `json:"time"`
}

// AppointmentStatusPayload covers cancel/complete transitions.
type AppointmentStatusPayload struct {
	AppointmentID string                   `json:"appointment_id"`
	NewStatus     domain.AppointmentStatus `json:"new_status"`
	RequestStatus domain.RequestStatus     `json:"request_status"`
}
