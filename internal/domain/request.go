package domain

import "time"

// RequestStatus enumerates lifecycle states for help requests.
type RequestStatus string

const (
	RequestStatusOpen       RequestStatus = "OPEN"
	RequestStatusInProgress RequestStatus = "IN_PROGRESS"
	RequestStatusCompleted  RequestStatus = "COMPLETED"
)

// ValidRequestStatus reports whether s is a known request status.
func ValidRequestStatus(s RequestStatus) bool {
	switch s {
	case RequestStatusOpen, RequestStatusInProgress, RequestStatusCompleted:
		return true
	}
	return false
}

// Request is the aggregate for posted help tasks. A request is OPEN until a
// volunteer schedules an appointment for it, IN_PROGRESS while at least one
// non-cancelled appointment exists, and COMPLETED only by explicit update.
type Request struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Status      RequestStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Owner is populated on reads that join the owning user.
	Owner *User
}
