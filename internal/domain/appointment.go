package domain

import "time"

// AppointmentStatus enumerates lifecycle states for appointments.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// ValidAppointmentStatus reports whether s is a known appointment status.
func ValidAppointmentStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Appointment is a volunteer's commitment to fulfill one request. At most one
// active (non-CANCELLED) appointment may exist per request at any time.
type Appointment struct {
	ID          string
	RequestID   string
	VolunteerID string
	Time        time.Time
	Status      AppointmentStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Volunteer and Request are populated on reads that join them.
	Volunteer *User
	Request   *Request
}

// Active reports whether the appointment still counts against its request's
// single-active-appointment slot.
func (a *Appointment) Active() bool {
	return a.Status != AppointmentStatusCancelled
}
