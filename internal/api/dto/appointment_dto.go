package dto

import (
	"time"

	"github.com/xyzesther/CommunityAssist/internal/domain"
)

// CreateAppointmentRequest payload. AppointmentTime is RFC3339.
type CreateAppointmentRequest struct {
	RequestID       string     `json:"request_id"`
	AppointmentTime *time.Time `json:"appointment_time"`
}

// UpdateAppointmentRequest payload.
type UpdateAppointmentRequest struct {
	Status string `json:"status"`
}

// AppointmentResponse represents a scheduled commitment.
type AppointmentResponse struct {
	ID              string                   `json:"id"`
	RequestID       string                   `json:"request_id"`
	VolunteerID     string                   `json:"volunteer_id"`
	AppointmentTime time.Time                `json:"appointment_time"`
	Status          domain.AppointmentStatus `json:"status"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
	Volunteer       *UserResponse            `json:"volunteer,omitempty"`
	Request         *RequestResponse         `json:"request,omitempty"`
}

// NewAppointmentResponse maps a domain appointment, including joined records.
func NewAppointmentResponse(appointment *domain.Appointment) AppointmentResponse {
	resp := AppointmentResponse{
		ID:              appointment.ID,
		RequestID:       appointment.RequestID,
		VolunteerID:     appointment.VolunteerID,
		AppointmentTime: appointment.Time,
		Status:          appointment.Status,
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}
	if appointment.Volunteer != nil {
		volunteer := NewUserResponse(appointment.Volunteer)
		resp.Volunteer = &volunteer
	}
	if appointment.Request != nil {
		request := NewRequestResponse(appointment.Request)
		resp.Request = &request
	}
	return resp
}
