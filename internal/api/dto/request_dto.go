package dto

import (
	"time"

	"github.com/xyzesther/CommunityAssist/internal/domain"
)

// CreateRequestRequest payload.
type CreateRequestRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateRequestRequest payload; omitted fields stay unchanged.
type UpdateRequestRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// RequestResponse represents a help request.
type RequestResponse struct {
	ID          string               `json:"id"`
	UserID      string               `json:"user_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      domain.RequestStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	User        *UserResponse        `json:"user,omitempty"`
}

// NewRequestResponse maps a domain request, including the owner when joined.
func NewRequestResponse(request *domain.Request) RequestResponse {
	resp := RequestResponse{
		ID:          request.ID,
		UserID:      request.UserID,
		Title:       request.Title,
		Description: request.Description,
		Status:      request.Status,
		CreatedAt:   request.CreatedAt,
		UpdatedAt:   request.UpdatedAt,
	}
	if request.Owner != nil {
		owner := NewUserResponse(request.Owner)
		resp.User = &owner
	}
	return resp
}
