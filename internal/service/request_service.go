package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xyzesther/CommunityAssist/internal/domain"
	"github.com/xyzesther/CommunityAssist/internal/events"
	"github.com/xyzesther/CommunityAssist/internal/repository"
	"github.com/xyzesther/CommunityAssist/pkg/util"
)

// RequestService coordinates the help-request lifecycle.
type RequestService struct {
	store      repository.Store
	dispatcher events.Dispatcher
}

// NewRequestService constructs the service.
func NewRequestService(store repository.Store, dispatcher events.Dispatcher) *RequestService {
	return &RequestService{store: store, dispatcher: dispatcher}
}

// RequestUpdateInput describes a partial update; nil fields stay unchanged.
type RequestUpdateInput struct {
	Title       *string
	Description *string
	Status      *domain.RequestStatus
}

// Create posts a new help request. Title and description are required; the
// request always starts OPEN.
func (s *RequestService) Create(ctx context.Context, caller Caller, title, description string) (*domain.Request, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if title == "" {
		return nil, util.NewValidationError("the title is required", nil)
	}
	if description == "" {
		return nil, util.NewValidationError("the description is required", nil)
	}

	owner, err := s.store.Users().GetOrCreateBySubject(ctx, caller.Subject, caller.Name, caller.Email)
	if err != nil {
		return nil, err
	}

	request := &domain.Request{
		UserID:      owner.ID,
		Title:       title,
		Description: description,
		Status:      domain.RequestStatusOpen,
	}
	if err := s.store.Requests().Create(ctx, request); err != nil {
		return nil, err
	}
	request.Owner = owner

	s.publish(ctx, events.Event{
		Type:      events.EventRequestCreated,
		RequestID: request.ID,
		Actor:     events.Actor{Subject: caller.Subject},
		Payload:   events.RequestCreatedPayload{Title: request.Title},
	})
	return request, nil
}

// Get fetches a request with its owner joined.
func (s *RequestService) Get(ctx context.Context, id string) (*domain.Request, error) {
	return s.store.Requests().GetByID(ctx, id)
}

// List returns all requests with owners joined.
func (s *RequestService) List(ctx context.Context) ([]domain.Request, error) {
	return s.store.Requests().List(ctx)
}

// ListByOwner returns the caller's own requests.
func (s *RequestService) ListByOwner(ctx context.Context, subject string) ([]domain.Request, error) {
	owner, err := s.store.Users().GetBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	return s.store.Requests().ListByOwner(ctx, owner.ID)
}

// Update applies the provided fields. Setting the status to COMPLETED also
// completes every active appointment of the request, in the same transaction.
// Other status values cascade nothing.
func (s *RequestService) Update(ctx context.Context, caller Caller, id string, input RequestUpdateInput) (*domain.Request, error) {
	if input.Status != nil && !domain.ValidRequestStatus(*input.Status) {
		return nil, util.NewValidationError("invalid request status",
			map[string]any{"status": string(*input.Status)})
	}

	var updated *domain.Request
	var oldStatus domain.RequestStatus

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		request, err := tx.Requests().GetByID(ctx, id)
		if err != nil {
			return err
		}
		oldStatus = request.Status

		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return util.NewValidationError("the title is required", nil)
			}
			request.Title = title
		}
		if input.Description != nil {
			description := strings.TrimSpace(*input.Description)
			if description == "" {
				return util.NewValidationError("the description is required", nil)
			}
			request.Description = description
		}
		if input.Status != nil {
			request.Status = *input.Status
		}

		if err := tx.Requests().Update(ctx, request); err != nil {
			return err
		}
		if request.Status == domain.RequestStatusCompleted {
			if err := tx.Appointments().CompleteActiveForRequest(ctx, request.ID); err != nil {
				return err
			}
		}
		updated = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated.Status == domain.RequestStatusCompleted && oldStatus != domain.RequestStatusCompleted {
		s.publish(ctx, events.Event{
			Type:      events.EventRequestCompleted,
			RequestID: updated.ID,
			Actor:     events.Actor{Subject: caller.Subject},
			Payload:   events.RequestCompletedPayload{OldStatus: oldStatus},
		})
	}
	return updated, nil
}

// Delete removes a request by id. Requests with any appointment, whatever its
// status, are protected by the foreign key and rejected with a conflict.
func (s *RequestService) Delete(ctx context.Context, id string) error {
	return s.store.Requests().Delete(ctx, id)
}

func (s *RequestService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
