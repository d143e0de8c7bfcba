package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xyzesther/CommunityAssist/internal/domain"
	"github.com/xyzesther/CommunityAssist/internal/events"
	"github.com/xyzesther/CommunityAssist/internal/persistence"
	"github.com/xyzesther/CommunityAssist/internal/repository"
	"github.com/xyzesther/CommunityAssist/pkg/util"
)

// AppointmentService coordinates scheduling and the status rules that tie
// appointments back to their parent request.
type AppointmentService struct {
	store      repository.Store
	locker     persistence.Locker
	dispatcher events.Dispatcher
}

// NewAppointmentService constructs the service.
func NewAppointmentService(store repository.Store, locker persistence.Locker, dispatcher events.Dispatcher) *AppointmentService {
	if locker == nil {
		locker = persistence.NoopLocker{}
	}
	return &AppointmentService{store: store, locker: locker, dispatcher: dispatcher}
}

// Schedule books the caller as volunteer for a request. The request moves to
// IN_PROGRESS in the same transaction that inserts the appointment; a second
// active appointment for the request is rejected with a conflict by the
// partial unique index, with the per-request lock serializing racers in front
// of it.
func (s *AppointmentService) Schedule(ctx context.Context, caller Caller, requestID string, at time.Time) (*domain.Appointment, error) {
	requestID = strings.TrimSpace(requestID)
	if at.IsZero() {
		return nil, util.NewValidationError("the appointment time is required", nil)
	}
	if requestID == "" {
		return nil, util.NewValidationError("the request is required", nil)
	}

	volunteer, err := s.store.Users().GetOrCreateBySubject(ctx, caller.Subject, caller.Name, caller.Email)
	if err != nil {
		return nil, err
	}

	appointment := &domain.Appointment{
		RequestID:   requestID,
		VolunteerID: volunteer.ID,
		Time:        at,
		Status:      domain.AppointmentStatusScheduled,
	}

	err = s.locker.WithRequestLock(ctx, requestID, func(lockCtx context.Context) error {
		return s.store.InTx(lockCtx, func(tx repository.Store) error {
			if err := tx.Appointments().Create(lockCtx, appointment); err != nil {
				return err
			}
			return tx.Requests().SetStatus(lockCtx, requestID, domain.RequestStatusInProgress)
		})
	})
	if err != nil {
		if errors.Is(err, persistence.ErrLockNotAcquired) {
			return nil, util.NewConflict("request is currently being scheduled, please retry",
				map[string]any{"request_id": requestID})
		}
		return nil, err
	}
	appointment.Volunteer = volunteer

	s.publish(ctx, events.Event{
		Type:      events.EventAppointmentScheduled,
		RequestID: requestID,
		Actor:     events.Actor{Subject: caller.Subject},
		Payload: events.AppointmentScheduledPayload{
			AppointmentID: appointment.ID,
			Time:          appointment.Time,
		},
	})
	return appointment, nil
}

// Get fetches an appointment with volunteer and request joined.
func (s *AppointmentService) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.store.Appointments().GetByID(ctx, id)
}

// List returns appointments, optionally filtered by request.
func (s *AppointmentService) List(ctx context.Context, requestID *string) ([]domain.Appointment, error) {
	return s.store.Appointments().List(ctx, repository.AppointmentFilter{RequestID: requestID})
}

// ListByVolunteer returns the caller's appointments with each request and its
// owner joined.
func (s *AppointmentService) ListByVolunteer(ctx context.Context, subject string) ([]domain.Appointment, error) {
	volunteer, err := s.store.Users().GetBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	return s.store.Appointments().ListByVolunteer(ctx, volunteer.ID)
}

// UpdateStatus sets an appointment's status. Cancelling re-checks the parent
// request inside the transaction: when no active appointment remains, the
// request reverts to OPEN. Completing cascades nothing.
func (s *AppointmentService) UpdateStatus(ctx context.Context, caller Caller, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	if !domain.ValidAppointmentStatus(status) {
		return nil, util.NewValidationError("invalid appointment status",
			map[string]any{"status": string(status)})
	}

	var appointment *domain.Appointment
	var requestStatus domain.RequestStatus

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		updated, err := tx.Appointments().UpdateStatus(ctx, id, status)
		if err != nil {
			return err
		}
		appointment = updated

		if status == domain.AppointmentStatusCancelled {
			requestStatus, err = s.revertRequestIfIdle(ctx, tx, appointment.RequestID)
			return err
		}

		request, err := tx.Requests().GetByID(ctx, appointment.RequestID)
		if err != nil {
			return err
		}
		requestStatus = request.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch status {
	case domain.AppointmentStatusCancelled:
		s.publishStatus(ctx, events.EventAppointmentCancelled, caller, appointment, requestStatus)
	case domain.AppointmentStatusCompleted:
		s.publishStatus(ctx, events.EventAppointmentCompleted, caller, appointment, requestStatus)
	}
	return appointment, nil
}

// Delete removes an appointment. A deleted active appointment frees its
// request the same way a cancellation does: when nothing active remains, the
// request reverts to OPEN.
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	return s.store.InTx(ctx, func(tx repository.Store) error {
		appointment, err := tx.Appointments().Delete(ctx, id)
		if err != nil {
			return err
		}
		if !appointment.Active() {
			return nil
		}
		_, err = s.revertRequestIfIdle(ctx, tx, appointment.RequestID)
		return err
	})
}

func (s *AppointmentService) revertRequestIfIdle(ctx context.Context, tx repository.Store, requestID string) (domain.RequestStatus, error) {
	active, err := tx.Appointments().CountActiveForRequest(ctx, requestID)
	if err != nil {
		return "", err
	}
	if active > 0 {
		return domain.RequestStatusInProgress, nil
	}
	if err := tx.Requests().SetStatus(ctx, requestID, domain.RequestStatusOpen); err != nil {
		return "", err
	}
	return domain.RequestStatusOpen, nil
}

func (s *AppointmentService) publishStatus(ctx context.Context, eventType events.EventType, caller Caller, appointment *domain.Appointment, requestStatus domain.RequestStatus) {
	s.publish(ctx, events.Event{
		Type:      eventType,
		RequestID: appointment.RequestID,
		Actor:     events.Actor{Subject: caller.Subject},
		Payload: events.AppointmentStatusPayload{
			AppointmentID: appointment.ID,
			NewStatus:     appointment.Status,
			RequestStatus: requestStatus,
		},
	})
}

func (s *AppointmentService) publish(ctx context.Context, event events.Event) {
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
