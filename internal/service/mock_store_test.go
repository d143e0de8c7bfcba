package service

// An in-memory repository.Store used by the service tests. It mirrors the
// behavior the Postgres repositories get from the schema: not-found mapping,
// the delete protection on requests with appointments, and the partial unique
// index allowing at most one non-cancelled appointment per request.

import (
	"context"
	"fmt"
	"time"

	"github.com/xyzesther/CommunityAssist/internal/domain"
	"github.com/xyzesther/CommunityAssist/internal/repository"
	"github.com/xyzesther/CommunityAssist/pkg/util"
)

type memStore struct {
	users        map[string]*domain.User
	userBySubj   map[string]string
	requests     map[string]*domain.Request
	appointments map[string]*domain.Appointment
	seq          int
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[string]*domain.User),
		userBySubj:   make(map[string]string),
		requests:     make(map[string]*domain.Request),
		appointments: make(map[string]*domain.Appointment),
	}
}

func (m *memStore) Users() repository.UserRepository               { return memUsers{m} }
func (m *memStore) Requests() repository.RequestRepository         { return memRequests{m} }
func (m *memStore) Appointments() repository.AppointmentRepository { return memAppointments{m} }

func (m *memStore) InTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(m)
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

// putAppointment injects a row directly, bypassing the uniqueness guard. Used
// to stage states the public API cannot produce.
func (m *memStore) putAppointment(a domain.Appointment) {
	if a.ID == "" {
		a.ID = m.nextID("appt")
	}
	m.appointments[a.ID] = &a
}

type memUsers struct{ s *memStore }

func (r memUsers) GetOrCreateBySubject(_ context.Context, subjectID, name, email string) (*domain.User, error) {
	if id, ok := r.s.userBySubj[subjectID]; ok {
		user := *r.s.users[id]
		return &user, nil
	}
	now := time.Now()
	user := &domain.User{
		ID:        r.s.nextID("user"),
		SubjectID: subjectID,
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.s.users[user.ID] = user
	r.s.userBySubj[subjectID] = user.ID
	result := *user
	return &result, nil
}

func (r memUsers) GetBySubject(_ context.Context, subjectID string) (*domain.User, error) {
	id, ok := r.s.userBySubj[subjectID]
	if !ok {
		return nil, util.NewNotFound("user", map[string]any{"subject_id": subjectID})
	}
	user := *r.s.users[id]
	return &user, nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.s.users[id]
	if !ok {
		return nil, util.NewNotFound("user", map[string]any{"id": id})
	}
	result := *user
	return &result, nil
}

func (r memUsers) UpdateBySubject(_ context.Context, subjectID, name, email string) (*domain.User, error) {
	id, ok := r.s.userBySubj[subjectID]
	if !ok {
		return nil, util.NewNotFound("user", map[string]any{"subject_id": subjectID})
	}
	user := r.s.users[id]
	user.Name = name
	user.Email = email
	user.UpdatedAt = time.Now()
	result := *user
	return &result, nil
}

type memRequests struct{ s *memStore }

func (r memRequests) Create(_ context.Context, request *domain.Request) error {
	request.ID = r.s.nextID("req")
	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now
	stored := *request
	stored.Owner = nil
	r.s.requests[request.ID] = &stored
	return nil
}

func (r memRequests) Update(_ context.Context, request *domain.Request) error {
	stored, ok := r.s.requests[request.ID]
	if !ok {
		return util.NewNotFound("request", map[string]any{"id": request.ID})
	}
	stored.Title = request.Title
	stored.Description = request.Description
	stored.Status = request.Status
	stored.UpdatedAt = time.Now()
	request.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r memRequests) SetStatus(_ context.Context, id string, status domain.RequestStatus) error {
	stored, ok := r.s.requests[id]
	if !ok {
		return util.NewNotFound("request", map[string]any{"id": id})
	}
	stored.Status = status
	stored.UpdatedAt = time.Now()
	return nil
}

func (r memRequests) GetByID(_ context.Context, id string) (*domain.Request, error) {
	stored, ok := r.s.requests[id]
	if !ok {
		return nil, util.NewNotFound("request", map[string]any{"id": id})
	}
	result := *stored
	if owner, ok := r.s.users[stored.UserID]; ok {
		o := *owner
		result.Owner = &o
	}
	return &result, nil
}

func (r memRequests) List(ctx context.Context) ([]domain.Request, error) {
	result := []domain.Request{}
	for id := range r.s.requests {
		request, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, *request)
	}
	return result, nil
}

func (r memRequests) ListByOwner(_ context.Context, userID string) ([]domain.Request, error) {
	result := []domain.Request{}
	for _, stored := range r.s.requests {
		if stored.UserID == userID {
			result = append(result, *stored)
		}
	}
	return result, nil
}

func (r memRequests) Delete(_ context.Context, id string) error {
	if _, ok := r.s.requests[id]; !ok {
		return util.NewNotFound("request", map[string]any{"id": id})
	}
	for _, appointment := range r.s.appointments {
		if appointment.RequestID == id {
			return util.NewConflict("request with appointments cannot be deleted", map[string]any{"id": id})
		}
	}
	delete(r.s.requests, id)
	return nil
}

type memAppointments struct{ s *memStore }

func (r memAppointments) Create(_ context.Context, appointment *domain.Appointment) error {
	if _, ok := r.s.requests[appointment.RequestID]; !ok {
		return util.NewNotFound("request", map[string]any{"id": appointment.RequestID})
	}
	for _, existing := range r.s.appointments {
		if existing.RequestID == appointment.RequestID && existing.Active() {
			return util.NewConflict("an appointment already exists for this request",
				map[string]any{"request_id": appointment.RequestID})
		}
	}
	appointment.ID = r.s.nextID("appt")
	now := time.Now()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now
	stored := *appointment
	stored.Volunteer = nil
	stored.Request = nil
	r.s.appointments[appointment.ID] = &stored
	return nil
}

func (r memAppointments) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	stored, ok := r.s.appointments[id]
	if !ok {
		return nil, util.NewNotFound("appointment", map[string]any{"id": id})
	}
	result := *stored
	if volunteer, ok := r.s.users[stored.VolunteerID]; ok {
		v := *volunteer
		result.Volunteer = &v
	}
	if request, ok := r.s.requests[stored.RequestID]; ok {
		req := *request
		result.Request = &req
	}
	return &result, nil
}

func (r memAppointments) List(ctx context.Context, filter repository.AppointmentFilter) ([]domain.Appointment, error) {
	result := []domain.Appointment{}
	for id, stored := range r.s.appointments {
		if filter.RequestID != nil && stored.RequestID != *filter.RequestID {
			continue
		}
		appointment, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, *appointment)
	}
	return result, nil
}

func (r memAppointments) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.Appointment, error) {
	result := []domain.Appointment{}
	for id, stored := range r.s.appointments {
		if stored.VolunteerID != volunteerID {
			continue
		}
		appointment, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if appointment.Request != nil {
			if owner, ok := r.s.users[appointment.Request.UserID]; ok {
				o := *owner
				appointment.Request.Owner = &o
			}
		}
		result = append(result, *appointment)
	}
	return result, nil
}

func (r memAppointments) UpdateStatus(_ context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	stored, ok := r.s.appointments[id]
	if !ok {
		return nil, util.NewNotFound("appointment", map[string]any{"id": id})
	}
	stored.Status = status
	stored.UpdatedAt = time.Now()
	result := *stored
	return &result, nil
}

func (r memAppointments) Delete(_ context.Context, id string) (*domain.Appointment, error) {
	stored, ok := r.s.appointments[id]
	if !ok {
		return nil, util.NewNotFound("appointment", map[string]any{"id": id})
	}
	delete(r.s.appointments, id)
	result := *stored
	return &result, nil
}

func (r memAppointments) CountActiveForRequest(_ context.Context, requestID string) (int, error) {
	count := 0
	for _, stored := range r.s.appointments {
		if stored.RequestID == requestID && stored.Active() {
			count++
		}
	}
	return count, nil
}

func (r memAppointments) CompleteActiveForRequest(_ context.Context, requestID string) error {
	for _, stored := range r.s.appointments {
		if stored.RequestID == requestID && stored.Active() {
			stored.Status = domain.AppointmentStatusCompleted
			stored.UpdatedAt = time.Now()
		}
	}
	return nil
}
