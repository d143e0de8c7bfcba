package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyzesther/CommunityAssist/internal/domain"
	"github.com/xyzesther/CommunityAssist/internal/events"
	"github.com/xyzesther/CommunityAssist/pkg/util"
)

func newRequestFixture(t *testing.T) (*RequestService, *AppointmentService, *memStore) {
	t.Helper()
	store := newMemStore()
	dispatcher := events.NewInMemoryDispatcher()
	return NewRequestService(store, dispatcher),
		NewAppointmentService(store, nil, dispatcher),
		store
}

func TestCreateRequest_StartsOpen(t *testing.T) {
	requests, _, _ := newRequestFixture(t)

	request, err := requests.Create(context.Background(), alice, "Fix fence", "Broken fence panel")
	require.NoError(t, err)

	assert.NotEmpty(t, request.ID)
	assert.Equal(t, domain.RequestStatusOpen, request.Status)
	assert.Equal(t, "Fix fence", request.Title)
	assert.Equal(t, "Broken fence panel", request.Description)
	require.NotNil(t, request.Owner)
	assert.Equal(t, alice.Subject, request.Owner.SubjectID)
}

func TestCreateRequest_RoundTrip(t *testing.T) {
	requests, _, _ := newRequestFixture(t)

	created, err := requests.Create(context.Background(), alice, "Fix fence", "Broken fence panel")
	require.NoError(t, err)

	fetched, err := requests.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Title, fetched.Title)
	assert.Equal(t, created.Description, fetched.Description)
	assert.Equal(t, created.Status, fetched.Status)
	require.NotNil(t, fetched.Owner)
	assert.Equal(t, alice.Subject, fetched.Owner.SubjectID)
}

func TestCreateRequest_Validation(t *testing.T) {
	requests, _, _ := newRequestFixture(t)

	_, err := requests.Create(context.Background(), alice, "", "Broken fence panel")
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "VALIDATION_FAILED"))

	_, err = requests.Create(context.Background(), alice, "Fix fence", "   ")
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "VALIDATION_FAILED"))
}

func TestUpdateRequest_Fields(t *testing.T) {
	requests, _, _ := newRequestFixture(t)

	created, err := requests.Create(context.Background(), alice, "Fix fence", "Broken fence panel")
	require.NoError(t, err)

	title := "Fix garden fence"
	updated, err := requests.Update(context.Background(), alice, created.ID, RequestUpdateInput{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "Fix garden fence", updated.Title)
	assert.Equal(t, "Broken fence panel", updated.Description)
	assert.Equal(t, domain.RequestStatusOpen, updated.Status)
}

func TestUpdateRequest_NotFound(t *testing.T) {
	requests, _, _ := newRequestFixture(t)

	status := domain.RequestStatusCompleted
	_, err := requests.Update(context.Background(), alice, "missing", RequestUpdateInput{Status: &status})
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "NOT_FOUND"))
}

func TestUpdateRequest_InvalidStatus(t *testing.T) {
	requests, _, _ := newRequestFixture(t)

	created, err := requests.Create(context.Background(), alice, "Fix fence", "Broken fence panel")
	require.NoError(t, err)

	status := domain.RequestStatus("ARCHIVED")
	_, err = requests.Update(context.Background(), alice, created.ID, RequestUpdateInput{Status: &status})
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "VALIDATION_FAILED"))
}

func TestUpdateRequest_CompleteCascadesAppointments(t *testing.T) {
	requests, appointments, store := newRequestFixture(t)
	ctx := context.Background()

	request, err := requests.Create(ctx, alice, "Fix fence", "Broken fence panel")
	require.NoError(t, err)

	// a cancelled appointment stays cancelled; the active one completes
	cancelled, err := appointments.Schedule(ctx, bob, request.ID, time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	_, err = appointments.UpdateStatus(ctx, bob, cancelled.ID, domain.AppointmentStatusCancelled)
	require.NoError(t, err)

	active, err := appointments.Schedule(ctx, bob, request.ID, time.Now().Add(48*time.Hour))
	require.NoError(t, err)

	status := domain.RequestStatusCompleted
	updated, err := requests.Update(ctx, alice, request.ID, RequestUpdateInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusCompleted, updated.Status)

	assert.Equal(t, domain.AppointmentStatusCompleted, store.appointments[active.ID].Status)
	assert.Equal(t, domain.AppointmentStatusCancelled, store.appointments[cancelled.ID].Status)
}

func TestDeleteRequest_BlockedByAppointments(t *testing.T) {
	requests, appointments, _ := newRequestFixture(t)
	ctx := context.Background()

	request, err := requests.Create(ctx, alice, "Fix fence", "Broken fence panel")
	require.NoError(t, err)

	appointment, err := appointments.Schedule(ctx, bob, request.ID, time.Now().Add(24*time.Hour))
	require.NoError(t, err)

	err = requests.Delete(ctx, request.ID)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "CONFLICT"))

	// still blocked after cancellation: the row itself protects the request
	_, err = appointments.UpdateStatus(ctx, bob, appointment.ID, domain.AppointmentStatusCancelled)
	require.NoError(t, err)
	err = requests.Delete(ctx, request.ID)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "CONFLICT"))
}

func TestDeleteRequest_Success(t *testing.T) {
	requests, _, _ := newRequestFixture(t)
	ctx := context.Background()

	request, err := requests.Create(ctx, alice, "Fix fence", "Broken fence panel")
	require.NoError(t, err)

	require.NoError(t, requests.Delete(ctx, request.ID))

	_, err = requests.Get(ctx, request.ID)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "NOT_FOUND"))
}

func TestListByOwner(t *testing.T) {
	requests, _, _ := newRequestFixture(t)
	ctx := context.Background()

	_, err := requests.Create(ctx, alice, "Fix fence", "Broken fence panel")
	require.NoError(t, err)
	_, err = requests.Create(ctx, alice, "Mow lawn", "Front lawn only")
	require.NoError(t, err)
	_, err = requests.Create(ctx, bob, "Walk dog", "Twice a day")
	require.NoError(t, err)

	mine, err := requests.ListByOwner(ctx, alice.Subject)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := requests.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, request := range all {
		assert.NotNil(t, request.Owner)
	}
}
