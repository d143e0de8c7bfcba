package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/xyzesther/CommunityAssist/internal/domain"
	"github.com/xyzesther/CommunityAssist/pkg/util"
)

// AppointmentFilter captures listing parameters.
type AppointmentFilter struct {
	RequestID *string
}

// AppointmentRepository encapsulates appointment persistence. Create relies
// on the partial unique index over (request_id) WHERE status <> 'CANCELLED'
// for the single-active-appointment invariant; the violation is surfaced as a
// conflict rather than re-checked in application code.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) error
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	List(ctx context.Context, filter AppointmentFilter) ([]domain.Appointment, error)
	ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error)
	Delete(ctx context.Context, id string) (*domain.Appointment, error)
	CountActiveForRequest(ctx context.Context, requestID string) (int, error)
	CompleteActiveForRequest(ctx context.Context, requestID string) error
}

type appointmentRepository struct {
	db DBTX
}

const appointmentColumns = `id, request_id, volunteer_id, appointment_time, status, created_at, updated_at`

func (r *appointmentRepository) Create(ctx context.Context, appointment *domain.Appointment) error {
	const query = `
        INSERT INTO appointments (request_id, volunteer_id, appointment_time, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		appointment.RequestID,
		appointment.VolunteerID,
		appointment.Time,
		appointment.Status,
	).Scan(&appointment.ID, &appointment.CreatedAt, &appointment.UpdatedAt)
	if err != nil {
		if isPgErrCode(err, pgUniqueViolation) {
			return util.NewConflict("an appointment already exists for this request",
				map[string]any{"request_id": appointment.RequestID})
		}
		if isPgErrCode(err, pgForeignKeyViolation) {
			return util.NewNotFound("request", map[string]any{"id": appointment.RequestID})
		}
		return err
	}
	return nil
}

func (r *appointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	const query = `
        SELECT a.id, a.request_id, a.volunteer_id, a.appointment_time, a.status, a.created_at, a.updated_at,
               v.id, v.subject_id, v.name, v.email, v.created_at, v.updated_at,
               r.id, r.user_id, r.title, r.description, r.status, r.created_at, r.updated_at
        FROM appointments a
        JOIN users v ON v.id = a.volunteer_id
        JOIN requests r ON r.id = a.request_id
        WHERE a.id=$1`

	appointment, err := scanAppointmentJoined(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("appointment", map[string]any{"id": id})
		}
		return nil, err
	}
	return appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, filter AppointmentFilter) ([]domain.Appointment, error) {
	query := `
        SELECT a.id, a.request_id, a.volunteer_id, a.appointment_time, a.status, a.created_at, a.updated_at,
               v.id, v.subject_id, v.name, v.email, v.created_at, v.updated_at,
               r.id, r.user_id, r.title, r.description, r.status, r.created_at, r.updated_at
        FROM appointments a
        JOIN users v ON v.id = a.volunteer_id
        JOIN requests r ON r.id = a.request_id`
	args := []any{}
	if filter.RequestID != nil {
		args = append(args, *filter.RequestID)
		query += ` WHERE a.request_id=$1`
	}
	query += ` ORDER BY a.appointment_time`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Appointment{}
	for rows.Next() {
		appointment, err := scanAppointmentJoined(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *appointment)
	}
	return result, rows.Err()
}

func (r *appointmentRepository) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.Appointment, error) {
	// the request owner rides along so callers can show who asked for help
	const query = `
        SELECT a.id, a.request_id, a.volunteer_id, a.appointment_time, a.status, a.created_at, a.updated_at,
               r.id, r.user_id, r.title, r.description, r.status, r.created_at, r.updated_at,
               u.id, u.subject_id, u.name, u.email, u.created_at, u.updated_at
        FROM appointments a
        JOIN requests r ON r.id = a.request_id
        JOIN users u ON u.id = r.user_id
        WHERE a.volunteer_id=$1
        ORDER BY a.appointment_time`

	rows, err := r.db.Query(ctx, query, volunteerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Appointment{}
	for rows.Next() {
		var appointment domain.Appointment
		var request domain.Request
		var owner domain.User
		if err := rows.Scan(
			&appointment.ID,
			&appointment.RequestID,
			&appointment.VolunteerID,
			&appointment.Time,
			&appointment.Status,
			&appointment.CreatedAt,
			&appointment.UpdatedAt,
			&request.ID,
			&request.UserID,
			&request.Title,
			&request.Description,
			&request.Status,
			&request.CreatedAt,
			&request.UpdatedAt,
			&owner.ID,
			&owner.SubjectID,
			&owner.Name,
			&owner.Email,
			&owner.CreatedAt,
			&owner.UpdatedAt,
		); err != nil {
			return nil, err
		}
		request.Owner = &owner
		appointment.Request = &request
		result = append(result, appointment)
	}
	return result, rows.Err()
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	const query = `
        UPDATE appointments SET status=$2, updated_at=NOW()
        WHERE id=$1
        RETURNING ` + appointmentColumns

	appointment, err := scanAppointment(r.db.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("appointment", map[string]any{"id": id})
		}
		return nil, err
	}
	return appointment, nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) (*domain.Appointment, error) {
	const query = `DELETE FROM appointments WHERE id=$1 RETURNING ` + appointmentColumns

	appointment, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("appointment", map[string]any{"id": id})
		}
		return nil, err
	}
	return appointment, nil
}

func (r *appointmentRepository) CountActiveForRequest(ctx context.Context, requestID string) (int, error) {
	const query = `SELECT COUNT(*) FROM appointments WHERE request_id=$1 AND status <> $2`

	var count int
	if err := r.db.QueryRow(ctx, query, requestID, domain.AppointmentStatusCancelled).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *appointmentRepository) CompleteActiveForRequest(ctx context.Context, requestID string) error {
	// cancelled appointments are terminal and stay cancelled
	const query = `
        UPDATE appointments SET status=$2, updated_at=NOW()
        WHERE request_id=$1 AND status <> $3`

	_, err := r.db.Exec(ctx, query, requestID,
		domain.AppointmentStatusCompleted, domain.AppointmentStatusCancelled)
	return err
}

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var appointment domain.Appointment
	if err := row.Scan(
		&appointment.ID,
		&appointment.RequestID,
		&appointment.VolunteerID,
		&appointment.Time,
		&appointment.Status,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &appointment, nil
}

func scanAppointmentJoined(row pgx.Row) (*domain.Appointment, error) {
	var appointment domain.Appointment
	var volunteer domain.User
	var request domain.Request
	if err := row.Scan(
		&appointment.ID,
		&appointment.RequestID,
		&appointment.VolunteerID,
		&appointment.Time,
		&appointment.Status,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
		&volunteer.ID,
		&volunteer.SubjectID,
		&volunteer.Name,
		&volunteer.Email,
		&volunteer.CreatedAt,
		&volunteer.UpdatedAt,
		&request.ID,
		&request.UserID,
		&request.Title,
		&request.Description,
		&request.Status,
		&request.CreatedAt,
		&request.UpdatedAt,
	); err != nil {
		return nil, err
	}
	appointment.Volunteer = &volunteer
	appointment.Request = &request
	return &appointment, nil
}
