package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/xyzesther/CommunityAssist/internal/domain"
	"github.com/xyzesther/CommunityAssist/pkg/util"
)

// RequestRepository encapsulates help-request persistence.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.Request) error
	Update(ctx context.Context, request *domain.Request) error
	SetStatus(ctx context.Context, id string, status domain.RequestStatus) error
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	List(ctx context.Context) ([]domain.Request, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.Request, error)
	Delete(ctx context.Context, id string) error
}

type requestRepository struct {
	db DBTX
}

func (r *requestRepository) Create(ctx context.Context, request *domain.Request) error {
	const query = `
        INSERT INTO requests (user_id, title, description, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		request.UserID,
		request.Title,
		request.Description,
		request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
}

func (r *requestRepository) Update(ctx context.Context, request *domain.Request) error {
	const query = `
        UPDATE requests SET title=$1, description=$2, status=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		request.Title,
		request.Description,
		request.Status,
		request.ID,
	).Scan(&request.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return util.NewNotFound("request", map[string]any{"id": request.ID})
	}
	return err
}

func (r *requestRepository) SetStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	const query = `UPDATE requests SET status=$2, updated_at=NOW() WHERE id=$1`

	cmd, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return util.NewNotFound("request", map[string]any{"id": id})
	}
	return nil
}

const requestWithOwnerQuery = `
        SELECT r.id, r.user_id, r.title, r.description, r.status, r.created_at, r.updated_at,
               u.id, u.subject_id, u.name, u.email, u.created_at, u.updated_at
        FROM requests r
        JOIN users u ON u.id = r.user_id`

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	request, err := scanRequestWithOwner(r.db.QueryRow(ctx, requestWithOwnerQuery+` WHERE r.id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("request", map[string]any{"id": id})
		}
		return nil, err
	}
	return request, nil
}

func (r *requestRepository) List(ctx context.Context) ([]domain.Request, error) {
	rows, err := r.db.Query(ctx, requestWithOwnerQuery+` ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Request{}
	for rows.Next() {
		request, err := scanRequestWithOwner(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *request)
	}
	return result, rows.Err()
}

func (r *requestRepository) ListByOwner(ctx context.Context, userID string) ([]domain.Request, error) {
	const query = `
        SELECT id, user_id, title, description, status, created_at, updated_at
        FROM requests WHERE user_id=$1
        ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Request{}
	for rows.Next() {
		var request domain.Request
		if err := rows.Scan(
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
		result = append(result, request)
	}
	return result, rows.Err()
}

func (r *requestRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM requests WHERE id=$1`, id)
	if err != nil {
		if isPgErrCode(err, pgForeignKeyViolation) {
			return util.NewConflict("request with appointments cannot be deleted", map[string]any{"id": id})
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return util.NewNotFound("request", map[string]any{"id": id})
	}
	return nil
}

func scanRequestWithOwner(row pgx.Row) (*domain.Request, error) {
	var request domain.Request
	var owner domain.User
	if err := row.Scan(
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
	return &request, nil
}
