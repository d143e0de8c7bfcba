package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/xyzesther/CommunityAssist/internal/domain"
	"github.com/xyzesther/CommunityAssist/pkg/util"
)

// UserRepository defines persistence access for community members.
type UserRepository interface {
	// GetOrCreateBySubject provisions the user on first sight of an
	// identity-provider subject. Atomic against concurrent first logins.
	GetOrCreateBySubject(ctx context.Context, subjectID, name, email string) (*domain.User, error)
	GetBySubject(ctx context.Context, subjectID string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateBySubject(ctx context.Context, subjectID, name, email string) (*domain.User, error)
}

type userRepository struct {
	db DBTX
}

const userColumns = `id, subject_id, name, email, created_at, updated_at`

func (r *userRepository) GetOrCreateBySubject(ctx context.Context, subjectID, name, email string) (*domain.User, error) {
	// the no-op DO UPDATE makes RETURNING yield the existing row on conflict
	const query = `
        INSERT INTO users (subject_id, name, email)
        VALUES ($1, $2, $3)
        ON CONFLICT (subject_id) DO UPDATE SET subject_id = EXCLUDED.subject_id
        RETURNING ` + userColumns

	return scanUser(r.db.QueryRow(ctx, query, subjectID, name, email))
}

func (r *userRepository) GetBySubject(ctx context.Context, subjectID string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE subject_id=$1`

	user, err := scanUser(r.db.QueryRow(ctx, query, subjectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("user", map[string]any{"subject_id": subjectID})
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) UpdateBySubject(ctx context.Context, subjectID, name, email string) (*domain.User, error) {
	const query = `
        UPDATE users SET name=$2, email=$3, updated_at=NOW()
        WHERE subject_id=$1
        RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, subjectID, name, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("user", map[string]any{"subject_id": subjectID})
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.SubjectID,
		&user.Name,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
