package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (id, email, name, avatar, google_id, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.Name, nullString(u.Avatar), nullString(u.GoogleID), u.CreatedAt,
	)
	if err != nil {
		if hasPQCode(err, uniqueViolation) {
			return entity.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	return r.findOne(ctx, `WHERE google_id = $1`, googleID)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	var (
		u        entity.User
		avatar   sql.NullString
		googleID sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, email, name, avatar, google_id, created_at FROM users `+where, arg,
	).Scan(&u.ID, &u.Email, &u.Name, &avatar, &googleID, &u.CreatedAt)
	if noRows(err) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.Avatar = avatar.String
	u.GoogleID = googleID.String
	return &u, nil
}
