package repositories

import (
	"context"
	"database/sql"
	"time"

	"fieldservice/internal/models"
)

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByRefreshToken(ctx context.Context, token string) (*models.User, error)
	UpdateRefresh(ctx context.Context, id int64, token string, expiresAt time.Time) error
	RotateRefresh(ctx context.Context, oldToken, newToken string, expiresAt time.Time) (*models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, telegram_chat_id, refresh_token, refresh_expires_at, refresh_revoked`

func scanUser(row interface{ Scan(...interface{}) error }, u *models.User) error {
	return row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.TelegramChatID, &u.RefreshToken, &u.RefreshExpiresAt, &u.RefreshRevoked,
	)
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	u := &models.User{}
	err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id), u)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email), u)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) FindByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	u := &models.User{}
	err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE refresh_token = $1`, token), u)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) UpdateRefresh(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=false
		WHERE id=$3`,
		token, expiresAt, id)
	return err
}

// RotateRefresh swaps the stored token in a single guarded update so a
// replayed old token cannot race a concurrent rotation.
func (r *userRepository) RotateRefresh(ctx context.Context, oldToken, newToken string, expiresAt time.Time) (*models.User, error) {
	u := &models.User{}
	err := scanUser(r.db.QueryRowContext(ctx, `
		UPDATE users
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=false
		WHERE refresh_token=$3 AND NOT refresh_revoked
		RETURNING `+userColumns,
		newToken, expiresAt, oldToken), u)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
