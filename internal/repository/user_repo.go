package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"estimapp/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByAuth(ctx context.Context, provider, subject string) (domain.User, error)
	UpdateOTP(ctx context.Context, id, otpHash string, otpExpiresAt time.Time) error
	VerifyEmail(ctx context.Context, id string, verifiedAt time.Time) error
	SetPassword(ctx context.Context, id, passwordHash string) error
	LinkOAuth(ctx context.Context, id, provider, subject string) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `
	id, email, first_name, last_name, phone, role,
	auth_provider, auth_subject, password_hash,
	email_verified_at, otp_code_hash, otp_expires_at, created_at
`

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Role,
		user.AuthProvider,
		user.AuthSubject,
		user.PasswordHash,
		user.EmailVerifiedAt,
		user.OtpCodeHash,
		user.OtpExpiresAt,
		user.CreatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PgUserRepository) GetByAuth(ctx context.Context, provider, subject string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE auth_provider = $1 AND auth_subject = $2`
	return r.scanUser(r.pool.QueryRow(ctx, query, provider, subject))
}

func (r *PgUserRepository) UpdateOTP(ctx context.Context, id, otpHash string, otpExpiresAt time.Time) error {
	const query = `UPDATE users SET otp_code_hash = $2, otp_expires_at = $3 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, otpHash, otpExpiresAt)
	return err
}

func (r *PgUserRepository) VerifyEmail(ctx context.Context, id string, verifiedAt time.Time) error {
	const query = `
		UPDATE users
		SET email_verified_at = $2, otp_code_hash = '', otp_expires_at = NULL
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, verifiedAt)
	return err
}

func (r *PgUserRepository) SetPassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, passwordHash)
	return err
}

func (r *PgUserRepository) LinkOAuth(ctx context.Context, id, provider, subject string) error {
	const query = `UPDATE users SET auth_provider = $2, auth_subject = $3 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, provider, subject)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PgUserRepository) scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Phone,
		&u.Role,
		&u.AuthProvider,
		&u.AuthSubject,
		&u.PasswordHash,
		&u.EmailVerifiedAt,
		&u.OtpCodeHash,
		&u.OtpExpiresAt,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
