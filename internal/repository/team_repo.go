package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"estimapp/internal/domain"
)

type TeamRepository interface {
	Add(ctx context.Context, member domain.TeamMember) error
	List(ctx context.Context) ([]domain.TeamMember, error)
	CountMembers(ctx context.Context) (int, error)
	Remove(ctx context.Context, id string) error
}

type PgTeamRepository struct {
	pool *pgxpool.Pool
}

func NewPgTeamRepository(pool *pgxpool.Pool) *PgTeamRepository {
	return &PgTeamRepository{pool: pool}
}

const teamColumns = `id, email, first_name, last_name, role, created_at`

func (r *PgTeamRepository) Add(ctx context.Context, member domain.TeamMember) error {
	const query = `
		INSERT INTO team_members (` + teamColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		member.ID,
		member.Email,
		member.FirstName,
		member.LastName,
		member.Role,
		member.CreatedAt,
	)
	return err
}

func (r *PgTeamRepository) List(ctx context.Context) ([]domain.TeamMember, error) {
	const query = `SELECT ` + teamColumns + ` FROM team_members ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TeamMember
	for rows.Next() {
		m, err := scanTeamMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PgTeamRepository) CountMembers(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM team_members`
	var n int
	err := r.pool.QueryRow(ctx, query).Scan(&n)
	return n, err
}

func (r *PgTeamRepository) Remove(ctx context.Context, id string) error {
	const query = `DELETE FROM team_members WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func scanTeamMember(row pgx.Row) (domain.TeamMember, error) {
	var m domain.TeamMember
	err := row.Scan(
		&m.ID,
		&m.Email,
		&m.FirstName,
		&m.LastName,
		&m.Role,
		&m.CreatedAt,
	)
	if err != nil {
		return domain.TeamMember{}, err
	}
	return m, nil
}
