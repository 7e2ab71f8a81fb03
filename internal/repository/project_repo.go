package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"estimapp/internal/domain"
)

// MonthlyCount agrupa proyectos creados por mes (formato YYYY-MM).
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// ProjectStats resume los contadores del tablero de proyectos.
type ProjectStats struct {
	TotalProjects  int     `json:"totalProjects"`
	ActiveProjects int     `json:"activeProjects"`
	TotalValue     float64 `json:"totalProjectValue"`
}

type ProjectRepository interface {
	Create(ctx context.Context, project domain.Project) error
	GetByID(ctx context.Context, id string) (domain.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error)
	ListRecent(ctx context.Context, ownerID string, limit int) ([]domain.Project, error)
	Count(ctx context.Context, ownerID string) (int, error)
	Stats(ctx context.Context, ownerID string) (ProjectStats, error)
	Monthly(ctx context.Context, ownerID string) ([]MonthlyCount, error)
	Update(ctx context.Context, project domain.Project) error
	Delete(ctx context.Context, id string) error
}

type PgProjectRepository struct {
	pool *pgxpool.Pool
}

func NewPgProjectRepository(pool *pgxpool.Pool) *PgProjectRepository {
	return &PgProjectRepository{pool: pool}
}

const projectColumns = `id, owner_id, name, client, amount, status, completion, created_at, updated_at`

func (r *PgProjectRepository) Create(ctx context.Context, project domain.Project) error {
	const query = `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		project.ID,
		project.OwnerID,
		project.Name,
		project.Client,
		project.Amount,
		project.Status,
		project.Completion,
		project.CreatedAt,
		project.UpdatedAt,
	)
	return err
}

func (r *PgProjectRepository) GetByID(ctx context.Context, id string) (domain.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.pool.QueryRow(ctx, query, id))
}

func (r *PgProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE owner_id = $1 ORDER BY created_at DESC`
	return r.queryProjects(ctx, query, ownerID)
}

func (r *PgProjectRepository) ListRecent(ctx context.Context, ownerID string, limit int) ([]domain.Project, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2`
	return r.queryProjects(ctx, query, ownerID, limit)
}

func (r *PgProjectRepository) Count(ctx context.Context, ownerID string) (int, error) {
	const query = `SELECT COUNT(*) FROM projects WHERE owner_id = $1`
	var n int
	err := r.pool.QueryRow(ctx, query, ownerID).Scan(&n)
	return n, err
}

func (r *PgProjectRepository) Stats(ctx context.Context, ownerID string) (ProjectStats, error) {
	const query = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status <> $2),
		       COALESCE(SUM(amount), 0)
		FROM projects
		WHERE owner_id = $1
	`
	var s ProjectStats
	err := r.pool.QueryRow(ctx, query, ownerID, domain.StatusCompleted).Scan(
		&s.TotalProjects,
		&s.ActiveProjects,
		&s.TotalValue,
	)
	return s, err
}

func (r *PgProjectRepository) Monthly(ctx context.Context, ownerID string) ([]MonthlyCount, error) {
	const query = `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month, COUNT(*)
		FROM projects
		WHERE owner_id = $1
		GROUP BY 1
		ORDER BY 1
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthlyCount
	for rows.Next() {
		var m MonthlyCount
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PgProjectRepository) Update(ctx context.Context, project domain.Project) error {
	const query = `
		UPDATE projects
		SET name = $2, client = $3, amount = $4, status = $5, completion = $6, updated_at = $7
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		project.ID,
		project.Name,
		project.Client,
		project.Amount,
		project.Status,
		project.Completion,
		time.Now().UTC(),
	)
	return err
}

func (r *PgProjectRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM projects WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *PgProjectRepository) queryProjects(ctx context.Context, query string, args ...any) ([]domain.Project, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProject(row pgx.Row) (domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Client,
		&p.Amount,
		&p.Status,
		&p.Completion,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.Project{}, err
	}
	return p, nil
}
