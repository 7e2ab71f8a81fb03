package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"estimapp/internal/domain"
)

// ReportStats resume los reportes generados.
type ReportStats struct {
	TotalReports int `json:"totalReports"`
}

type ReportRepository interface {
	Create(ctx context.Context, report domain.Report) error
	List(ctx context.Context) ([]domain.Report, error)
	Stats(ctx context.Context) (ReportStats, error)
	Delete(ctx context.Context, id string) error
}

type PgReportRepository struct {
	pool *pgxpool.Pool
}

func NewPgReportRepository(pool *pgxpool.Pool) *PgReportRepository {
	return &PgReportRepository{pool: pool}
}

const reportColumns = `id, project_id, title, kind, generated_at`

func (r *PgReportRepository) Create(ctx context.Context, report domain.Report) error {
	const query = `
		INSERT INTO reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		report.ID,
		report.ProjectID,
		report.Title,
		report.Kind,
		report.GeneratedAt,
	)
	return err
}

func (r *PgReportRepository) List(ctx context.Context) ([]domain.Report, error) {
	const query = `SELECT ` + reportColumns + ` FROM reports ORDER BY generated_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *PgReportRepository) Stats(ctx context.Context) (ReportStats, error) {
	const query = `SELECT COUNT(*) FROM reports`
	var s ReportStats
	err := r.pool.QueryRow(ctx, query).Scan(&s.TotalReports)
	return s, err
}

func (r *PgReportRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM reports WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func scanReport(row pgx.Row) (domain.Report, error) {
	var rep domain.Report
	err := row.Scan(
		&rep.ID,
		&rep.ProjectID,
		&rep.Title,
		&rep.Kind,
		&rep.GeneratedAt,
	)
	if err != nil {
		return domain.Report{}, err
	}
	return rep, nil
}
