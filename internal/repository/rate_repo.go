package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"estimapp/internal/domain"
)

type RateAnalysisRepository interface {
	Create(ctx context.Context, analysis domain.RateAnalysis) error
	GetByID(ctx context.Context, id string) (domain.RateAnalysis, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.RateAnalysis, error)
	Update(ctx context.Context, analysis domain.RateAnalysis) error
	Delete(ctx context.Context, id string) error
}

type PgRateAnalysisRepository struct {
	pool *pgxpool.Pool
}

func NewPgRateAnalysisRepository(pool *pgxpool.Pool) *PgRateAnalysisRepository {
	return &PgRateAnalysisRepository{pool: pool}
}

const rateColumns = `id, project_id, boq_item_no, description, material_cost, labor_cost, equipment_cost, overhead_percent, profit_percent, created_at`

func (r *PgRateAnalysisRepository) Create(ctx context.Context, analysis domain.RateAnalysis) error {
	const query = `
		INSERT INTO rate_analyses (` + rateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		analysis.ID,
		analysis.ProjectID,
		analysis.BoqItemNo,
		analysis.Description,
		analysis.MaterialCost,
		analysis.LaborCost,
		analysis.EquipmentCost,
		analysis.OverheadPercent,
		analysis.ProfitPercent,
		analysis.CreatedAt,
	)
	return err
}

func (r *PgRateAnalysisRepository) GetByID(ctx context.Context, id string) (domain.RateAnalysis, error) {
	const query = `SELECT ` + rateColumns + ` FROM rate_analyses WHERE id = $1`
	return scanRateAnalysis(r.pool.QueryRow(ctx, query, id))
}

func (r *PgRateAnalysisRepository) ListByProject(ctx context.Context, projectID string) ([]domain.RateAnalysis, error) {
	const query = `SELECT ` + rateColumns + ` FROM rate_analyses WHERE project_id = $1 ORDER BY boq_item_no`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RateAnalysis
	for rows.Next() {
		a, err := scanRateAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PgRateAnalysisRepository) Update(ctx context.Context, analysis domain.RateAnalysis) error {
	const query = `
		UPDATE rate_analyses
		SET boq_item_no = $2, description = $3, material_cost = $4, labor_cost = $5,
		    equipment_cost = $6, overhead_percent = $7, profit_percent = $8
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		analysis.ID,
		analysis.BoqItemNo,
		analysis.Description,
		analysis.MaterialCost,
		analysis.LaborCost,
		analysis.EquipmentCost,
		analysis.OverheadPercent,
		analysis.ProfitPercent,
	)
	return err
}

func (r *PgRateAnalysisRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM rate_analyses WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func scanRateAnalysis(row pgx.Row) (domain.RateAnalysis, error) {
	var a domain.RateAnalysis
	err := row.Scan(
		&a.ID,
		&a.ProjectID,
		&a.BoqItemNo,
		&a.Description,
		&a.MaterialCost,
		&a.LaborCost,
		&a.EquipmentCost,
		&a.OverheadPercent,
		&a.ProfitPercent,
		&a.CreatedAt,
	)
	if err != nil {
		return domain.RateAnalysis{}, err
	}
	return a, nil
}
