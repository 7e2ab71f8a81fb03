package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"estimapp/internal/domain"
)

// BoqStats resume los contadores de lineas BOQ para el tablero.
type BoqStats struct {
	TotalEstimations int `json:"totalEstimations"`
}

type BoqRepository interface {
	Create(ctx context.Context, item domain.BoqItem) error
	GetByID(ctx context.Context, id string) (domain.BoqItem, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.BoqItem, error)
	Stats(ctx context.Context) (BoqStats, error)
	Update(ctx context.Context, item domain.BoqItem) error
	Delete(ctx context.Context, id string) error
}

type PgBoqRepository struct {
	pool *pgxpool.Pool
}

func NewPgBoqRepository(pool *pgxpool.Pool) *PgBoqRepository {
	return &PgBoqRepository{pool: pool}
}

const boqColumns = `id, project_id, item_no, description, unit, quantity, material_rate, labor_rate, equipment_rate, created_at`

func (r *PgBoqRepository) Create(ctx context.Context, item domain.BoqItem) error {
	const query = `
		INSERT INTO boq_items (` + boqColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.ProjectID,
		item.ItemNo,
		item.Description,
		item.Unit,
		item.Quantity,
		item.MaterialRate,
		item.LaborRate,
		item.EquipmentRate,
		item.CreatedAt,
	)
	return err
}

func (r *PgBoqRepository) GetByID(ctx context.Context, id string) (domain.BoqItem, error) {
	const query = `SELECT ` + boqColumns + ` FROM boq_items WHERE id = $1`
	return scanBoqItem(r.pool.QueryRow(ctx, query, id))
}

func (r *PgBoqRepository) ListByProject(ctx context.Context, projectID string) ([]domain.BoqItem, error) {
	const query = `SELECT ` + boqColumns + ` FROM boq_items WHERE project_id = $1 ORDER BY item_no`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BoqItem
	for rows.Next() {
		item, err := scanBoqItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *PgBoqRepository) Stats(ctx context.Context) (BoqStats, error) {
	const query = `SELECT COUNT(*) FROM boq_items`
	var s BoqStats
	err := r.pool.QueryRow(ctx, query).Scan(&s.TotalEstimations)
	return s, err
}

func (r *PgBoqRepository) Update(ctx context.Context, item domain.BoqItem) error {
	const query = `
		UPDATE boq_items
		SET item_no = $2, description = $3, unit = $4, quantity = $5,
		    material_rate = $6, labor_rate = $7, equipment_rate = $8
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.ItemNo,
		item.Description,
		item.Unit,
		item.Quantity,
		item.MaterialRate,
		item.LaborRate,
		item.EquipmentRate,
	)
	return err
}

func (r *PgBoqRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM boq_items WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func scanBoqItem(row pgx.Row) (domain.BoqItem, error) {
	var item domain.BoqItem
	err := row.Scan(
		&item.ID,
		&item.ProjectID,
		&item.ItemNo,
		&item.Description,
		&item.Unit,
		&item.Quantity,
		&item.MaterialRate,
		&item.LaborRate,
		&item.EquipmentRate,
		&item.CreatedAt,
	)
	if err != nil {
		return domain.BoqItem{}, err
	}
	return item, nil
}
