package domain

import "time"

// ProjectStatus refleja los estados que maneja el tablero.
type ProjectStatus string

const (
	StatusPlanning   ProjectStatus = "Planning"
	StatusInProgress ProjectStatus = "In Progress"
	StatusCompleted  ProjectStatus = "Completed"
)

type Project struct {
	ID         string        `json:"id"`
	OwnerID    string        `json:"-"`
	Name       string        `json:"name"`
	Client     string        `json:"client"`
	Amount     float64       `json:"amount"`
	Status     ProjectStatus `json:"status"`
	Completion int           `json:"completion"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// BoqItem es una linea del bill of quantity de un proyecto. Los montos
// derivados (total y amount) se calculan al responder, no se almacenan.
type BoqItem struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"projectId"`
	ItemNo        string    `json:"itemNo"`
	Description   string    `json:"description"`
	Unit          string    `json:"unit"`
	Quantity      float64   `json:"quantity"`
	MaterialRate  float64   `json:"materialRate"`
	LaborRate     float64   `json:"laborRate"`
	EquipmentRate float64   `json:"equipmentRate"`
	CreatedAt     time.Time `json:"created_at"`
}

// RateAnalysis guarda los insumos del analisis de precio unitario; el
// desglose derivado se recalcula a partir de estos valores.
type RateAnalysis struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"projectId"`
	BoqItemNo       string    `json:"boqItemNo"`
	Description     string    `json:"description"`
	MaterialCost    float64   `json:"materialCost"`
	LaborCost       float64   `json:"laborCost"`
	EquipmentCost   float64   `json:"equipmentCost"`
	OverheadPercent float64   `json:"overheadPercent"`
	ProfitPercent   float64   `json:"profitPercent"`
	CreatedAt       time.Time `json:"created_at"`
}

type TeamMember struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Report struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	Title       string    `json:"title"`
	Kind        string    `json:"kind"`
	GeneratedAt time.Time `json:"generated_at"`
}
