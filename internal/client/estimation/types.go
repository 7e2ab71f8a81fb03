package estimation

import "time"

// Registros tipados del back-office, uno por recurso. Reemplazan los
// formularios sin tipo del front original.

type Project struct {
	ID         string    `json:"id,omitempty"`
	Name       string    `json:"name"`
	Client     string    `json:"client"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"`
	Completion int       `json:"completion"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// BoqItem lleva los insumos de una linea del BOQ; TotalRate y Amount son
// derivados y los calcula quien responde, nunca se envian como fuente.
type BoqItem struct {
	ID            string    `json:"id,omitempty"`
	ProjectID     string    `json:"projectId,omitempty"`
	ItemNo        string    `json:"itemNo"`
	Description   string    `json:"description"`
	Unit          string    `json:"unit"`
	Quantity      float64   `json:"quantity"`
	MaterialRate  float64   `json:"materialRate"`
	LaborRate     float64   `json:"laborRate"`
	EquipmentRate float64   `json:"equipmentRate"`
	TotalRate     float64   `json:"totalRate,omitempty"`
	Amount        float64   `json:"amount,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// RateAnalysis lleva los insumos del analisis; los montos derivados llegan
// recalculados en cada respuesta.
type RateAnalysis struct {
	ID              string    `json:"id,omitempty"`
	ProjectID       string    `json:"projectId"`
	BoqItemNo       string    `json:"boqItemNo"`
	Description     string    `json:"description"`
	MaterialCost    float64   `json:"materialCost"`
	LaborCost       float64   `json:"laborCost"`
	EquipmentCost   float64   `json:"equipmentCost"`
	OverheadPercent float64   `json:"overheadPercent"`
	ProfitPercent   float64   `json:"profitPercent"`
	Subtotal        float64   `json:"subtotal,omitempty"`
	OverheadAmount  float64   `json:"overheadAmount,omitempty"`
	ProfitAmount    float64   `json:"profitAmount,omitempty"`
	TotalRate       float64   `json:"totalRate,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

type TeamMember struct {
	ID        string    `json:"id,omitempty"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type Report struct {
	ID          string    `json:"id,omitempty"`
	ProjectID   string    `json:"projectId"`
	Title       string    `json:"title"`
	Kind        string    `json:"kind"`
	GeneratedAt time.Time `json:"generated_at,omitempty"`
}

type ProjectStats struct {
	TotalProjects  int     `json:"totalProjects"`
	ActiveProjects int     `json:"activeProjects"`
	TotalValue     float64 `json:"totalProjectValue"`
}

type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// DashboardStats son los contadores compuestos del tablero.
type DashboardStats struct {
	TotalProjects    int `json:"totalProjects"`
	TotalEstimations int `json:"totalEstimations"`
	TeamMembers      int `json:"teamMembers"`
	Reports          int `json:"reports"`
}

// Recursos secundarios del back-office.

type Drawing struct {
	ID        string    `json:"id,omitempty"`
	ProjectID string    `json:"projectId"`
	Title     string    `json:"title"`
	Sheet     string    `json:"sheet"`
	Revision  string    `json:"revision"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type DimensionSheet struct {
	ID          string    `json:"id,omitempty"`
	ProjectID   string    `json:"projectId"`
	ItemNo      string    `json:"itemNo"`
	Description string    `json:"description"`
	Length      float64   `json:"length"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Count       int       `json:"count"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

type EquipmentCost struct {
	ID         string    `json:"id,omitempty"`
	ProjectID  string    `json:"projectId"`
	Name       string    `json:"name"`
	HourlyRate float64   `json:"hourlyRate"`
	Hours      float64   `json:"hours"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

type LaborProductivityEntry struct {
	ID           string    `json:"id,omitempty"`
	ProjectID    string    `json:"projectId"`
	Trade        string    `json:"trade"`
	Crew         string    `json:"crew"`
	OutputPerDay float64   `json:"outputPerDay"`
	Unit         string    `json:"unit"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

type MaterialTakeoffItem struct {
	ID        string    `json:"id,omitempty"`
	ProjectID string    `json:"projectId"`
	Material  string    `json:"material"`
	Unit      string    `json:"unit"`
	Quantity  float64   `json:"quantity"`
	WastePct  float64   `json:"wastePct"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type Specification struct {
	ID        string    `json:"id,omitempty"`
	ProjectID string    `json:"projectId"`
	Section   string    `json:"section"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type Settings struct {
	ID                     string  `json:"id,omitempty"`
	Currency               string  `json:"currency"`
	DefaultOverheadPercent float64 `json:"defaultOverheadPercent"`
	DefaultProfitPercent   float64 `json:"defaultProfitPercent"`
}
