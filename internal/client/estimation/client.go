package estimation

import (
	"context"
	"fmt"
	"net/http"

	"estimapp/internal/client/api"
	"estimapp/internal/rates"
)

// Client agrupa los recursos del back-office sobre el cliente API
// compartido.
type Client struct {
	Projects  *ProjectClient
	BoqItems  *BoqClient
	Analyses  *RateAnalysisClient
	Team      *TeamClient
	Reports   *ReportClient
	Dashboard *DashboardClient

	Drawings        *Resource[Drawing]
	DimensionSheets *Resource[DimensionSheet]
	EquipmentCosts  *Resource[EquipmentCost]
	Productivity    *Resource[LaborProductivityEntry]
	Takeoffs        *Resource[MaterialTakeoffItem]
	Specifications  *Resource[Specification]
	Settings        *Resource[Settings]
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{
		Projects:  &ProjectClient{api: apiClient},
		BoqItems:  &BoqClient{api: apiClient},
		Analyses:  &RateAnalysisClient{api: apiClient},
		Team:      &TeamClient{api: apiClient},
		Reports:   &ReportClient{api: apiClient},
		Dashboard: &DashboardClient{api: apiClient},

		Drawings:        newResource[Drawing](apiClient, "/drawings", "drawing", "drawings"),
		DimensionSheets: newResource[DimensionSheet](apiClient, "/dimension-sheets", "sheet", "sheets"),
		EquipmentCosts:  newResource[EquipmentCost](apiClient, "/equipment-costs", "cost", "costs"),
		Productivity:    newResource[LaborProductivityEntry](apiClient, "/labor-productivity", "entry", "entries"),
		Takeoffs:        newResource[MaterialTakeoffItem](apiClient, "/material-takeoff", "item", "items"),
		Specifications:  newResource[Specification](apiClient, "/specifications", "specification", "specifications"),
		Settings:        newResource[Settings](apiClient, "/settings", "settings", "settings"),
	}
}

// ProjectClient replica las operaciones del servicio de proyectos original.
type ProjectClient struct {
	api *api.Client
}

func (c *ProjectClient) Create(ctx context.Context, project Project) (Project, error) {
	var out struct {
		Project Project `json:"project"`
	}
	err := c.api.Post(ctx, "/projects", project, &out, "Could not create project")
	return out.Project, err
}

func (c *ProjectClient) My(ctx context.Context) ([]Project, error) {
	var out struct {
		Projects []Project `json:"projects"`
	}
	err := c.api.Get(ctx, "/projects/my", &out, "Could not load projects")
	return out.Projects, err
}

func (c *ProjectClient) Recent(ctx context.Context, limit int) ([]Project, error) {
	var out struct {
		Projects []Project `json:"projects"`
	}
	err := c.api.Get(ctx, fmt.Sprintf("/projects/recent?limit=%d", limit), &out, "Could not load recent projects")
	return out.Projects, err
}

func (c *ProjectClient) Count(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := c.api.Get(ctx, "/projects/count", &out, "Could not count projects")
	return out.Count, err
}

func (c *ProjectClient) Stats(ctx context.Context) (ProjectStats, error) {
	var out struct {
		Data ProjectStats `json:"data"`
	}
	err := c.api.Get(ctx, "/projects/stats", &out, "Could not load project stats")
	return out.Data, err
}

func (c *ProjectClient) Monthly(ctx context.Context) ([]MonthlyCount, error) {
	var out struct {
		Data []MonthlyCount `json:"data"`
	}
	err := c.api.Get(ctx, "/projects/monthly", &out, "Could not load monthly stats")
	return out.Data, err
}

func (c *ProjectClient) Get(ctx context.Context, id string) (Project, error) {
	var out struct {
		Project Project `json:"project"`
	}
	err := c.api.Get(ctx, "/projects/"+id, &out, "Could not load project")
	return out.Project, err
}

func (c *ProjectClient) Update(ctx context.Context, id string, project Project) (Project, error) {
	var out struct {
		Project Project `json:"project"`
	}
	err := c.api.Put(ctx, "/projects/"+id, project, &out, "Could not update project")
	return out.Project, err
}

func (c *ProjectClient) Delete(ctx context.Context, id string) error {
	return c.api.Delete(ctx, "/projects/"+id, "Could not delete project")
}

// BoqClient opera las lineas del bill of quantity por proyecto.
type BoqClient struct {
	api *api.Client
}

func (c *BoqClient) Create(ctx context.Context, projectID string, item BoqItem) (BoqItem, error) {
	var out struct {
		Item BoqItem `json:"item"`
	}
	err := c.api.Post(ctx, "/boq-items/project/"+projectID, item, &out, "Could not create BOQ item")
	return out.Item, err
}

func (c *BoqClient) ListByProject(ctx context.Context, projectID string) ([]BoqItem, error) {
	var out struct {
		Items []BoqItem `json:"items"`
	}
	err := c.api.Get(ctx, "/boq-items/project/"+projectID, &out, "Could not load BOQ items")
	return out.Items, err
}

func (c *BoqClient) Get(ctx context.Context, id string) (BoqItem, error) {
	var out struct {
		Item BoqItem `json:"item"`
	}
	err := c.api.Get(ctx, "/boq-items/"+id, &out, "Could not load BOQ item")
	return out.Item, err
}

func (c *BoqClient) Update(ctx context.Context, id string, item BoqItem) (BoqItem, error) {
	var out struct {
		Item BoqItem `json:"item"`
	}
	err := c.api.Put(ctx, "/boq-items/"+id, item, &out, "Could not update BOQ item")
	return out.Item, err
}

func (c *BoqClient) Delete(ctx context.Context, id string) error {
	return c.api.Delete(ctx, "/boq-items/"+id, "Could not delete BOQ item")
}

// RateAnalysisClient opera los analisis de precios. Antes de enviar, el
// cliente recalcula el desglose localmente; lo que viaja son los insumos.
type RateAnalysisClient struct {
	api *api.Client
}

// Recompute devuelve el desglose derivado de los insumos del analisis.
func (c *RateAnalysisClient) Recompute(a RateAnalysis) rates.CostBreakdown {
	return rates.Aggregate(rates.CostInput{
		MaterialCost:    a.MaterialCost,
		LaborCost:       a.LaborCost,
		EquipmentCost:   a.EquipmentCost,
		OverheadPercent: a.OverheadPercent,
		ProfitPercent:   a.ProfitPercent,
	})
}

func (c *RateAnalysisClient) Create(ctx context.Context, analysis RateAnalysis) (RateAnalysis, error) {
	breakdown := c.Recompute(analysis)
	analysis.Subtotal = breakdown.Subtotal
	analysis.OverheadAmount = breakdown.OverheadAmount
	analysis.ProfitAmount = breakdown.ProfitAmount
	analysis.TotalRate = breakdown.TotalRate

	var out struct {
		Analysis RateAnalysis `json:"analysis"`
	}
	err := c.api.Post(ctx, "/rate-analysis", analysis, &out, "Could not create rate analysis")
	return out.Analysis, err
}

func (c *RateAnalysisClient) ListByProject(ctx context.Context, projectID string) ([]RateAnalysis, error) {
	var out struct {
		Analyses []RateAnalysis `json:"analyses"`
	}
	err := c.api.Get(ctx, "/rate-analysis/project/"+projectID, &out, "Could not load rate analyses")
	return out.Analyses, err
}

func (c *RateAnalysisClient) Get(ctx context.Context, id string) (RateAnalysis, error) {
	var out struct {
		Analysis RateAnalysis `json:"analysis"`
	}
	err := c.api.Get(ctx, "/rate-analysis/"+id, &out, "Could not load rate analysis")
	return out.Analysis, err
}

func (c *RateAnalysisClient) Update(ctx context.Context, id string, analysis RateAnalysis) (RateAnalysis, error) {
	breakdown := c.Recompute(analysis)
	analysis.Subtotal = breakdown.Subtotal
	analysis.OverheadAmount = breakdown.OverheadAmount
	analysis.ProfitAmount = breakdown.ProfitAmount
	analysis.TotalRate = breakdown.TotalRate

	var out struct {
		Analysis RateAnalysis `json:"analysis"`
	}
	err := c.api.Put(ctx, "/rate-analysis/"+id, analysis, &out, "Could not update rate analysis")
	return out.Analysis, err
}

func (c *RateAnalysisClient) Delete(ctx context.Context, id string) error {
	return c.api.Delete(ctx, "/rate-analysis/"+id, "Could not delete rate analysis")
}

// TeamClient opera el equipo de trabajo.
type TeamClient struct {
	api *api.Client
}

func (c *TeamClient) Add(ctx context.Context, member TeamMember) (TeamMember, error) {
	var out struct {
		Member TeamMember `json:"member"`
	}
	err := c.api.Post(ctx, "/team", member, &out, "Could not add team member")
	return out.Member, err
}

func (c *TeamClient) List(ctx context.Context) ([]TeamMember, error) {
	var out struct {
		Members []TeamMember `json:"members"`
	}
	err := c.api.Get(ctx, "/team", &out, "Could not load team")
	return out.Members, err
}

func (c *TeamClient) Remove(ctx context.Context, id string) error {
	return c.api.Delete(ctx, "/team/"+id, "Could not remove team member")
}

// ReportClient opera los reportes generados.
type ReportClient struct {
	api *api.Client
}

func (c *ReportClient) Generate(ctx context.Context, report Report) (Report, error) {
	var out struct {
		Report Report `json:"report"`
	}
	err := c.api.Post(ctx, "/reports/generate", report, &out, "Could not generate report")
	return out.Report, err
}

func (c *ReportClient) List(ctx context.Context) ([]Report, error) {
	var out struct {
		Reports []Report `json:"reports"`
	}
	err := c.api.Get(ctx, "/reports", &out, "Could not load reports")
	return out.Reports, err
}

func (c *ReportClient) Delete(ctx context.Context, id string) error {
	return c.api.Delete(ctx, "/reports/"+id, "Could not delete report")
}

// DashboardClient arma el tablero compuesto.
type DashboardClient struct {
	api *api.Client
}

func (c *DashboardClient) Stats(ctx context.Context) (DashboardStats, error) {
	var out DashboardStats
	err := c.api.Get(ctx, "/dashboard/stats", &out, "Could not load dashboard")
	return out, err
}

func (c *DashboardClient) Monthly(ctx context.Context) ([]MonthlyCount, error) {
	var out struct {
		Months []MonthlyCount `json:"months"`
	}
	err := c.api.Get(ctx, "/dashboard/monthly", &out, "Could not load monthly stats")
	return out.Months, err
}

// Resource es un cliente CRUD generico para los recursos secundarios que
// comparten la misma forma de endpoints.
type Resource[T any] struct {
	api      *api.Client
	path     string
	singular string
	plural   string
}

func newResource[T any](apiClient *api.Client, path, singular, plural string) *Resource[T] {
	return &Resource[T]{api: apiClient, path: path, singular: singular, plural: plural}
}

func (r *Resource[T]) Create(ctx context.Context, record T) (T, error) {
	out := map[string]T{}
	err := r.api.Post(ctx, r.path, record, &out, "Could not create "+r.singular)
	return out[r.singular], err
}

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	out := map[string][]T{}
	err := r.api.Get(ctx, r.path, &out, "Could not load "+r.plural)
	return out[r.plural], err
}

func (r *Resource[T]) ListByProject(ctx context.Context, projectID string) ([]T, error) {
	out := map[string][]T{}
	err := r.api.Get(ctx, r.path+"/project/"+projectID, &out, "Could not load "+r.plural)
	return out[r.plural], err
}

func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	out := map[string]T{}
	err := r.api.Get(ctx, r.path+"/"+id, &out, "Could not load "+r.singular)
	return out[r.singular], err
}

func (r *Resource[T]) Update(ctx context.Context, id string, record T) (T, error) {
	out := map[string]T{}
	err := r.api.Do(ctx, http.MethodPut, r.path+"/"+id, record, &out, "Could not update "+r.singular)
	return out[r.singular], err
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.api.Delete(ctx, r.path+"/"+id, "Could not delete "+r.singular)
}
