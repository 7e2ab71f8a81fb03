package estimation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"estimapp/internal/client/api"
)

func newFakeBackend(t *testing.T) (*gin.Engine, *Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return r, NewClient(api.NewClient(srv.URL, time.Second, nil))
}

func TestProjectClientRoundTrip(t *testing.T) {
	r, client := newFakeBackend(t)
	r.POST("/projects", func(c *gin.Context) {
		var p Project
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		p.ID = "project-1"
		c.JSON(http.StatusCreated, gin.H{"project": p})
	})
	r.GET("/projects/my", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"projects": []Project{{ID: "project-1", Name: "Tower"}}})
	})
	r.GET("/projects/count", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"count": 3})
	})

	created, err := client.Projects.Create(context.Background(), Project{Name: "Tower", Client: "Acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "project-1" || created.Name != "Tower" {
		t.Fatalf("unexpected project: %+v", created)
	}

	mine, err := client.Projects.My(context.Background())
	if err != nil || len(mine) != 1 {
		t.Fatalf("my: %v %+v", err, mine)
	}

	count, err := client.Projects.Count(context.Background())
	if err != nil || count != 3 {
		t.Fatalf("count: %v %d", err, count)
	}
}

func TestRateAnalysisClientRecomputesBeforeSubmit(t *testing.T) {
	var received RateAnalysis
	r, client := newFakeBackend(t)
	r.POST("/rate-analysis", func(c *gin.Context) {
		if err := c.ShouldBindJSON(&received); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		received.ID = "analysis-1"
		c.JSON(http.StatusCreated, gin.H{"analysis": received})
	})

	_, err := client.Analyses.Create(context.Background(), RateAnalysis{
		ProjectID:       "project-1",
		MaterialCost:    100,
		LaborCost:       50,
		EquipmentCost:   25,
		OverheadPercent: 10,
		ProfitPercent:   5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if received.Subtotal != 175 || received.OverheadAmount != 17.5 || received.ProfitAmount != 8.75 {
		t.Fatalf("expected recomputed breakdown, got %+v", received)
	}
	if received.TotalRate != 201.25 {
		t.Fatalf("expected total 201.25, got %v", received.TotalRate)
	}
}

func TestBoqClientReadsDerivedFields(t *testing.T) {
	r, client := newFakeBackend(t)
	r.GET("/boq-items/project/project-1", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"items": []BoqItem{{
			ID:           "item-1",
			Quantity:     10,
			MaterialRate: 3,
			LaborRate:    2,
			TotalRate:    5,
			Amount:       50,
		}}})
	})

	items, err := client.BoqItems.ListByProject(context.Background(), "project-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Amount != 50 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestDashboardClientDecodesCounters(t *testing.T) {
	r, client := newFakeBackend(t)
	r.GET("/dashboard/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"totalProjects":    4,
			"totalEstimations": 12,
			"teamMembers":      3,
			"reports":          2,
		})
	})

	stats, err := client.Dashboard.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalProjects != 4 || stats.TotalEstimations != 12 || stats.TeamMembers != 3 || stats.Reports != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestGenericResourceCRUD(t *testing.T) {
	r, client := newFakeBackend(t)
	r.POST("/drawings", func(c *gin.Context) {
		var d Drawing
		if err := c.ShouldBindJSON(&d); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		d.ID = "drawing-1"
		c.JSON(http.StatusCreated, gin.H{"drawing": d})
	})
	r.GET("/drawings/project/project-1", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"drawings": []Drawing{{ID: "drawing-1", Title: "Plan"}}})
	})
	r.DELETE("/drawings/drawing-1", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	created, err := client.Drawings.Create(context.Background(), Drawing{ProjectID: "project-1", Title: "Plan"})
	if err != nil || created.ID != "drawing-1" {
		t.Fatalf("create: %v %+v", err, created)
	}

	listed, err := client.Drawings.ListByProject(context.Background(), "project-1")
	if err != nil || len(listed) != 1 {
		t.Fatalf("list: %v %+v", err, listed)
	}

	if err := client.Drawings.Delete(context.Background(), "drawing-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestRateAnalysisJSONOmitsEmptyDerived(t *testing.T) {
	raw, err := json.Marshal(RateAnalysis{ProjectID: "project-1", MaterialCost: 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var asMap map[string]any
	if err := json.Unmarshal(raw, &asMap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := asMap["subtotal"]; ok {
		t.Fatalf("zero breakdown must not serialize: %s", raw)
	}
}
