package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"trip_tracker/internal/heatmap"
)

type HeatmapBuilder interface {
	Build(ctx context.Context, kind heatmap.Kind) ([]heatmap.Cell, bool, error)
}

type HeatmapController struct {
	heatmap HeatmapBuilder
}

func NewHeatmapController(h HeatmapBuilder) *HeatmapController {
	return &HeatmapController{heatmap: h}
}

// GetHeatmap buckets the selected population into cells, or answers 403
// when too few trips would be disclosed.
func (hc *HeatmapController) GetHeatmap(c *gin.Context) {
	kind, err := heatmap.ParseKind(c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}

	cells, blocked, err := hc.heatmap.Build(c.Request.Context(), kind)
	if err != nil {
		respondError(c, err)
		return
	}
	if blocked {
		c.JSON(http.StatusForbidden, gin.H{"error": anonymityBlockedMessage})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cells})
}
