package handler

import (
	"net/http"

	"mad-factory/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct{ stats *service.StatsService }

func NewStatsHandler(stats *service.StatsService) *StatsHandler { return &StatsHandler{stats: stats} }

func (h *StatsHandler) Get(c *gin.Context) {
	totals, err := h.stats.Totals(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}
