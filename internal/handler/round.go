package handler

import (
	"net/http"

	"mad-factory/internal/model"
	"mad-factory/internal/service"

	"github.com/gin-gonic/gin"
)

type RoundHandler struct{ rounds *service.RoundService }

func NewRoundHandler(rounds *service.RoundService) *RoundHandler {
	return &RoundHandler{rounds: rounds}
}

func (h *RoundHandler) Start(c *gin.Context) {
	var req model.StartRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	round, err := h.rounds.Start(c.Request.Context(), req.IdeaIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.StartRoundResponse{
		RoundNumber: round.RoundNumber,
		EndsAt:      round.EndsAt,
	})
}

func (h *RoundHandler) End(c *gin.Context) {
	winner, err := h.rounds.End(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "winner": winner})
}

func (h *RoundHandler) Current(c *gin.Context) {
	round, ideas, err := h.rounds.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.CurrentRoundResponse{Round: round, Ideas: ideas})
}
