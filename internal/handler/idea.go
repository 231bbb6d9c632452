package handler

import (
	"net/http"

	"mad-factory/internal/logger"
	"mad-factory/internal/model"
	"mad-factory/internal/service"

	"github.com/gin-gonic/gin"
)

type IdeaHandler struct{ ideas *service.IdeaService }

func NewIdeaHandler(ideas *service.IdeaService) *IdeaHandler { return &IdeaHandler{ideas: ideas} }

func (h *IdeaHandler) Submit(c *gin.Context) {
	var req model.SubmitIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	idea, err := h.ideas.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("idea.submitted", "id", idea.ID, "category", idea.Category)
	c.JSON(http.StatusCreated, gin.H{"idea": idea})
}

func (h *IdeaHandler) List(c *gin.Context) {
	ideas, err := h.ideas.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ideas": ideas})
}

func (h *IdeaHandler) Get(c *gin.Context) {
	idea, err := h.ideas.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"idea": idea})
}

// UpdateStatus is the operator's manual status override.
func (h *IdeaHandler) UpdateStatus(c *gin.Context) {
	var req model.UpdateIdeaStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	id := c.Param("id")
	if err := h.ideas.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err)
		return
	}

	logger.Info("idea.status_updated", "id", id, "status", req.Status)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
