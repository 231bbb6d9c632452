package handler

import (
	"errors"
	"net/http"

	"mad-factory/internal/bags"
	"mad-factory/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps service sentinel errors onto HTTP statuses. Anything
// unrecognized is a storage or internal failure and stays opaque to the
// caller.
func respondError(c *gin.Context, err error) {
	var stepErr *bags.StepError
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrIdeaNotVotable),
		errors.Is(err, service.ErrTokenNotMinted):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyVoted),
		errors.Is(err, service.ErrRoundActive),
		errors.Is(err, service.ErrNoActiveRound),
		errors.Is(err, service.ErrNoIdeasInRound):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &stepErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "token launch failed",
			"step":    stepErr.Step,
			"details": stepErr.Detail,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
