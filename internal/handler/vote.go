package handler

import (
	"net/http"
	"strings"

	"mad-factory/internal/service"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct{ votes *service.VoteService }

func NewVoteHandler(votes *service.VoteService) *VoteHandler { return &VoteHandler{votes: votes} }

func (h *VoteHandler) Cast(c *gin.Context) {
	err := h.votes.Cast(c.Request.Context(), c.Param("id"), VoterIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// VoterIdentity derives the weak voter pseudo-identity from the request's
// network origin: first forwarded-for hop, then X-Real-IP, then the peer
// address. This is spoofable and deliberately so; it only deduplicates
// votes, it does not authenticate anyone.
func VoterIdentity(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	if real := c.GetHeader("X-Real-IP"); real != "" {
		return real
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
