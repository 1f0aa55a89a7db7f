package handler

import (
	"net/http"
	"time"

	"gamewatch/backend/internal/release"

	"github.com/gin-gonic/gin"
)

// AdvanceReleasesResponse reports what a manual release check did.
type AdvanceReleasesResponse struct {
	Released []uint `json:"released"`
}

// AdvanceReleases godoc
// @Summary      Run the release check now
// @Description  Flips due upcoming games to released and fans out notifications. Safe to invoke any number of times, concurrently with the background scheduler: a game is only notified by the call that performed its flip.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body AdvanceReleasesInput false "Optional as-of date override"
// @Success      200 {object} AdvanceReleasesResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Router       /admin/releases/advance [post]
func AdvanceReleases(c *gin.Context) {
	asOf := time.Now()

	var input AdvanceReleasesInput
	if err := c.ShouldBindJSON(&input); err == nil && input.AsOf != "" {
		parsed, err := time.Parse("2006-01-02", input.AsOf)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "as_of must be formatted as YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	released, err := release.Default.AdvancePendingReleases(c.Request.Context(), asOf)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to advance releases"})
		return
	}

	if released == nil {
		released = []uint{}
	}
	c.JSON(http.StatusOK, AdvanceReleasesResponse{Released: released})
}

// AdvanceReleasesInput optionally pins the as-of date of a manual run.
type AdvanceReleasesInput struct {
	AsOf string `json:"as_of"` // YYYY-MM-DD
}
