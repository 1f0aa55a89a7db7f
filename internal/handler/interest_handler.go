package handler

import (
	"errors"
	"net/http"
	"strconv"

	"gamewatch/backend/internal/database"
	"gamewatch/backend/internal/interest"
	"gamewatch/backend/internal/models"
	"gamewatch/backend/internal/rank"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// ToggleInterestResponse reports the interest state after a toggle.
type ToggleInterestResponse struct {
	Liked         bool  `json:"liked"`
	InterestCount int64 `json:"interest_count"`
}

// TopGameResponse is one row of the most-interested ranking.
type TopGameResponse struct {
	Game  GameResponse `json:"game"`
	Count int64        `json:"count"`
}

// ReconcileResponse reports the corrected counter after a reconcile run.
type ReconcileResponse struct {
	GameID        uint  `json:"game_id,omitempty"`
	InterestCount int64 `json:"interest_count,omitempty"`
	Repaired      int64 `json:"repaired"`
}

// endregion

// ToggleInterest godoc
// @Summary      Toggle interest in a game
// @Description  Marks or unmarks the viewer's interest. The ledger row and the denormalized counter move together atomically.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} ToggleInterestResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Failure      500 {object} ErrorResponse "Failed to toggle interest"
// @Router       /games/{id}/interest [post]
func ToggleInterest(c *gin.Context) {
	userID, _ := c.Get("userID")
	gameID, _ := strconv.Atoi(c.Param("id"))

	liked, newCount, err := interest.Default.Toggle(c.Request.Context(), userID.(uint), uint(gameID))
	if err != nil {
		if errors.Is(err, interest.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle interest"})
		return
	}

	c.JSON(http.StatusOK, ToggleInterestResponse{Liked: liked, InterestCount: newCount})
}

// TopInterested godoc
// @Summary      Most interested games
// @Description  Ranks games by interest gained inside a rolling window. Ties are broken by game id ascending.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        window query string false "Aggregation window: week or month" default(month)
// @Param        limit  query int    false "Maximum entries" default(5)
// @Success      200 {array} TopGameResponse
// @Failure      400 {object} ErrorResponse "Unknown window"
// @Router       /games/top [get]
func TopInterested(c *gin.Context) {
	window := rank.Window(c.DefaultQuery("window", "month"))
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}

	entries, err := rank.Default.TopInterested(c.Request.Context(), window, limit)
	if err != nil {
		if errors.Is(err, rank.ErrBadWindow) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Window must be 'week' or 'month'"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute ranking"})
		return
	}

	response := []TopGameResponse{}
	for _, entry := range entries {
		response = append(response, TopGameResponse{
			Game:  newGameResponse(entry.Game, nil),
			Count: entry.Count,
		})
	}

	c.JSON(http.StatusOK, response)
}

// GetMyInterests godoc
// @Summary      Games the viewer follows
// @Description  Lists the viewer's interest ledger entries, newest first.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} GameResponse
// @Router       /users/me/interests [get]
func GetMyInterests(c *gin.Context) {
	userID, _ := c.Get("userID")

	var interests []models.Interest
	err := database.DB.Preload("Game").Preload("Game.Genres").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&interests).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve interests"})
		return
	}

	response := []GameResponse{}
	for _, record := range interests {
		game := record.Game
		resp := newGameResponse(game, map[uint]bool{game.ID: true})
		response = append(response, resp)
	}

	c.JSON(http.StatusOK, response)
}

// ReconcileGame godoc
// @Summary      Repair a game's interest counter
// @Description  Recomputes interest_count from ledger cardinality for one game.
// @Tags         admin-games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} ReconcileResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /admin/games/{id}/reconcile [post]
func ReconcileGame(c *gin.Context) {
	gameID, _ := strconv.Atoi(c.Param("id"))

	count, err := interest.Default.Reconcile(c.Request.Context(), uint(gameID))
	if err != nil {
		if errors.Is(err, interest.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile"})
		return
	}

	c.JSON(http.StatusOK, ReconcileResponse{GameID: uint(gameID), InterestCount: count, Repaired: 1})
}

// ReconcileAllGames godoc
// @Summary      Repair all interest counters
// @Description  Recomputes interest_count from ledger cardinality for every game and reports how many rows drifted.
// @Tags         admin-games
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ReconcileResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Router       /admin/games/reconcile [post]
func ReconcileAllGames(c *gin.Context) {
	repaired, err := interest.Default.ReconcileAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile"})
		return
	}

	c.JSON(http.StatusOK, ReconcileResponse{Repaired: repaired})
}
