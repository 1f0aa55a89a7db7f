package handler

import (
	"net/http"
	"strconv"
	"time"

	"gamewatch/backend/internal/database"
	"gamewatch/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type ReviewInput struct {
	Content string `json:"content" binding:"required"`
}

type ReviewResponse struct {
	ID        uint      `json:"id"`
	GameID    uint      `json:"game_id"`
	GameTitle string    `json:"game_title,omitempty"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func newReviewResponse(review models.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID,
		GameID:    review.GameID,
		GameTitle: review.Game.Title,
		Author:    review.User.Nickname,
		Content:   review.Content,
		CreatedAt: review.CreatedAt,
	}
}

// PaginatedReviewResponse defines the structure for a paginated list of reviews.
type PaginatedReviewResponse struct {
	Data []ReviewResponse `json:"data"`
	Meta PaginationMeta   `json:"meta"`
}

// endregion

// CreateReview godoc
// @Summary      Post a review
// @Description  Appends a free-text review for a game. Users may review the same game more than once.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int         true "Game ID"
// @Param        input body ReviewInput true "Review text"
// @Success      201 {object} ReviewResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id}/reviews [post]
func CreateReview(c *gin.Context) {
	userID, _ := c.Get("userID")
	gameID, _ := strconv.Atoi(c.Param("id"))

	var game models.Game
	if err := database.DB.First(&game, gameID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review := models.Review{
		UserID:  userID.(uint),
		GameID:  uint(gameID),
		Content: input.Content,
	}
	if err := database.DB.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	database.DB.Preload("User").Preload("Game").First(&review, review.ID)
	c.JSON(http.StatusCreated, newReviewResponse(review))
}

// GetGameReviews godoc
// @Summary      Reviews for a game
// @Description  Lists reviews for one game, newest first.
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {array} ReviewResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id}/reviews [get]
func GetGameReviews(c *gin.Context) {
	gameID, _ := strconv.Atoi(c.Param("id"))

	var game models.Game
	if err := database.DB.First(&game, gameID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	var reviews []models.Review
	database.DB.Preload("User").Preload("Game").
		Where("game_id = ?", gameID).
		Order("created_at DESC").
		Find(&reviews)

	response := []ReviewResponse{}
	for _, review := range reviews {
		response = append(response, newReviewResponse(review))
	}
	c.JSON(http.StatusOK, response)
}

// GetCommunityFeed godoc
// @Summary      Community review feed
// @Description  Retrieves a paginated feed of reviews across all games, newest first.
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(20)
// @Success      200 {object} PaginatedReviewResponse
// @Router       /reviews [get]
func GetCommunityFeed(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100 // Max limit
	}
	offset := (page - 1) * limit

	var totalItems int64
	if err := database.DB.Model(&models.Review{}).Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count reviews"})
		return
	}

	var reviews []models.Review
	err = database.DB.Preload("User").Preload("Game").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reviews).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reviews"})
		return
	}

	response := []ReviewResponse{}
	for _, review := range reviews {
		response = append(response, newReviewResponse(review))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(response, totalItems, page, limit))
}

// GetMyReviews godoc
// @Summary      The viewer's reviews
// @Description  Lists reviews written by the authenticated user, newest first.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} ReviewResponse
// @Router       /users/me/reviews [get]
func GetMyReviews(c *gin.Context) {
	userID, _ := c.Get("userID")

	var reviews []models.Review
	database.DB.Preload("User").Preload("Game").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews)

	response := []ReviewResponse{}
	for _, review := range reviews {
		response = append(response, newReviewResponse(review))
	}
	c.JSON(http.StatusOK, response)
}
