package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"gamewatch/backend/internal/database"
	"gamewatch/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

type GameInput struct {
	Title       string `json:"title" binding:"required"`
	Platform    string `json:"platform"`
	Image       string `json:"image"`
	TrailerURL  string `json:"trailer_url"`
	Description string `json:"description"`
	Status      string `json:"status"`
	ReleaseDate string `json:"release_date"` // YYYY-MM-DD
	GenreIDs    []uint `json:"genre_ids"`    // IDs of the genres to associate with the game
}

type GameResponse struct {
	ID            uint            `json:"id"`
	Title         string          `json:"title"`
	Platform      string          `json:"platform"`
	Image         string          `json:"image"`
	TrailerURL    string          `json:"trailer_url"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	ReleaseDate   string          `json:"release_date,omitempty"`
	InterestCount int64           `json:"interest_count"`
	Liked         bool            `json:"liked"`
	Genres        []GenreResponse `json:"genres"`
}

func newGameResponse(game models.Game, likedIDs map[uint]bool) GameResponse {
	var genreResponses []GenreResponse
	for _, genre := range game.Genres {
		if genre != nil {
			genreResponses = append(genreResponses, newGenreResponse(*genre))
		}
	}

	var releaseDate string
	if game.ReleaseDate != nil {
		releaseDate = game.ReleaseDate.Format("2006-01-02")
	}

	_, liked := likedIDs[game.ID]

	return GameResponse{
		ID:            game.ID,
		Title:         game.Title,
		Platform:      game.Platform,
		Image:         game.Image,
		TrailerURL:    game.TrailerURL,
		Description:   game.Description,
		Status:        string(game.Status),
		ReleaseDate:   releaseDate,
		InterestCount: game.InterestCount,
		Liked:         liked,
		Genres:        genreResponses,
	}
}

// PaginatedGameResponse defines the structure for a paginated list of games.
type PaginatedGameResponse struct {
	Data []GameResponse `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// StatusOverrideInput defines the body of the status override endpoint.
type StatusOverrideInput struct {
	Status string `json:"status" binding:"required"`
}

// endregion

// region --- Helpers ---

// applyGameInput validates the input against the lifecycle invariants and
// copies it onto the game. Upcoming games must carry a release date;
// released games must not claim a future one.
func applyGameInput(game *models.Game, input GameInput) (string, bool) {
	status := models.GameStatus(input.Status)
	if input.Status == "" {
		status = models.StatusAnnounced
	}
	if !models.ValidStatus(status) {
		return "Status must be one of announced, upcoming, released", false
	}

	var releaseDate *time.Time
	if input.ReleaseDate != "" {
		parsed, err := time.Parse("2006-01-02", input.ReleaseDate)
		if err != nil {
			return "Release date must be formatted as YYYY-MM-DD", false
		}
		releaseDate = &parsed
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	switch status {
	case models.StatusUpcoming:
		if releaseDate == nil {
			return "Upcoming games require a release date", false
		}
	case models.StatusReleased:
		if releaseDate != nil && releaseDate.After(today) {
			return "A released game cannot have a future release date", false
		}
	}

	game.Title = input.Title
	game.Platform = input.Platform
	game.Image = input.Image
	game.TrailerURL = input.TrailerURL
	game.Description = input.Description
	game.Status = status
	game.ReleaseDate = releaseDate
	return "", true
}

// likedGameIDs returns the set of game ids the viewer has interest in.
func likedGameIDs(userID interface{}) map[uint]bool {
	liked := make(map[uint]bool)
	if userID == nil {
		return liked
	}
	var ids []uint
	database.DB.Model(&models.Interest{}).Where("user_id = ?", userID).Pluck("game_id", &ids)
	for _, id := range ids {
		liked[id] = true
	}
	return liked
}

// Helper to split comma-separated strings
func splitCommaSeparated(s string) []string {
	var result []string
	parts := strings.Split(s, ",")
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// endregion

// region --- Admin Handlers ---

// CreateGame godoc
// @Summary      Create a new game
// @Description  Creates a new catalog entry and associates it with given genres.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GameInput true "Game Info"
// @Success      201  {object}  GameResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Router       /admin/games [post]
func CreateGame(c *gin.Context) {
	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var game models.Game
	if msg, ok := applyGameInput(&game, input); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	// Find genres by IDs
	var genres []*models.Genre
	if len(input.GenreIDs) > 0 {
		database.DB.Find(&genres, input.GenreIDs)
	}
	game.Genres = genres

	if err := database.DB.Create(&game).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create game"})
		return
	}

	c.JSON(http.StatusCreated, newGameResponse(game, nil)) // No interest context on create
}

// UpdateGame godoc
// @Summary      Update a game
// @Description  Updates a game's details and replaces its genres.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int       true  "Game ID"
// @Param        input body      GameInput true  "New Game Info"
// @Success      200   {object}  GameResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Admin access required"
// @Failure      404   {object}  ErrorResponse "Game not found"
// @Router       /admin/games/{id} [put]
func UpdateGame(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var game models.Game
	if err := database.DB.First(&game, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if msg, ok := applyGameInput(&game, input); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	// Find new genres
	var genres []*models.Genre
	if len(input.GenreIDs) > 0 {
		database.DB.Find(&genres, input.GenreIDs)
	}

	// Replace association
	if err := database.DB.Model(&game).Association("Genres").Replace(genres); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update genres for game"})
		return
	}

	// Save the updated game model itself
	database.DB.Save(&game)

	// Preload genres for the response
	database.DB.Preload("Genres").First(&game, id)

	c.JSON(http.StatusOK, newGameResponse(game, nil)) // No interest context on update
}

// OverrideGameStatus godoc
// @Summary      Override a game's lifecycle status
// @Description  Sets the status directly, bypassing the release state machine. An administrative correction, not a transition: no notifications are fired.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true "Game ID"
// @Param        input body      StatusOverrideInput  true "New status"
// @Success      200   {object}  GameResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Admin access required"
// @Failure      404   {object}  ErrorResponse "Game not found"
// @Router       /admin/games/{id}/status [put]
func OverrideGameStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var input StatusOverrideInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.GameStatus(input.Status)
	if !models.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be one of announced, upcoming, released"})
		return
	}

	var game models.Game
	if err := database.DB.First(&game, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	if err := database.DB.Model(&game).Update("status", status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	database.DB.Preload("Genres").First(&game, id)
	c.JSON(http.StatusOK, newGameResponse(game, nil))
}

// DeleteGame godoc
// @Summary      Delete a game
// @Description  Deletes an existing game.
// @Tags         admin-games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} map[string]string "{"message": "Game deleted"}"
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /admin/games/{id} [delete]
func DeleteGame(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	result := database.DB.Select("Genres").Delete(&models.Game{}, id)
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game deleted"})
}

// endregion

// region --- Public Handlers ---

// GetGameByID godoc
// @Summary      Get a single game by ID
// @Description  Retrieves details for a single game, including its genres and whether the viewer marked interest.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} GameResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id} [get]
func GetGameByID(c *gin.Context) {
	userID, _ := c.Get("userID")
	id, _ := strconv.Atoi(c.Param("id"))

	var game models.Game
	if err := database.DB.Preload("Genres").First(&game, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	likedIDs := make(map[uint]bool)
	if userID != nil {
		var count int64
		database.DB.Model(&models.Interest{}).Where("user_id = ? AND game_id = ?", userID, id).Count(&count)
		if count > 0 {
			likedIDs[uint(id)] = true
		}
	}

	c.JSON(http.StatusOK, newGameResponse(game, likedIDs))
}

// GetGames godoc
// @Summary      Get a list of games
// @Description  Retrieves a paginated list of games ordered by interest, with optional filtering by title, platform, genres, status, and the viewer's interests.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        q               query string false "Search query for game title"
// @Param        platform        query string false "Filter by platform"
// @Param        status          query string false "Filter by lifecycle status"
// @Param        genre_ids       query string false "Comma-separated list of Genre IDs"
// @Param        interested_only query bool   false "Return only games the viewer marked interest in"
// @Param        page            query int    false "Page number" default(1)
// @Param        limit           query int    false "Items per page" default(10)
// @Success      200 {object} PaginatedGameResponse
// @Router       /games [get]
func GetGames(c *gin.Context) {
	userID, _ := c.Get("userID")
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100 // Max limit
	}

	offset := (page - 1) * limit
	searchQuery := c.Query("q")
	platform := c.Query("platform")
	status := c.Query("status")
	genreIDsStr := c.Query("genre_ids")
	interestedOnly, _ := strconv.ParseBool(c.Query("interested_only"))

	likedIDs := likedGameIDs(userID)

	// Create the base query for both counting and data retrieval
	dbQuery := database.DB.Model(&models.Game{})

	if interestedOnly {
		if len(likedIDs) == 0 { // If no interests, return empty paginated response
			c.JSON(http.StatusOK, NewPaginatedResponse([]GameResponse{}, 0, page, limit))
			return
		}
		ids := make([]uint, 0, len(likedIDs))
		for id := range likedIDs {
			ids = append(ids, id)
		}
		dbQuery = dbQuery.Where("games.id IN (?)", ids)
	}

	if searchQuery != "" {
		dbQuery = dbQuery.Where("title ILIKE ?", "%"+searchQuery+"%")
	}
	if platform != "" {
		dbQuery = dbQuery.Where("platform = ?", platform)
	}
	if status != "" {
		dbQuery = dbQuery.Where("status = ?", status)
	}

	var genreIDs []uint
	if genreIDsStr != "" {
		for _, s := range splitCommaSeparated(genreIDsStr) {
			if id, parseErr := strconv.ParseUint(s, 10, 32); parseErr == nil {
				genreIDs = append(genreIDs, uint(id))
			}
		}
	}

	if len(genreIDs) > 0 {
		dbQuery = dbQuery.Joins("JOIN game_genres gg ON gg.game_id = games.id").
			Where("gg.genre_id IN (?)", genreIDs).
			Group("games.id")
	}

	// --- Count total items ---
	// A grouped query needs a subquery count; GORM's default count can be
	// incorrect with GROUP BY.
	var totalItems int64
	if len(genreIDs) > 0 {
		subQuery := dbQuery.Session(&gorm.Session{}).Select("games.id")
		if err := database.DB.Table("(?) as sub", subQuery).Count(&totalItems).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count games"})
			return
		}
	} else {
		if err := dbQuery.Session(&gorm.Session{}).Count(&totalItems).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count games"})
			return
		}
	}

	// --- Fetch paginated data ---
	var games []models.Game
	err = dbQuery.Preload("Genres").
		Order("interest_count DESC, id ASC").
		Offset(offset).Limit(limit).
		Find(&games).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve games"})
		return
	}

	var response []GameResponse
	for _, game := range games {
		response = append(response, newGameResponse(game, likedIDs))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(response, totalItems, page, limit))
}

// GetCalendar godoc
// @Summary      Release calendar
// @Description  Lists upcoming games with a scheduled release date, soonest first.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} GameResponse
// @Router       /games/calendar [get]
func GetCalendar(c *gin.Context) {
	userID, _ := c.Get("userID")

	var games []models.Game
	err := database.DB.Preload("Genres").
		Where("status = ? AND release_date IS NOT NULL", models.StatusUpcoming).
		Order("release_date ASC, interest_count DESC").
		Find(&games).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve calendar"})
		return
	}

	likedIDs := likedGameIDs(userID)

	response := []GameResponse{}
	for _, game := range games {
		response = append(response, newGameResponse(game, likedIDs))
	}

	c.JSON(http.StatusOK, response)
}

// endregion
