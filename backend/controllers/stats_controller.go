package controllers

import (
	"sort"
	"time"

	"discipline/backend/config"
	"discipline/backend/engine"
	"discipline/backend/models"
	"discipline/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StatsController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Engine *engine.Service
}

func NewStatsController(db *gorm.DB, cfg *config.Config) *StatsController {
	return &StatsController{DB: db, Cfg: cfg, Engine: engine.NewService(db)}
}

// GetRadarStats godoc
// @Summary Per-category points for the radar chart
// @Description Returns per-category point totals and the overall score
// @Tags stats
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /stats/radar [get]
func (sc *StatsController) GetRadarStats(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	snapshot, err := sc.Engine.UserSnapshot(userID, time.Now())
	if err != nil {
		return utils.InternalServerError(c, "Could not compute progression")
	}

	categories := make([]fiber.Map, 0, len(engine.Categories))
	for _, category := range engine.Categories {
		categories = append(categories, fiber.Map{
			"category": category,
			"points":   snapshot.Points[category],
		})
	}

	return c.JSON(fiber.Map{
		"categories":    categories,
		"overall_score": snapshot.OverallScore,
	})
}

type LeaderboardEntry struct {
	Rank          int     `json:"rank"`
	Username      string  `json:"username"`
	OverallScore  float64 `json:"overall_score"`
	League        string  `json:"league"`
	CurrentStreak int     `json:"current_streak"`
}

// GetLeaderboard godoc
// @Summary Ranked users by overall score
// @Description Returns the top 100 users, optionally filtered by language
// @Tags stats
// @Produce json
// @Param language query string false "Language filter"
// @Success 200 {array} LeaderboardEntry
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /leaderboard [get]
func (sc *StatsController) GetLeaderboard(c *fiber.Ctx) error {
	if _, err := utils.ExtractUserIDFromToken(c, sc.Cfg); err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	query := sc.DB.Model(&models.User{})
	if language := c.Query("language"); language != "" {
		if !models.IsValidLanguage(language) {
			return utils.BadRequest(c, "Unsupported language code")
		}
		query = query.Where("language = ?", language)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return utils.InternalServerError(c, "Could not query users")
	}

	// Ranked from persisted snapshots; the leaderboard does not replay
	// every user's ledger on each request.
	entries := make([]LeaderboardEntry, 0, len(users))
	for _, user := range users {
		points := engine.Points{
			engine.CategoryIntelligence:  user.PointsIntelligence,
			engine.CategoryPhysical:      user.PointsPhysical,
			engine.CategorySocial:        user.PointsSocial,
			engine.CategoryDiscipline:    user.PointsDiscipline,
			engine.CategoryDetermination: user.PointsDetermination,
		}
		entries = append(entries, LeaderboardEntry{
			Username:      user.Username,
			OverallScore:  engine.OverallScore(points),
			League:        user.League,
			CurrentStreak: user.CurrentStreak,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OverallScore > entries[j].OverallScore
	})

	if len(entries) > 100 {
		entries = entries[:100]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return c.JSON(entries)
}
