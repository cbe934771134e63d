package controllers

import (
	"errors"
	"strconv"
	"strings"

	"discipline/backend/config"
	"discipline/backend/models"
	"discipline/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuoteController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewQuoteController(db *gorm.DB, cfg *config.Config) *QuoteController {
	return &QuoteController{DB: db, Cfg: cfg}
}

// GetFavorites returns the caller's saved quotes.
func (qc *QuoteController) GetFavorites(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var favorites []models.QuoteFavorite
	if err := qc.DB.Where("user_id = ?", userID).Order("id DESC").Find(&favorites).Error; err != nil {
		return utils.InternalServerError(c, "Could not query favorites")
	}

	result := make([]fiber.Map, 0, len(favorites))
	for _, fav := range favorites {
		result = append(result, fiber.Map{
			"id":       fav.ID,
			"quote":    fav.Quote,
			"author":   fav.Author,
			"saved_at": fav.CreatedAt,
		})
	}
	return c.JSON(result)
}

// SaveFavorite stores a quote for later.
func (qc *QuoteController) SaveFavorite(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Quote  string `json:"quote"`
		Author string `json:"author"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	input.Quote = strings.TrimSpace(input.Quote)
	if input.Quote == "" {
		return utils.ValidationFailed(c, map[string]string{"quote": "is required"})
	}

	favorite := models.QuoteFavorite{
		UserID: userID,
		Quote:  input.Quote,
		Author: input.Author,
	}
	if err := qc.DB.Create(&favorite).Error; err != nil {
		return utils.InternalServerError(c, "Could not save favorite")
	}

	return utils.Created(c, fiber.Map{
		"id":       favorite.ID,
		"quote":    favorite.Quote,
		"author":   favorite.Author,
		"saved_at": favorite.CreatedAt,
	})
}

// RemoveFavorite deletes by id (path param) or by quote/author content
// (query params), matching how the client stores quotes it fetched from
// the external quote service.
func (qc *QuoteController) RemoveFavorite(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	query := qc.DB.Where("user_id = ?", userID)
	if idParam := c.Params("id"); idParam != "" {
		id, err := strconv.Atoi(idParam)
		if err != nil {
			return utils.BadRequest(c, "Invalid favorite ID")
		}
		query = query.Where("id = ?", id)
	} else {
		quote := c.Query("quote")
		if quote == "" {
			return utils.BadRequest(c, "Quote content or ID required")
		}
		query = query.Where("quote = ? AND author = ?", quote, c.Query("author"))
	}

	var favorite models.QuoteFavorite
	if err := query.First(&favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Favorite quote not found")
		}
		return utils.InternalServerError(c, "Could not query favorites")
	}

	if err := qc.DB.Unscoped().Delete(&favorite).Error; err != nil {
		return utils.InternalServerError(c, "Could not remove favorite")
	}
	return c.JSON(fiber.Map{"message": "Favorite quote removed"})
}
