package controllers

import (
	"errors"
	"strconv"
	"time"

	"discipline/backend/config"
	"discipline/backend/engine"
	"discipline/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdminController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Engine *engine.Service
}

func NewAdminController(db *gorm.DB, cfg *config.Config) *AdminController {
	return &AdminController{DB: db, Cfg: cfg, Engine: engine.NewService(db)}
}

// RemoveCompletion is the explicit correction path: normal operation
// never removes ledger entries.
func (ac *AdminController) RemoveCompletion(c *fiber.Ctx) error {
	taskID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid task ID")
	}

	day := c.Params("day")
	if _, err := time.Parse(engine.DayFormat, day); err != nil {
		return utils.BadRequest(c, "Invalid day format. Use YYYY-MM-DD")
	}

	userID, err := ac.Engine.RemoveCompletion(uint(taskID), day)
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			return utils.NotFound(c, "Completion not found")
		}
		return utils.InternalServerError(c, "Could not remove completion")
	}

	return c.JSON(fiber.Map{
		"message": "Completion removed",
		"user_id": userID,
	})
}

// ResetProgression clears a user's badges and progression state.
func (ac *AdminController) ResetProgression(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	if err := ac.Engine.ResetProgression(uint(userID)); err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not reset progression")
	}

	return c.JSON(fiber.Map{"message": "Progression reset"})
}
