package controllers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"discipline/backend/config"
	"discipline/backend/engine"
	"discipline/backend/models"
	"discipline/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MaxTasksPerCategory caps how many tasks a user may hold per category.
const MaxTasksPerCategory = 2

type TaskController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Engine *engine.Service
}

func NewTaskController(db *gorm.DB, cfg *config.Config) *TaskController {
	return &TaskController{DB: db, Cfg: cfg, Engine: engine.NewService(db)}
}

type TaskRequest struct {
	Category    string `json:"category" example:"Physical"`
	Title       string `json:"title" example:"Morning run" maxLength:"100"`
	Description string `json:"description" example:"5km before work" maxLength:"500"`
}

func taskJSON(task models.Task) fiber.Map {
	days := make([]string, 0, len(task.Completions))
	today := engine.Day(time.Now())
	completedToday := false
	for _, comp := range task.Completions {
		days = append(days, comp.Day)
		if comp.Day == today {
			completedToday = true
		}
	}

	return fiber.Map{
		"id":               task.ID,
		"category":         task.Category,
		"title":            task.Title,
		"description":      task.Description,
		"created_at":       task.CreatedAt,
		"completion_dates": days,
		"completed_today":  completedToday,
	}
}

// GetTasks returns all tasks of the caller with their completion dates.
func (tc *TaskController) GetTasks(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var tasks []models.Task
	if err := tc.DB.Preload("Completions").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return utils.InternalServerError(c, "Could not query tasks")
	}

	result := make([]fiber.Map, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, taskJSON(task))
	}
	return c.JSON(result)
}

// CreateTask godoc
// @Summary Create a task
// @Description Creates a task in one of the five categories, max 2 per category
// @Tags tasks
// @Accept json
// @Produce json
// @Param input body TaskRequest true "Task data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tasks [post]
func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input TaskRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	category, err := engine.ParseCategory(input.Category)
	if err != nil {
		return utils.ValidationFailed(c, map[string]string{"category": err.Error()})
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" || len(input.Title) > 100 {
		return utils.ValidationFailed(c, map[string]string{"title": "must be 1-100 characters"})
	}
	if len(input.Description) > 500 {
		return utils.ValidationFailed(c, map[string]string{"description": "must be at most 500 characters"})
	}

	// Cap check happens before any state mutation.
	var count int64
	if err := tc.DB.Model(&models.Task{}).
		Where("user_id = ? AND category = ?", userID, string(category)).
		Count(&count).Error; err != nil {
		return utils.InternalServerError(c, "Could not query tasks")
	}
	if count >= MaxTasksPerCategory {
		return utils.BadRequest(c, "Maximum 2 tasks allowed per category. You already have "+
			strconv.FormatInt(count, 10)+" tasks in "+string(category)+" category.")
	}

	task := models.Task{
		UserID:      userID,
		Category:    string(category),
		Title:       input.Title,
		Description: input.Description,
	}
	if err := tc.DB.Create(&task).Error; err != nil {
		return utils.InternalServerError(c, "Could not create task")
	}

	return utils.Created(c, taskJSON(task))
}

// UpdateTask lets the owner change title and description.
func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	taskID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid task ID")
	}

	var input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var task models.Task
	if err := tc.DB.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Task not found")
		}
		return utils.InternalServerError(c, "Could not query tasks")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" || len(title) > 100 {
			return utils.ValidationFailed(c, map[string]string{"title": "must be 1-100 characters"})
		}
		task.Title = title
	}
	if input.Description != nil {
		if len(*input.Description) > 500 {
			return utils.ValidationFailed(c, map[string]string{"description": "must be at most 500 characters"})
		}
		task.Description = *input.Description
	}

	if err := tc.DB.Save(&task).Error; err != nil {
		return utils.InternalServerError(c, "Could not update task")
	}

	if err := tc.DB.Preload("Completions").First(&task, task.ID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query tasks")
	}
	return c.JSON(taskJSON(task))
}

// DeleteTask removes a task and its ledger entries.
func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	taskID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid task ID")
	}

	var task models.Task
	if err := tc.DB.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Task not found")
		}
		return utils.InternalServerError(c, "Could not query tasks")
	}

	if err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("task_id = ?", task.ID).Delete(&models.TaskCompletion{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&task).Error
	}); err != nil {
		return utils.InternalServerError(c, "Could not delete task")
	}

	return c.JSON(fiber.Map{"message": "Task deleted successfully"})
}

// CompleteTask godoc
// @Summary Complete a task for today
// @Description Records the completion and recomputes streak, league, score and badges
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /tasks/{id}/complete [post]
func (tc *TaskController) CompleteTask(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	taskID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid task ID")
	}

	snapshot, conflict, err := tc.Engine.CompleteTask(userID, uint(taskID), time.Now())
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			return utils.NotFound(c, "Task not found")
		}
		return utils.InternalServerError(c, "Could not complete task")
	}

	if conflict {
		// Duplicate completion: answer with the unchanged state rather
		// than erroring destructively, so client retries are harmless.
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":     "Task already completed today",
			"progression": snapshot,
		})
	}

	return c.JSON(fiber.Map{
		"message":     "Task completed successfully",
		"progression": snapshot,
	})
}
