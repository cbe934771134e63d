package routes

import (
	"discipline/backend/config"
	"discipline/backend/controllers"
	"discipline/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	app.Get("/api/auth/me", authMiddleware, authController.Me)

	// Task routes
	taskController := controllers.NewTaskController(db, cfg)
	tasks := app.Group("/api/tasks", authMiddleware)
	tasks.Get("/", taskController.GetTasks)
	tasks.Post("/", taskController.CreateTask)
	tasks.Put("/:id", taskController.UpdateTask)
	tasks.Delete("/:id", taskController.DeleteTask)
	tasks.Post("/:id/complete", taskController.CompleteTask)

	// Stats routes
	statsController := controllers.NewStatsController(db, cfg)
	app.Get("/api/stats/radar", authMiddleware, statsController.GetRadarStats)
	app.Get("/api/leaderboard", authMiddleware, statsController.GetLeaderboard)

	// Quote favorites
	quoteController := controllers.NewQuoteController(db, cfg)
	quotes := app.Group("/api/quotes/favorites", authMiddleware)
	quotes.Get("/", quoteController.GetFavorites)
	quotes.Post("/", quoteController.SaveFavorite)
	quotes.Delete("/:id?", quoteController.RemoveFavorite)

	// Admin corrections
	adminController := controllers.NewAdminController(db, cfg)
	admin := app.Group("/api/admin", authMiddleware, adminMiddleware)
	admin.Delete("/tasks/:id/completions/:day", adminController.RemoveCompletion)
	admin.Post("/users/:id/reset", adminController.ResetProgression)
}
