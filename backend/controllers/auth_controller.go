package controllers

import (
	"errors"
	"time"

	"discipline/backend/config"
	"discipline/backend/engine"
	"discipline/backend/models"
	"discipline/backend/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Engine *engine.Service
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg, Engine: engine.NewService(db)}
}

type RegisterRequest struct {
	Username string `json:"username" example:"john_doe" minLength:"3" maxLength:"20"`
	Email    string `json:"email" example:"user@example.com" format:"email"`
	Password string `json:"password" example:"password123" minLength:"6"`
	Language string `json:"language" example:"en"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates a new account with an empty progression state
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "User registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	fieldErrors := map[string]string{}
	if len(input.Username) < 3 || len(input.Username) > 20 {
		fieldErrors["username"] = "must be between 3 and 20 characters"
	}
	if input.Email == "" {
		fieldErrors["email"] = "is required"
	}
	if len(input.Password) < 6 {
		fieldErrors["password"] = "must be at least 6 characters"
	}
	if input.Language == "" {
		input.Language = "en"
	}
	if !models.IsValidLanguage(input.Language) {
		fieldErrors["language"] = "unsupported language code"
	}
	if len(fieldErrors) > 0 {
		return utils.ValidationFailed(c, fieldErrors)
	}

	var existing models.User
	err := ac.DB.Where("username = ? OR email = ?", input.Username, input.Email).First(&existing).Error
	if err == nil {
		if existing.Username == input.Username {
			return utils.BadRequest(c, "Username already registered")
		}
		return utils.BadRequest(c, "Email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, "Could not query database")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Language:     input.Language,
		League:       string(engine.LeagueNormal),
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not create user")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"language": user.Language,
		},
	})
}

// Login godoc
// @Summary User login
// @Description Authenticates by username or email and returns a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body map[string]interface{} true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Login    string `json:"login"` // username or email
		Password string `json:"password"`
	}

	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := ac.DB.Where("username = ? OR email = ?", input.Login, input.Login).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "Invalid credentials")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid credentials")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	ac.DB.Create(&models.LoginHistory{
		UserID:    user.ID,
		LoginTime: time.Now().UTC(),
	})

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"language": user.Language,
		},
	})
}

// Me godoc
// @Summary Current user with progression state
// @Description Returns the profile together with the freshly derived progression snapshot
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	// Streak, league and badges are derived from the ledger on read,
	// including any pending missed-day penalty.
	snapshot, err := ac.Engine.UserSnapshot(userID, time.Now())
	if err != nil {
		return utils.InternalServerError(c, "Could not compute progression")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":          user.ID,
		"username":    user.Username,
		"email":       user.Email,
		"language":    user.Language,
		"role":        user.Role,
		"created_at":  user.CreatedAt,
		"progression": snapshot,
	})
}
