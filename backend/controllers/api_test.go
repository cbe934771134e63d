package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"discipline/backend/config"
	"discipline/backend/engine"
	"discipline/backend/models"
	"discipline/backend/routes"
	"discipline/backend/utils"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
)

func TestMain(m *testing.M) {
	cfg = &config.Config{
		JWTSecret:  "testsecret",
		ServerPort: "8080",
	}

	var err error
	db, err = gorm.Open(sqlite.Open("file:controllers?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	if err := utils.Migrate(db); err != nil {
		panic(err)
	}

	app = fiber.New()
	routes.SetupRoutes(app, db, cfg)

	os.Exit(m.Run())
}

func doRequest(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(jsonData)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func registerUser(t *testing.T, username string) string {
	t.Helper()

	resp := doRequest(t, "POST", "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	result := decode(t, resp)
	token, ok := result["token"].(string)
	require.True(t, ok)
	return token
}

func createTask(t *testing.T, token, category, title string) uint {
	t.Helper()

	resp := doRequest(t, "POST", "/api/tasks", token, map[string]string{
		"category": category,
		"title":    title,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	result := decode(t, resp)
	data := result["data"].(map[string]interface{})
	return uint(data["id"].(float64))
}

func TestRegisterValidation(t *testing.T) {
	resp := doRequest(t, "POST", "/api/auth/register", "", map[string]string{
		"username": "ab", // too short
		"email":    "ab@example.com",
		"password": "123", // too short
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	registerUser(t, "dupuser")
	resp = doRequest(t, "POST", "/api/auth/register", "", map[string]string{
		"username": "dupuser",
		"email":    "fresh@example.com",
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLoginByUsernameOrEmail(t *testing.T) {
	registerUser(t, "loginuser")

	for _, login := range []string{"loginuser", "loginuser@example.com"} {
		resp := doRequest(t, "POST", "/api/auth/login", "", map[string]string{
			"login":    login,
			"password": "password123",
		})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		result := decode(t, resp)
		assert.NotEmpty(t, result["token"])
	}

	resp := doRequest(t, "POST", "/api/auth/login", "", map[string]string{
		"login":    "loginuser",
		"password": "wrongpassword",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMeReturnsInitialProgression(t *testing.T) {
	token := registerUser(t, "meuser")

	resp := doRequest(t, "GET", "/api/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	data := result["data"].(map[string]interface{})
	progression := data["progression"].(map[string]interface{})
	assert.Equal(t, float64(0), progression["current_streak"])
	assert.Equal(t, "Normal", progression["league"])
	assert.Equal(t, float64(0), progression["overall_score"])
}

func TestMeRequiresToken(t *testing.T) {
	resp := doRequest(t, "GET", "/api/auth/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestTaskCategoryCap(t *testing.T) {
	token := registerUser(t, "capuser")

	createTask(t, token, "Physical", "Run")
	createTask(t, token, "Physical", "Swim")

	resp := doRequest(t, "POST", "/api/tasks", token, map[string]string{
		"category": "Physical",
		"title":    "Bike",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Other categories are unaffected by the cap.
	createTask(t, token, "Social", "Call a friend")
}

func TestCreateTaskInvalidCategory(t *testing.T) {
	token := registerUser(t, "catuser")

	resp := doRequest(t, "POST", "/api/tasks", token, map[string]string{
		"category": "Cooking",
		"title":    "Bake bread",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCompleteTaskAndConflict(t *testing.T) {
	token := registerUser(t, "completeuser")
	taskID := createTask(t, token, "Discipline", "Meditate")

	resp := doRequest(t, "POST", fmt.Sprintf("/api/tasks/%d/complete", taskID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	progression := result["progression"].(map[string]interface{})
	points := progression["total_points"].(map[string]interface{})
	assert.Equal(t, 2.0, points["Discipline"]) // Normal league multiplier

	// Same task, same day: conflict with the unchanged state.
	resp = doRequest(t, "POST", fmt.Sprintf("/api/tasks/%d/complete", taskID), token, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	result = decode(t, resp)
	progression = result["progression"].(map[string]interface{})
	points = progression["total_points"].(map[string]interface{})
	assert.Equal(t, 2.0, points["Discipline"])
}

func TestTaskOwnership(t *testing.T) {
	ownerToken := registerUser(t, "owner")
	otherToken := registerUser(t, "intruder")
	taskID := createTask(t, ownerToken, "Intelligence", "Read a chapter")

	resp := doRequest(t, "PUT", fmt.Sprintf("/api/tasks/%d", taskID), otherToken, map[string]string{
		"title": "Hijacked",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, "DELETE", fmt.Sprintf("/api/tasks/%d", taskID), otherToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, "POST", fmt.Sprintf("/api/tasks/%d/complete", taskID), otherToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateAndDeleteTask(t *testing.T) {
	token := registerUser(t, "cruduser")
	taskID := createTask(t, token, "Determination", "Cold shower")

	resp := doRequest(t, "PUT", fmt.Sprintf("/api/tasks/%d", taskID), token, map[string]string{
		"title":       "Cold shower, 2 minutes",
		"description": "Every morning",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decode(t, resp)
	assert.Equal(t, "Cold shower, 2 minutes", result["title"])

	resp = doRequest(t, "DELETE", fmt.Sprintf("/api/tasks/%d", taskID), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, "GET", "/api/tasks", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var tasks []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tasks))
	assert.Empty(t, tasks)
}

func TestRadarStats(t *testing.T) {
	token := registerUser(t, "radaruser")
	taskID := createTask(t, token, "Social", "Call family")

	resp := doRequest(t, "POST", fmt.Sprintf("/api/tasks/%d/complete", taskID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, "GET", "/api/stats/radar", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	categories := result["categories"].([]interface{})
	assert.Len(t, categories, 5)
	assert.Equal(t, 0.4, result["overall_score"]) // 2.0 / 5
}

func TestLeaderboardRanking(t *testing.T) {
	registerUser(t, "boardlow")
	registerUser(t, "boardhigh")
	token := registerUser(t, "boardviewer")

	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "boardhigh").
		Updates(map[string]interface{}{"points_physical": 50.0, "language": "fr"}).Error)
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "boardlow").
		Updates(map[string]interface{}{"points_physical": 5.0, "language": "fr"}).Error)

	resp := doRequest(t, "GET", "/api/leaderboard?language=fr", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var entries []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "boardhigh", entries[0]["username"])
	assert.Equal(t, float64(1), entries[0]["rank"])
	assert.Equal(t, 10.0, entries[0]["overall_score"])
	assert.Equal(t, "boardlow", entries[1]["username"])
	assert.Equal(t, float64(2), entries[1]["rank"])

	resp = doRequest(t, "GET", "/api/leaderboard?language=xx", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestQuoteFavorites(t *testing.T) {
	token := registerUser(t, "quoteuser")

	resp := doRequest(t, "POST", "/api/quotes/favorites", token, map[string]string{
		"quote":  "Discipline equals freedom.",
		"author": "Jocko Willink",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	result := decode(t, resp)
	data := result["data"].(map[string]interface{})
	favoriteID := uint(data["id"].(float64))

	resp = doRequest(t, "GET", "/api/quotes/favorites", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var favorites []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&favorites))
	require.Len(t, favorites, 1)
	assert.Equal(t, "Discipline equals freedom.", favorites[0]["quote"])

	resp = doRequest(t, "DELETE", fmt.Sprintf("/api/quotes/favorites/%d", favoriteID), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, "DELETE", fmt.Sprintf("/api/quotes/favorites/%d", favoriteID), token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminEndpoints(t *testing.T) {
	userToken := registerUser(t, "plainuser")
	adminToken := registerUser(t, "adminuser")
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "adminuser").
		Update("role", "admin").Error)

	taskID := createTask(t, userToken, "Physical", "Pushups")
	resp := doRequest(t, "POST", fmt.Sprintf("/api/tasks/%d/complete", taskID), userToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	today := engine.Day(time.Now())
	path := fmt.Sprintf("/api/admin/tasks/%d/completions/%s", taskID, today)

	// Plain users cannot reach admin corrections.
	resp = doRequest(t, "DELETE", path, userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, "DELETE", path, adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var plain models.User
	require.NoError(t, db.Where("username = ?", "plainuser").First(&plain).Error)
	resp = doRequest(t, "POST", fmt.Sprintf("/api/admin/users/%d/reset", plain.ID), adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.Where("username = ?", "plainuser").First(&plain).Error)
	assert.Equal(t, 0.0, plain.PointsPhysical)
}
