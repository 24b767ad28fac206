package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/IvanTsarou/GenTS/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler структурирует зависимости сервисов для обработки HTTP-запросов.
type Handler struct {
	TripService      *service.TripService
	LocationService  *service.LocationService
	StructureService *service.StructureService
	StoryService     *service.StoryService
	UserService      *service.UserService
}

// NewHandler создает новый Handler с внедрением зависимостей (сервисов).
func NewHandler(ts *service.TripService, ls *service.LocationService,
	ss *service.StructureService, sts *service.StoryService, us *service.UserService) *Handler {
	return &Handler{
		TripService:      ts,
		LocationService:  ls,
		StructureService: ss,
		StoryService:     sts,
		UserService:      us,
	}
}

// Register навешивает маршруты API.
func (h *Handler) Register(router *gin.Engine) {
	api := router.Group("/api")
	{
		trip := api.Group("/trip/:id")
		{
			trip.GET("/structured", h.GetStructuredTrip)
			trip.GET("/locations", h.ListTripLocations)
			trip.POST("/generate", h.GenerateStory)
			trip.GET("/story", h.GetStory)
			trip.PUT("/story", h.PutStory)
		}
		admin := api.Group("/admin")
		{
			admin.GET("/users", h.ListUsers)
			admin.PATCH("/users/:id", h.UpdateUser)
		}
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// GetStructuredTrip обрабатывает GET /api/trip/:id/structured: возвращает
// структуру поездки: дни -> локации -> фото/отзывы.
func (h *Handler) GetStructuredTrip(c *gin.Context) {
	structured, err := h.StructureService.StructureTrip(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTripNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось структурировать поездку"})
		return
	}
	c.JSON(http.StatusOK, structured)
}

// ListTripLocations обрабатывает GET /api/trip/:id/locations: список локаций поездки.
func (h *Handler) ListTripLocations(c *gin.Context) {
	tripID := c.Param("id")
	if _, err := h.TripService.GetByID(tripID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить поездку"})
		return
	}

	locations, err := h.LocationService.ListByTrip(tripID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить локации"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// GenerateStory обрабатывает POST /api/trip/:id/generate: ставит story в очередь.
func (h *Handler) GenerateStory(c *gin.Context) {
	_, err := h.StoryService.QueueGeneration(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTripNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start generation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "pending",
		"message": "Story generation queued",
	})
}

// GetStory обрабатывает GET /api/trip/:id/story: возвращает story поездки.
func (h *Handler) GetStory(c *gin.Context) {
	story, err := h.StoryService.GetStory(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrStoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить story"})
		return
	}
	c.JSON(http.StatusOK, story)
}

type putStoryRequest struct {
	Content string `json:"content"`
	Failed  bool   `json:"failed"`
}

// PutStory обрабатывает PUT /api/trip/:id/story, колбэк генератора:
// сохраняет готовый текст либо фиксирует сбой генерации.
func (h *Handler) PutStory(c *gin.Context) {
	var req putStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса"})
		return
	}

	tripID := c.Param("id")
	if _, err := h.StoryService.GetStory(tripID); err != nil {
		if errors.Is(err, service.ErrStoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить story"})
		return
	}

	if req.Failed {
		if err := h.StoryService.FailGeneration(tripID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить story"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "failed"})
		return
	}

	if req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}
	if err := h.StoryService.CompleteStory(tripID, req.Content); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить story"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

// ListUsers обрабатывает GET /api/admin/users: список пользователей,
// при ?pending=1 только ожидающие верификации.
func (h *Handler) ListUsers(c *gin.Context) {
	onlyPending := c.Query("pending") == "1"
	users, err := h.UserService.List(onlyPending)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить пользователей"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type updateUserRequest struct {
	IsVerified *bool `json:"is_verified"`
	IsAdmin    *bool `json:"is_admin"`
}

// UpdateUser обрабатывает PATCH /api/admin/users/:id: верификация и права.
func (h *Handler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное тело запроса"})
		return
	}

	id := c.Param("id")
	if _, err := h.UserService.GetByID(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить пользователя"})
		return
	}

	if req.IsVerified != nil {
		if err := h.UserService.SetVerified(id, *req.IsVerified); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить пользователя"})
			return
		}
	}
	if req.IsAdmin != nil {
		if err := h.UserService.SetAdmin(id, *req.IsAdmin); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить пользователя"})
			return
		}
	}

	user, err := h.UserService.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить пользователя"})
		return
	}
	c.JSON(http.StatusOK, user)
}
