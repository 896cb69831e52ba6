package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"habit-tracker/internal/auth"
	"habit-tracker/internal/domain"
	"habit-tracker/internal/service"
	"habit-tracker/web"
)

const userIDKey = "user_id"

// Handler wires HTTP routes to domain services.
type Handler struct {
	users       service.UserService
	habits      service.HabitService
	tokens      *auth.Manager
	allowOrigin string
	logger      *logrus.Logger
}

func NewHandler(users service.UserService, habits service.HabitService, tokens *auth.Manager, allowOrigin string, logger *logrus.Logger) *Handler {
	return &Handler{
		users:       users,
		habits:      habits,
		tokens:      tokens,
		allowOrigin: allowOrigin,
		logger:      logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(h.allowOrigin))
	router.Use(h.requestLogger())

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/", h.index)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
	}

	habits := router.Group("/habits")
	habits.Use(h.authMiddleware())
	{
		habits.GET("", h.listHabits)
		habits.POST("", h.createHabit)
		habits.PUT("/:id", h.toggleHabit)
		habits.DELETE("/:id", h.deleteHabit)
	}
}

func (h *Handler) index(c *gin.Context) {
	page, err := web.Assets.ReadFile("index.html")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "client unavailable"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func corsMiddleware(allowOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Info("request")
	}
}

// authMiddleware verifies the bearer token, resolves its subject to a live
// user, and stores the user id in the request context for the habit
// handlers. A token whose user no longer exists is treated as invalid.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid authorization header"})
			return
		}

		claims, err := h.tokens.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		if _, err := h.users.GetByID(c.Request.Context(), userID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createHabitRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username, email and password are required"})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			h.logger.WithError(err).Error("register user")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error registering user"})
		}
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.WithError(err).Error("issue token")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error registering user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    userToResponse(user),
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		h.logger.WithError(err).Error("login user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error logging in"})
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.WithError(err).Error("issue token")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error logging in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    userToResponse(user),
	})
}

func (h *Handler) listHabits(c *gin.Context) {
	habits, err := h.habits.List(c.Request.Context(), c.GetInt64(userIDKey))
	if err != nil {
		h.logger.WithError(err).Error("list habits")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching habits"})
		return
	}

	resp := make([]HabitResponse, len(habits))
	for i := range habits {
		resp[i] = habitToResponse(habits[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createHabit(c *gin.Context) {
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "habit name is required"})
		return
	}

	habit, err := h.habits.Create(c.Request.Context(), c.GetInt64(userIDKey), req.Name)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		h.logger.WithError(err).Error("create habit")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating habit"})
		return
	}

	c.JSON(http.StatusCreated, habitToResponse(*habit))
}

func (h *Handler) toggleHabit(c *gin.Context) {
	id, ok := habitID(c)
	if !ok {
		return
	}

	habit, err := h.habits.Toggle(c.Request.Context(), c.GetInt64(userIDKey), id)
	if err != nil {
		if errors.Is(err, service.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Habit not found"})
			return
		}
		h.logger.WithError(err).Error("toggle habit")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating habit"})
		return
	}

	c.JSON(http.StatusOK, habitToResponse(*habit))
}

func (h *Handler) deleteHabit(c *gin.Context) {
	id, ok := habitID(c)
	if !ok {
		return
	}

	if err := h.habits.Delete(c.Request.Context(), c.GetInt64(userIDKey), id); err != nil {
		if errors.Is(err, service.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Habit not found"})
			return
		}
		h.logger.WithError(err).Error("delete habit")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting habit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Habit deleted successfully"})
}

// habitID parses the :id path parameter; a non-numeric or non-positive id is
// reported as not found, the same as a habit owned by someone else.
func habitID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Habit not found"})
		return 0, false
	}
	return id, true
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

type HabitResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Streak      int     `json:"streak"`
	LastChecked *string `json:"lastChecked"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func habitToResponse(habit domain.Habit) HabitResponse {
	resp := HabitResponse{
		ID:        habit.ID,
		Name:      habit.Name,
		Streak:    habit.Streak,
		CreatedAt: habit.CreatedAt.Format(time.RFC3339),
		UpdatedAt: habit.UpdatedAt.Format(time.RFC3339),
	}
	if habit.LastChecked != nil {
		v := habit.LastChecked.Format(time.RFC3339)
		resp.LastChecked = &v
	}
	return resp
}
