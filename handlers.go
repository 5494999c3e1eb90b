package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskman/models"
)

const (
	ctxUserID    = "userID"
	ctxUserEmail = "userEmail"
)

// App wires the HTTP surface to the auth core and the stores.
type App struct {
	cfg       *Config
	log       zerolog.Logger
	users     UserStore
	tasks     TaskStore
	tokens    *TokenService
	blacklist *TokenBlacklist
	auth      *AuthService
}

func NewApp(cfg *Config, log zerolog.Logger, users UserStore, tasks TaskStore) *App {
	tokens := NewTokenService(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	blacklist := NewTokenBlacklist()
	return &App{
		cfg:       cfg,
		log:       log,
		users:     users,
		tasks:     tasks,
		tokens:    tokens,
		blacklist: blacklist,
		auth:      NewAuthService(users, tokens, blacklist, log),
	}
}

func (a *App) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), a.requestLogger(), a.authenticate())

	auth := r.Group("/auth")
	{
		auth.POST("/register", a.registerHandler)
		auth.POST("/login", a.loginHandler)
		auth.POST("/refresh", a.refreshHandler)
		auth.POST("/logout", a.logoutHandler)
	}

	r.GET("/me", a.requireUser(), a.meHandler)

	tasks := r.Group("/tasks")
	tasks.Use(a.requireUser())
	{
		tasks.POST("", a.createTaskHandler)
		tasks.GET("", a.listTasksHandler)
		tasks.PUT("/:id", a.updateTaskStatusHandler)
		tasks.DELETE("/:id", a.deleteTaskHandler)
	}

	return r
}

// requestLogger tags every request with an id and logs it on completion.
func (a *App) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Header("X-Request-Id", requestID)
		start := time.Now()
		c.Next()
		a.log.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// authenticate attaches the caller's identity when a valid, unrevoked
// bearer token names an existing user. It never rejects a request: every
// failure leaves the request anonymous and the decision to the route
// guards. Paths under an exempt prefix skip the whole check.
func (a *App) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.isExempt(c.Request.URL.Path) {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.Next()
			return
		}
		raw := strings.TrimPrefix(header, bearerPrefix)
		if a.blacklist.IsRevoked(raw) {
			c.Next()
			return
		}
		claims, err := a.tokens.Verify(raw)
		if err != nil {
			// Anonymous on purpose: expired, malformed and mis-signed
			// tokens all end up here.
			c.Next()
			return
		}
		user, err := a.users.FindByEmail(claims.Subject)
		if err != nil {
			c.Next()
			return
		}
		c.Set(ctxUserID, user.ID)
		c.Set(ctxUserEmail, user.Email)
		c.Next()
	}
}

// requireUser aborts with 401 when authenticate attached no identity.
func (a *App) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ctxUserID); !ok {
			abortWithError(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		c.Next()
	}
}

func (a *App) isExempt(path string) bool {
	for _, prefix := range a.cfg.ExemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      c.Request.URL.Path,
	})
}

func abortWithValidationErrors(c *gin.Context, err error) {
	var details []string
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			details = append(details, fe.Field()+": "+fe.Tag())
		}
	} else {
		details = append(details, err.Error())
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Timestamp:        time.Now().UTC(),
		Status:           http.StatusBadRequest,
		Error:            http.StatusText(http.StatusBadRequest),
		Message:          "Validation failed",
		Path:             c.Request.URL.Path,
		ValidationErrors: details,
	})
}

// POST /auth/register
func (a *App) registerHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidationErrors(c, err)
		return
	}
	if err := a.auth.Register(req.Email, req.Password, req.Name); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			abortWithError(c, http.StatusConflict, err.Error())
			return
		}
		a.log.Error().Err(err).Msg("register failed")
		abortWithError(c, http.StatusInternalServerError, "registration failed")
		return
	}
	c.Status(http.StatusCreated)
}

// POST /auth/login
func (a *App) loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidationErrors(c, err)
		return
	}
	pair, err := a.auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			abortWithError(c, http.StatusBadRequest, "Invalid credentials")
			return
		}
		a.log.Error().Err(err).Msg("login failed")
		abortWithError(c, http.StatusInternalServerError, "login failed")
		return
	}
	c.JSON(http.StatusOK, pair)
}

// POST /auth/refresh
func (a *App) refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidationErrors(c, err)
		return
	}
	pair, err := a.auth.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			abortWithError(c, http.StatusBadRequest, "Invalid refresh token")
			return
		}
		a.log.Error().Err(err).Msg("refresh failed")
		abortWithError(c, http.StatusInternalServerError, "refresh failed")
		return
	}
	c.JSON(http.StatusOK, pair)
}

// POST /auth/logout — always 200, revocation is best effort.
func (a *App) logoutHandler(c *gin.Context) {
	a.auth.Logout(c.GetHeader("Authorization"))
	c.Status(http.StatusOK)
}

// GET /me
func (a *App) meHandler(c *gin.Context) {
	email := c.GetString(ctxUserEmail)
	user, err := a.users.FindByEmail(email)
	if err != nil {
		abortWithError(c, http.StatusNotFound, "user not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

type taskRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS DONE"`
}

type taskResponse struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
}

func toTaskResponse(t *models.Task) taskResponse {
	return taskResponse{ID: t.ID, Title: t.Title, Description: t.Description, Status: t.Status}
}

// POST /tasks
func (a *App) createTaskHandler(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidationErrors(c, err)
		return
	}
	status := req.Status
	if status == "" {
		status = models.StatusOpen
	}
	task := &models.Task{
		UserID:      c.GetUint(ctxUserID),
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
	}
	if err := a.tasks.Create(task); err != nil {
		a.log.Error().Err(err).Msg("create task failed")
		abortWithError(c, http.StatusInternalServerError, "create failed")
		return
	}
	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// GET /tasks
func (a *App) listTasksHandler(c *gin.Context) {
	tasks, err := a.tasks.ListByOwner(c.GetUint(ctxUserID))
	if err != nil {
		a.log.Error().Err(err).Msg("list tasks failed")
		abortWithError(c, http.StatusInternalServerError, "query failed")
		return
	}
	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, out)
}

// ownedTask resolves the :id path parameter to a task owned by the caller,
// answering 400/404/403 itself when that fails.
func (a *App) ownedTask(c *gin.Context) (*models.Task, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid task id")
		return nil, false
	}
	task, err := a.tasks.FindByID(uint(id))
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			abortWithError(c, http.StatusNotFound, "Task not found")
			return nil, false
		}
		a.log.Error().Err(err).Msg("find task failed")
		abortWithError(c, http.StatusInternalServerError, "query failed")
		return nil, false
	}
	if task.UserID != c.GetUint(ctxUserID) {
		abortWithError(c, http.StatusForbidden, "Forbidden")
		return nil, false
	}
	return task, true
}

// PUT /tasks/:id
func (a *App) updateTaskStatusHandler(c *gin.Context) {
	task, ok := a.ownedTask(c)
	if !ok {
		return
	}
	var req struct {
		Status models.TaskStatus `json:"status" binding:"required,oneof=OPEN IN_PROGRESS DONE"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidationErrors(c, err)
		return
	}
	task.Status = req.Status
	if err := a.tasks.Save(task); err != nil {
		a.log.Error().Err(err).Msg("update task failed")
		abortWithError(c, http.StatusInternalServerError, "update failed")
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

// DELETE /tasks/:id
func (a *App) deleteTaskHandler(c *gin.Context) {
	task, ok := a.ownedTask(c)
	if !ok {
		return
	}
	if err := a.tasks.Delete(task); err != nil {
		a.log.Error().Err(err).Msg("delete task failed")
		abortWithError(c, http.StatusInternalServerError, "delete failed")
		return
	}
	c.Status(http.StatusNoContent)
}
