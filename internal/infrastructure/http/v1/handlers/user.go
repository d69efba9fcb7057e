package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appctx "catalisa/internal/core/context"
	"catalisa/internal/domain/auth"
	"catalisa/internal/domain/user"
	"catalisa/internal/infrastructure/http/v1/dto"
	"catalisa/internal/infrastructure/http/v1/middleware"
)

// UserHandler handles account and authentication endpoints.
type UserHandler struct {
	*BaseHandler
	users  *user.Service
	tokens *auth.TokenService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(base *BaseHandler, users *user.Service, tokens *auth.TokenService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		users:       users,
		tokens:      tokens,
	}
}

// Register handles POST /users/register
func (h *UserHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req user.RegisterInput
	if !h.BindJSON(c, &req) {
		return
	}

	account, err := h.users.Register(ctx, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	token, expiresAt, err := h.tokens.Generate(account)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      account,
	})
}

// Login handles POST /users/login
func (h *UserHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	account, err := h.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}

	token, expiresAt, err := h.tokens.Generate(account)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      account,
	})
}

// Profile handles GET /users/profile
func (h *UserHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	account, err := h.users.Get(ctx, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, account)
}

// UpdateProfile handles PUT /users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req user.ProfileUpdate
	if !h.BindJSON(c, &req) {
		return
	}

	account, err := h.users.UpdateProfile(ctx, userID, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, account)
}

// List handles GET /users (admin)
func (h *UserHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	accounts, err := h.users.List(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": accounts})
}

// Get handles GET /users/:id (admin)
func (h *UserHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	account, err := h.users.Get(ctx, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, account)
}

// Update handles PUT /users/:id (admin)
func (h *UserHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.RequireUser(c)
	if !ok {
		return
	}

	targetID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req user.AdminUpdate
	if !h.BindJSON(c, &req) {
		return
	}

	account, err := h.users.AdminUpdateUser(ctx, actor, targetID, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, account)
}

// SetActive handles PUT /users/:id/active (admin)
func (h *UserHandler) SetActive(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.RequireUser(c)
	if !ok {
		return
	}

	targetID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.SetActiveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	account, err := h.users.SetActive(ctx, actor, targetID, *req.Active)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, account)
}

// Deactivate handles DELETE /users/:id (admin). Accounts are never hard
// deleted; delete means deactivate.
func (h *UserHandler) Deactivate(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.RequireUser(c)
	if !ok {
		return
	}

	targetID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if _, err := h.users.SetActive(ctx, actor, targetID, false); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers user routes.
func (h *UserHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/users/register", h.Register)
	public.POST("/users/login", h.Login)

	protected.GET("/users/profile", h.Profile)
	protected.PUT("/users/profile", h.UpdateProfile)

	admin := middleware.RequireRole(appctx.RoleAdmin)
	protected.GET("/users", admin, h.List)
	protected.GET("/users/:id", admin, h.Get)
	protected.PUT("/users/:id", admin, h.Update)
	protected.PUT("/users/:id/active", admin, h.SetActive)
	protected.DELETE("/users/:id", admin, h.Deactivate)
}
