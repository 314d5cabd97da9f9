package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/josiaO/SmartDalaliTZ/internal/middleware"
	"github.com/josiaO/SmartDalaliTZ/internal/service"
	"github.com/josiaO/SmartDalaliTZ/internal/utils"
)

type LoginRequestDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// RegisterRoutes puts login on public behind loginLimit, and the session
// endpoints on authed.
func (h *AuthHandler) RegisterRoutes(public, authed *gin.RouterGroup, loginLimit gin.HandlerFunc) {
	public.POST("/auth/login", loginLimit, h.Login)
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/me", h.Me)
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}
	token, user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// POST /api/v1/auth/logout. Tokens are stateless, so the client just drops it.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// GET /api/v1/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.svc.CurrentUser(c.Request.Context(), middleware.ActorFrom(c).ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
