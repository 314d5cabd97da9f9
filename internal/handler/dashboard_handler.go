package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/josiaO/SmartDalaliTZ/internal/middleware"
	"github.com/josiaO/SmartDalaliTZ/internal/service"
	"github.com/josiaO/SmartDalaliTZ/internal/utils"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) RegisterRoutes(agent, admin *gin.RouterGroup) {
	agent.GET("/agent/dashboard", h.Agent)
	admin.GET("/admin/dashboard", h.Admin)
}

func (h *DashboardHandler) Agent(c *gin.Context) {
	stats, err := h.svc.AgentStats(c.Request.Context(), middleware.ActorFrom(c).ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) Admin(c *gin.Context) {
	stats, err := h.svc.AdminStats(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
