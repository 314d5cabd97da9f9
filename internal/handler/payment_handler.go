package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/josiaO/SmartDalaliTZ/internal/middleware"
	"github.com/josiaO/SmartDalaliTZ/internal/model"
	"github.com/josiaO/SmartDalaliTZ/internal/service"
	"github.com/josiaO/SmartDalaliTZ/internal/utils"
)

type MpesaRequestDTO struct {
	Phone string `json:"phone" binding:"required"`
	Plan  string `json:"plan" binding:"required,oneof=monthly annual"`
}

type CardRequestDTO struct {
	CardNumber string `json:"cardNumber" binding:"required"`
	Expiry     string `json:"expiry" binding:"required"`
	CVC        string `json:"cvc" binding:"required"`
	Plan       string `json:"plan" binding:"required,oneof=monthly annual"`
}

type PaymentHandler struct {
	svc *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) RegisterRoutes(agent *gin.RouterGroup, limit gin.HandlerFunc) {
	agent.POST("/payments/mpesa", limit, h.Mpesa)
	agent.POST("/payments/card", limit, h.Card)
}

// POST /api/v1/payments/mpesa
func (h *PaymentHandler) Mpesa(c *gin.Context) {
	var req MpesaRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}
	receipt, err := h.svc.PayMpesa(c.Request.Context(), middleware.ActorFrom(c).ID, req.Phone, model.PaymentPlan(req.Plan))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, receipt)
}

// POST /api/v1/payments/card. A bare MMYY expiry is accepted and formatted
// as MM/YY.
func (h *PaymentHandler) Card(c *gin.Context) {
	var req CardRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}
	expiry := req.Expiry
	if d := utils.DigitsOnly(expiry); len(d) == len(expiry) {
		expiry = utils.FormatExpiry(d)
	}
	card := service.CardDetails{Number: req.CardNumber, Expiry: expiry, CVC: req.CVC}
	receipt, err := h.svc.PayCard(c.Request.Context(), middleware.ActorFrom(c).ID, card, model.PaymentPlan(req.Plan))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, receipt)
}
