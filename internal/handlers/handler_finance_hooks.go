package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
	portssvc "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/services"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/dto"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/middleware"
)

// financeHookHandler exposes the caller adapters over HTTP for the
// operational modules.
type financeHookHandler struct {
	hookService portssvc.FinanceHookSvcFacade
}

// registerFinanceHookRoutes registers the business event posting routes.
func registerFinanceHookRoutes(rg *gin.RouterGroup, hookService portssvc.FinanceHookSvcFacade) {
	h := &financeHookHandler{hookService: hookService}

	finance := rg.Group("/finance")
	{
		finance.POST("/orders/:id/payments", h.recordOrderPayment)
		finance.POST("/purchase-orders/:id/settle", h.settlePurchaseOrder)
		finance.POST("/payrolls/:id/post", h.postPayroll)
	}
}

// recordOrderPayment godoc
// @Summary Record an order payment
// @Description Applies the payment to the order and posts the receipt when the auto-journal toggle is on
// @Tags finance
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param payment body dto.RecordOrderPaymentRequest true "Payment details"
// @Success 201 {object} dto.HookPostingResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 422 {object} map[string]string "Period closed"
// @Security BearerAuth
// @Router /finance/orders/{id}/payments [post]
func (h *financeHookHandler) recordOrderPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	var req dto.RecordOrderPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for recordOrderPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	journal, err := h.hookService.OnOrderPaymentRecorded(c.Request.Context(), tenantID, dto.OrderPaymentEvent{
		PaymentID:   req.PaymentID,
		OrderID:     c.Param("id"),
		Amount:      req.Amount,
		Method:      req.Method,
		Description: req.Description,
		Date:        req.Date,
	}, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toHookPostingResponse(journal))
}

// settlePurchaseOrder godoc
// @Summary Settle a purchase order
// @Description Posts the outstanding balance as a supplier disbursement and marks the purchase order PAID
// @Tags finance
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param settlement body dto.SettlePurchaseOrderRequest true "Payment method"
// @Success 201 {object} dto.HookPostingResponse
// @Failure 400 {object} map[string]string "No outstanding balance"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Purchase order not found"
// @Failure 422 {object} map[string]string "Period closed"
// @Security BearerAuth
// @Router /finance/purchase-orders/{id}/settle [post]
func (h *financeHookHandler) settlePurchaseOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	var req dto.SettlePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for settlePurchaseOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	journal, err := h.hookService.OnPurchaseOrderPaid(c.Request.Context(), tenantID, c.Param("id"), req.Method, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toHookPostingResponse(journal))
}

// postPayroll godoc
// @Summary Post an approved payroll run
// @Description Posts the net amount of an APPROVED payroll run and marks it PAID
// @Tags finance
// @Accept json
// @Produce json
// @Param id path string true "Payroll period ID"
// @Param posting body dto.PostPayrollRequest true "Payment method"
// @Success 201 {object} dto.HookPostingResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Payroll period not found"
// @Failure 422 {object} map[string]string "Payroll not approved or period closed"
// @Security BearerAuth
// @Router /finance/payrolls/{id}/post [post]
func (h *financeHookHandler) postPayroll(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	var req dto.PostPayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for postPayroll", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	journal, err := h.hookService.OnPayrollApproved(c.Request.Context(), tenantID, c.Param("id"), req.Method, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toHookPostingResponse(journal))
}

func toHookPostingResponse(journal *domain.Journal) dto.HookPostingResponse {
	if journal == nil {
		return dto.HookPostingResponse{Posted: false}
	}
	resp := dto.ToJournalResponse(journal)
	return dto.HookPostingResponse{Journal: &resp, Posted: true}
}
