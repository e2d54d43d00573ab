package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/services"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/dto"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/middleware"
)

// periodHandler handles HTTP requests for accounting periods.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

// registerPeriodRoutes registers routes related to accounting periods.
func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := &periodHandler{periodService: periodService}

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:id", h.getPeriod)
		periods.POST("/:id/close", h.beginClose)
		periods.POST("/:id/finalize", h.finalizeClose)
		periods.POST("/:id/reopen", h.reopenPeriod)
		periods.GET("/:id/checklist", h.getChecklist)
		periods.PUT("/:id/checklist/:key", h.markChecklistItem)
		periods.GET("/:id/audit", h.getAuditLog)
	}
}

// createPeriod godoc
// @Summary Create an accounting period
// @Description Opens a new period and seeds its close checklist
// @Tags periods
// @Accept json
// @Produce json
// @Param period body dto.CreatePeriodRequest true "Period details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Invalid input or overlapping range"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List accounting periods
// @Tags periods
// @Produce json
// @Success 200 {array} dto.PeriodResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	_, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	periods, err := h.periodService.ListPeriods(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.PeriodResponse, len(periods))
	for i := range periods {
		responses[i] = dto.ToPeriodResponse(&periods[i])
	}
	c.JSON(http.StatusOK, responses)
}

// getPeriod godoc
// @Summary Get an accounting period by ID
// @Tags periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Period not found"
// @Security BearerAuth
// @Router /periods/{id} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	_, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	period, err := h.periodService.GetPeriod(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// beginClose godoc
// @Summary Begin closing a period
// @Description Moves OPEN to CLOSING and evaluates the automated checklist items
// @Tags periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} dto.ClosePeriodResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 422 {object} map[string]string "Illegal transition"
// @Security BearerAuth
// @Router /periods/{id}/close [post]
func (h *periodHandler) beginClose(c *gin.Context) {
	userID, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	period, checklist, err := h.periodService.BeginClose(c.Request.Context(), tenantID, c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ClosePeriodResponse{
		Period:    dto.ToPeriodResponse(period),
		Checklist: dto.ToChecklistResponses(checklist),
	})
}

// finalizeClose godoc
// @Summary Finalize closing a period
// @Description Moves CLOSING to CLOSED once every checklist item is complete; snapshots closing totals
// @Tags periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 422 {object} map[string]string "Checklist incomplete or illegal transition"
// @Security BearerAuth
// @Router /periods/{id}/finalize [post]
func (h *periodHandler) finalizeClose(c *gin.Context) {
	userID, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	period, err := h.periodService.FinalizeClose(c.Request.Context(), tenantID, c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// reopenPeriod godoc
// @Summary Reopen a period
// @Description Moves CLOSING or CLOSED back to OPEN; reopening a CLOSED period requires a reason
// @Tags periods
// @Accept json
// @Produce json
// @Param id path string true "Period ID"
// @Param reopen body dto.ReopenPeriodRequest true "Reopen reason"
// @Success 200 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Missing reason"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 422 {object} map[string]string "Illegal transition"
// @Security BearerAuth
// @Router /periods/{id}/reopen [post]
func (h *periodHandler) reopenPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	var req dto.ReopenPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for reopenPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	period, err := h.periodService.ReopenPeriod(c.Request.Context(), tenantID, c.Param("id"), req.Reason, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// getChecklist godoc
// @Summary Get the close checklist of a period
// @Tags periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {array} dto.ChecklistItemResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Period not found"
// @Security BearerAuth
// @Router /periods/{id}/checklist [get]
func (h *periodHandler) getChecklist(c *gin.Context) {
	_, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	checklist, err := h.periodService.GetChecklist(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToChecklistResponses(checklist))
}

// markChecklistItem godoc
// @Summary Mark a manual checklist item
// @Description Marks or unmarks a manual item; automated items are owned by the system
// @Tags periods
// @Accept json
// @Produce json
// @Param id path string true "Period ID"
// @Param key path string true "Checklist item key"
// @Param mark body dto.MarkChecklistRequest true "Completion state"
// @Success 200 {object} dto.ChecklistItemResponse
// @Failure 400 {object} map[string]string "Automated item or invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Period or item not found"
// @Security BearerAuth
// @Router /periods/{id}/checklist/{key} [put]
func (h *periodHandler) markChecklistItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	var req dto.MarkChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for markChecklistItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	item, err := h.periodService.MarkChecklistItem(c.Request.Context(), tenantID, c.Param("id"), c.Param("key"), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToChecklistItemResponse(*item))
}

// getAuditLog godoc
// @Summary Get the audit trail of a period
// @Tags periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {array} dto.PeriodAuditResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Period not found"
// @Security BearerAuth
// @Router /periods/{id}/audit [get]
func (h *periodHandler) getAuditLog(c *gin.Context) {
	_, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	entries, err := h.periodService.GetAuditLog(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.PeriodAuditResponse, len(entries))
	for i, entry := range entries {
		responses[i] = dto.ToPeriodAuditResponse(entry)
	}
	c.JSON(http.StatusOK, responses)
}
