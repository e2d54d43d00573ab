package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/services"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/dto"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/middleware"
)

// journalHandler handles HTTP requests for the manual journal API.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// RegisterJournalRoutes registers routes related to journals.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := &journalHandler{journalService: journalService}

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.GET("", h.listJournals)
		journals.GET("/:id", h.getJournal)
		journals.PUT("/:id", h.updateJournal)
		journals.POST("/:id/post", h.postJournal)
		journals.POST("/:id/reverse", h.reverseJournal)
		journals.DELETE("/:id", h.deleteJournal)
	}
}

// createJournal godoc
// @Summary Create a draft journal
// @Description Creates a DRAFT journal with at least two balanced lines
// @Tags journals
// @Accept json
// @Produce json
// @Param journal body dto.CreateJournalRequest true "Journal details"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid input or unbalanced lines"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Period closed"
// @Security BearerAuth
// @Router /journals [post]
func (h *journalHandler) createJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	journal, err := h.journalService.CreateDraftJournal(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// listJournals godoc
// @Summary List journals
// @Description Returns a page of journal headers, newest first
// @Tags journals
// @Produce json
// @Param limit query int false "Page size (default 20)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	_, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	journals, err := h.journalService.ListJournals(c.Request.Context(), tenantID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.ListJournalsResponse{Journals: make([]dto.JournalResponse, len(journals))}
	for i := range journals {
		resp.Journals[i] = dto.ToJournalResponse(&journals[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getJournal godoc
// @Summary Get a journal by ID
// @Description Retrieves a journal with its lines
// @Tags journals
// @Produce json
// @Param id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal not found"
// @Security BearerAuth
// @Router /journals/{id} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	_, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	journal, err := h.journalService.GetJournalByID(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// updateJournal godoc
// @Summary Update a draft journal
// @Description Edits the date and description of a DRAFT journal
// @Tags journals
// @Accept json
// @Produce json
// @Param id path string true "Journal ID"
// @Param journal body dto.UpdateJournalRequest true "Updated header fields"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 422 {object} map[string]string "Illegal transition or period closed"
// @Security BearerAuth
// @Router /journals/{id} [put]
func (h *journalHandler) updateJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	journal, err := h.journalService.UpdateDraftJournal(c.Request.Context(), tenantID, c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// postJournal godoc
// @Summary Post a draft journal
// @Description Transitions a DRAFT journal to POSTED; lines become immutable
// @Tags journals
// @Produce json
// @Param id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 422 {object} map[string]string "Illegal transition or period closed"
// @Security BearerAuth
// @Router /journals/{id}/post [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	userID, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	journal, err := h.journalService.PostJournal(c.Request.Context(), tenantID, c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// reverseJournal godoc
// @Summary Reverse a posted journal
// @Description Creates the mirror journal and links both; both end REVERSED
// @Tags journals
// @Accept json
// @Produce json
// @Param id path string true "Journal ID"
// @Param reversal body dto.ReverseJournalRequest false "Optional reversal date"
// @Success 201 {object} dto.JournalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 422 {object} map[string]string "Illegal transition or period closed"
// @Security BearerAuth
// @Router /journals/{id}/reverse [post]
func (h *journalHandler) reverseJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	var req dto.ReverseJournalRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for reverseJournal", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	journal, err := h.journalService.ReverseJournal(c.Request.Context(), tenantID, c.Param("id"), req.Date, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// deleteJournal godoc
// @Summary Delete a draft journal
// @Description Deletes a DRAFT journal and its lines
// @Tags journals
// @Param id path string true "Journal ID"
// @Success 204 "No content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 422 {object} map[string]string "Illegal transition"
// @Security BearerAuth
// @Router /journals/{id} [delete]
func (h *journalHandler) deleteJournal(c *gin.Context) {
	userID, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	if err := h.journalService.DeleteDraftJournal(c.Request.Context(), tenantID, c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
