package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/services"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/dto"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/middleware"
)

// settingHandler handles HTTP requests for tenant settings.
type settingHandler struct {
	settingService portssvc.SettingSvcFacade
}

// registerSettingRoutes registers routes related to tenant settings.
func registerSettingRoutes(rg *gin.RouterGroup, settingService portssvc.SettingSvcFacade) {
	h := &settingHandler{settingService: settingService}

	settings := rg.Group("/settings")
	{
		settings.GET("", h.listSettings)
		settings.PUT("/:key", h.updateSetting)
	}
}

// listSettings godoc
// @Summary List tenant settings
// @Tags settings
// @Produce json
// @Success 200 {array} dto.SettingResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /settings [get]
func (h *settingHandler) listSettings(c *gin.Context) {
	_, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	settings, err := h.settingService.ListSettings(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSettingResponses(settings))
}

// updateSetting godoc
// @Summary Update a tenant setting
// @Description Rewrites the value of an existing setting; the stored type governs coercion
// @Tags settings
// @Accept json
// @Produce json
// @Param key path string true "Setting key"
// @Param setting body dto.UpdateSettingRequest true "New value"
// @Success 200 {object} dto.SettingResponse
// @Failure 400 {object} map[string]string "Value does not coerce to the setting type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Unknown setting key"
// @Security BearerAuth
// @Router /settings/{key} [put]
func (h *settingHandler) updateSetting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, tenantID, ok := requestIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateSetting", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	setting, err := h.settingService.UpdateSetting(c.Request.Context(), tenantID, c.Param("key"), req.Value, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSettingResponse(*setting))
}
