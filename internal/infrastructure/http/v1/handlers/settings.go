package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tavolo/internal/core/apperror"
	"tavolo/internal/domain/settings"
)

// SettingsHandler exposes the raw keyed settings store plus the typed
// app settings document.
type SettingsHandler struct {
	*BaseHandler
	service *settings.Service
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(base *BaseHandler, service *settings.Service) *SettingsHandler {
	return &SettingsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetApp handles GET /settings/app - typed app settings with defaults.
func (h *SettingsHandler) GetApp(c *gin.Context) {
	app, err := h.service.AppSettings(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// PutApp handles PUT /settings/app.
func (h *SettingsHandler) PutApp(c *gin.Context) {
	var req settings.AppSettings
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SaveAppSettings(c.Request.Context(), req); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

// Get handles GET /settings/:key - raw JSON value.
func (h *SettingsHandler) Get(c *gin.Context) {
	value, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", value)
}

// Put handles PUT /settings/:key - store a raw JSON value.
func (h *SettingsHandler) Put(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.Error(c, apperror.NewValidation("cannot read request body"))
		return
	}

	if err := h.service.Put(c.Request.Context(), c.Param("key"), json.RawMessage(body)); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "setting saved")
}

// Delete handles DELETE /settings/:key.
func (h *SettingsHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("key")); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
