package handlers

import (
	"context"
	"net/http"

	"easyloan/internal/app"
	custom "easyloan/internal/pkg/models"
	"easyloan/internal/pkg/store/models"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	service app.SettingsService
}

func NewSettingsHandler(service app.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.service.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) Create(c *gin.Context) {
	h.write(c, h.service.Create)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	h.write(c, h.service.Update)
}

type settingsWriter func(ctx context.Context, caller custom.Caller, req custom.SettingsRequest) (*models.Settings, error)

func (h *SettingsHandler) write(c *gin.Context, fn settingsWriter) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req custom.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	settings, err := fn(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, settings)
}
