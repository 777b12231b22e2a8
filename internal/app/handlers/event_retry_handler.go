package handlers

import (
	"net/http"

	"easyloan/internal/app"

	"github.com/gin-gonic/gin"
)

type EventRetryHandler struct {
	service app.EventRetryService
}

func NewEventRetryHandler(service app.EventRetryService) *EventRetryHandler {
	return &EventRetryHandler{service: service}
}

// RetryPendingEvents answers 200 while at least one event went out; a run
// where every publish failed is a server error.
func (h *EventRetryHandler) RetryPendingEvents(c *gin.Context) {
	response, err := h.service.RetryPendingEvents(c.Request.Context())
	if err != nil && (response == nil || len(response.SuccessIDs) == 0) {
		respondError(c, err)
		return
	}
	response.SetError(err)
	c.JSON(http.StatusOK, response)
}
