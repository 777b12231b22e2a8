package handlers

import (
	"net/http"

	"easyloan/internal/app"
	"easyloan/internal/pkg/log_messages"
	custom "easyloan/internal/pkg/models"

	"github.com/gin-gonic/gin"
)

type RepaymentHandler struct {
	service        app.RepaymentService
	uploads        Uploads
	evidenceFolder string
}

func NewRepaymentHandler(service app.RepaymentService, uploads Uploads, evidenceFolder string) *RepaymentHandler {
	return &RepaymentHandler{service: service, uploads: uploads, evidenceFolder: evidenceFolder}
}

func (h *RepaymentHandler) CreateRepayment(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req custom.CreateRepaymentRequest
	if err := bindBody(c, &req); err != nil {
		badRequest(c)
		return
	}
	url, err := h.uploads.store(c, "evidence", h.evidenceFolder)
	if err != nil {
		respondError(c, err)
		return
	}
	req.Evidence = url

	repayment, err := h.service.CreateRepayment(c.Request.Context(), caller, req)
	if err != nil {
		h.uploads.discard(c, url)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, repayment)
}

func (h *RepaymentHandler) GetAllRepayments(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	repayments, err := h.service.GetAllRepayments(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, repayments)
}

func (h *RepaymentHandler) GetRepaymentByID(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	repayment, err := h.service.GetRepaymentByID(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, repayment)
}

func (h *RepaymentHandler) GetRepaymentsByUser(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	repayments, err := h.service.GetRepaymentsByUser(c.Request.Context(), caller, c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, repayments)
}

func (h *RepaymentHandler) GetRepaymentsByLoan(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	repayments, err := h.service.GetRepaymentsByLoan(c.Request.Context(), caller, c.Param("loanId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, repayments)
}

func (h *RepaymentHandler) UpdateRepayment(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req custom.UpdateRepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	repayment, err := h.service.UpdateRepayment(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, repayment)
}

func (h *RepaymentHandler) DeleteRepayment(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	if err := h.service.DeleteRepayment(c.Request.Context(), caller, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": log_messages.RepaymentDeleted})
}
