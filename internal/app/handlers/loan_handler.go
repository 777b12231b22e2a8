package handlers

import (
	"net/http"

	"easyloan/internal/app"
	"easyloan/internal/pkg/log_messages"
	custom "easyloan/internal/pkg/models"

	"github.com/gin-gonic/gin"
)

type LoanHandler struct {
	service         app.LoanService
	uploads         Uploads
	documentsFolder string
}

func NewLoanHandler(service app.LoanService, uploads Uploads, documentsFolder string) *LoanHandler {
	return &LoanHandler{service: service, uploads: uploads, documentsFolder: documentsFolder}
}

func (h *LoanHandler) CreateOffer(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req custom.CreateOfferRequest
	if err := bindBody(c, &req); err != nil {
		badRequest(c)
		return
	}
	url, err := h.uploads.store(c, "documents", h.documentsFolder)
	if err != nil {
		respondError(c, err)
		return
	}
	req.Documents = url

	loan, err := h.service.CreateOffer(c.Request.Context(), caller, req)
	if err != nil {
		h.uploads.discard(c, url)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loan)
}

func (h *LoanHandler) Apply(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req custom.ApplyLoanRequest
	if err := bindBody(c, &req); err != nil {
		badRequest(c)
		return
	}
	url, err := h.uploads.store(c, "documents", h.documentsFolder)
	if err != nil {
		respondError(c, err)
		return
	}
	req.Documents = url

	loan, err := h.service.Apply(c.Request.Context(), caller, req)
	if err != nil {
		h.uploads.discard(c, url)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loan)
}

func (h *LoanHandler) ListLoans(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var query custom.ListLoansQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c)
		return
	}
	page, err := h.service.ListLoans(c.Request.Context(), caller, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *LoanHandler) ListOffers(c *gin.Context) {
	var query custom.ListOffersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c)
		return
	}
	page, err := h.service.ListOffers(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *LoanHandler) GetLoan(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	loan, err := h.service.GetLoan(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loan)
}

func (h *LoanHandler) UpdateLoan(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req custom.UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	loan, err := h.service.UpdateLoan(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loan)
}

func (h *LoanHandler) UpdateStatus(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req custom.UpdateLoanStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	loan, err := h.service.UpdateStatus(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loan)
}

func (h *LoanHandler) RejectLoan(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	loan, err := h.service.RejectLoan(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loan)
}

func (h *LoanHandler) DeleteLoan(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	if err := h.service.DeleteLoan(c.Request.Context(), caller, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": log_messages.LoanDeleted})
}

func (h *LoanHandler) AdminDashboard(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	dashboard, err := h.service.AdminDashboard(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *LoanHandler) UserDashboard(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	dashboard, err := h.service.UserDashboard(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
