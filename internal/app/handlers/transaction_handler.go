package handlers

import (
	"net/http"

	"easyloan/internal/app"
	"easyloan/internal/pkg/log_messages"
	custom "easyloan/internal/pkg/models"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	service app.TransactionService
}

func NewTransactionHandler(service app.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req custom.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	txn, err := h.service.CreateTransaction(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

func (h *TransactionHandler) GetAllTransactions(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var p custom.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		badRequest(c)
		return
	}
	page, err := h.service.GetAllTransactions(c.Request.Context(), caller, p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	txn, err := h.service.GetTransactionByID(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (h *TransactionHandler) GetTransactionsByUser(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	txns, err := h.service.GetTransactionsByUser(c.Request.Context(), caller, c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txns)
}

func (h *TransactionHandler) GetTransactionsByLoan(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	txns, err := h.service.GetTransactionsByLoan(c.Request.Context(), caller, c.Param("loanId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txns)
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req custom.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	txn, err := h.service.UpdateTransaction(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	if err := h.service.DeleteTransaction(c.Request.Context(), caller, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": log_messages.TransactionDeleted})
}
