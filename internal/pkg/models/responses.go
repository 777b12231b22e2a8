package models

import (
	"easyloan/internal/pkg/consts"
	storemodels "easyloan/internal/pkg/store/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func NewPaginationMeta(total int64, p Pagination) PaginationMeta {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return PaginationMeta{Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}

type UserSummary struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Email string             `json:"email,omitempty"`
}

type LoanSummary struct {
	ID               primitive.ObjectID `json:"_id"`
	LoanID           string             `json:"loanId,omitempty"`
	Amount           float64            `json:"amount"`
	Status           consts.LoanStatus  `json:"status"`
	RepaymentBalance float64            `json:"repaymentBalance"`
}

// LoanView is a loan with its applicant populated.
type LoanView struct {
	storemodels.Loan
	User *UserSummary `json:"user,omitempty"`
}

type LoanPage struct {
	Success bool           `json:"success"`
	Data    []LoanView     `json:"data"`
	Meta    PaginationMeta `json:"meta"`
}

type RepaymentView struct {
	storemodels.Repayment
	Loan             *LoanSummary `json:"loan,omitempty"`
	User             *UserSummary `json:"user,omitempty"`
	TotalPaid        float64      `json:"totalPaid"`
	RepaymentBalance float64      `json:"repaymentBalance"`
}

type TransactionView struct {
	storemodels.Transaction
	User *UserSummary `json:"user,omitempty"`
	Loan *LoanSummary `json:"loan,omitempty"`
}

type TransactionPage struct {
	Success bool              `json:"success"`
	Data    []TransactionView `json:"data"`
	Meta    PaginationMeta    `json:"meta"`
}

type AdminStatistics struct {
	TotalLoans     int64 `json:"totalLoans"`
	PendingLoans   int64 `json:"pendingLoans"`
	ApprovedLoans  int64 `json:"approvedLoans"`
	ActiveLoans    int64 `json:"activeLoans"`
	CompletedLoans int64 `json:"completedLoans"`
	DefaultedLoans int64 `json:"defaultedLoans"`
	RejectedLoans  int64 `json:"rejectedLoans"`
}

type DashboardCharts struct {
	LoanDistribution map[string]int64 `json:"loanDistribution"`
	LoanTypeLevels   map[string]int64 `json:"loanTypeLevels"`
}

type AdminDashboard struct {
	Statistics  AdminStatistics `json:"statistics"`
	Charts      DashboardCharts `json:"charts"`
	RecentLoans []LoanView      `json:"recentLoans"`
}

type UserStatistics struct {
	TotalLoans     int64 `json:"totalLoans"`
	ActiveLoans    int64 `json:"activeLoans"`
	CompletedLoans int64 `json:"completedLoans"`
	DefaultedLoans int64 `json:"defaultedLoans"`
}

type UserDashboard struct {
	Statistics  UserStatistics     `json:"statistics"`
	LoanTypes   map[string]int64   `json:"loanTypes"`
	RecentLoans []storemodels.Loan `json:"recentLoans"`
}

type EventRetryResponse struct {
	SuccessIDs []string `json:"success_ids"`
	FailedIDs  []string `json:"failed_ids"`
	Message    string   `json:"message,omitempty"`
	ErrorMsg   string   `json:"error,omitempty"`
}

func (r *EventRetryResponse) SetError(err error) {
	if err != nil {
		r.ErrorMsg = err.Error()
	}
}
