package app

import (
	"context"
	"io"

	custom "easyloan/internal/pkg/models"
	"easyloan/internal/pkg/store/models"
)

type LoanService interface {
	CreateOffer(ctx context.Context, caller custom.Caller, req custom.CreateOfferRequest) (*models.Loan, error)
	Apply(ctx context.Context, caller custom.Caller, req custom.ApplyLoanRequest) (*models.Loan, error)
	GetLoan(ctx context.Context, caller custom.Caller, id string) (*custom.LoanView, error)
	ListLoans(ctx context.Context, caller custom.Caller, query custom.ListLoansQuery) (*custom.LoanPage, error)
	ListOffers(ctx context.Context, query custom.ListOffersQuery) (*custom.LoanPage, error)
	UpdateLoan(ctx context.Context, caller custom.Caller, id string, req custom.UpdateLoanRequest) (*models.Loan, error)
	UpdateStatus(ctx context.Context, caller custom.Caller, id string, req custom.UpdateLoanStatusRequest) (*models.Loan, error)
	RejectLoan(ctx context.Context, caller custom.Caller, id string) (*models.Loan, error)
	DeleteLoan(ctx context.Context, caller custom.Caller, id string) error
	AdminDashboard(ctx context.Context, caller custom.Caller) (*custom.AdminDashboard, error)
	UserDashboard(ctx context.Context, caller custom.Caller) (*custom.UserDashboard, error)
}

type RepaymentService interface {
	CreateRepayment(ctx context.Context, caller custom.Caller, req custom.CreateRepaymentRequest) (*models.Repayment, error)
	GetAllRepayments(ctx context.Context, caller custom.Caller) ([]custom.RepaymentView, error)
	GetRepaymentsByUser(ctx context.Context, caller custom.Caller, userID string) ([]custom.RepaymentView, error)
	GetRepaymentsByLoan(ctx context.Context, caller custom.Caller, loanID string) ([]custom.RepaymentView, error)
	GetRepaymentByID(ctx context.Context, caller custom.Caller, id string) (*custom.RepaymentView, error)
	UpdateRepayment(ctx context.Context, caller custom.Caller, id string, req custom.UpdateRepaymentRequest) (*models.Repayment, error)
	DeleteRepayment(ctx context.Context, caller custom.Caller, id string) error
}

type TransactionService interface {
	CreateTransaction(ctx context.Context, caller custom.Caller, req custom.CreateTransactionRequest) (*models.Transaction, error)
	GetAllTransactions(ctx context.Context, caller custom.Caller, p custom.Pagination) (*custom.TransactionPage, error)
	GetTransactionByID(ctx context.Context, caller custom.Caller, id string) (*custom.TransactionView, error)
	GetTransactionsByUser(ctx context.Context, caller custom.Caller, userID string) ([]custom.TransactionView, error)
	GetTransactionsByLoan(ctx context.Context, caller custom.Caller, loanID string) ([]custom.TransactionView, error)
	UpdateTransaction(ctx context.Context, caller custom.Caller, id string, req custom.UpdateTransactionRequest) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, caller custom.Caller, id string) error
}

type SettingsService interface {
	Get(ctx context.Context) (*models.Settings, error)
	Create(ctx context.Context, caller custom.Caller, req custom.SettingsRequest) (*models.Settings, error)
	Update(ctx context.Context, caller custom.Caller, req custom.SettingsRequest) (*models.Settings, error)
}

type EventRetryService interface {
	RetryPendingEvents(ctx context.Context) (*custom.EventRetryResponse, error)
}

// FileUploader stores an uploaded document and returns its public URL.
type FileUploader interface {
	Upload(ctx context.Context, folder, filename, contentType string, content io.Reader) (string, error)
	// Delete removes an object previously returned by Upload.
	Delete(ctx context.Context, url string) error
}
