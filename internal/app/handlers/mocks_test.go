package handlers

import (
	"context"
	"io"

	custom "easyloan/internal/pkg/models"
	"easyloan/internal/pkg/store/models"

	"github.com/stretchr/testify/mock"
)

type mockLoanService struct{ mock.Mock }

func (m *mockLoanService) CreateOffer(ctx context.Context, caller custom.Caller, req custom.CreateOfferRequest) (*models.Loan, error) {
	args := m.Called(ctx, caller, req)
	return loanOrNil(args.Get(0)), args.Error(1)
}

func (m *mockLoanService) Apply(ctx context.Context, caller custom.Caller, req custom.ApplyLoanRequest) (*models.Loan, error) {
	args := m.Called(ctx, caller, req)
	return loanOrNil(args.Get(0)), args.Error(1)
}

func (m *mockLoanService) GetLoan(ctx context.Context, caller custom.Caller, id string) (*custom.LoanView, error) {
	args := m.Called(ctx, caller, id)
	v, _ := args.Get(0).(*custom.LoanView)
	return v, args.Error(1)
}

func (m *mockLoanService) ListLoans(ctx context.Context, caller custom.Caller, query custom.ListLoansQuery) (*custom.LoanPage, error) {
	args := m.Called(ctx, caller, query)
	v, _ := args.Get(0).(*custom.LoanPage)
	return v, args.Error(1)
}

func (m *mockLoanService) ListOffers(ctx context.Context, query custom.ListOffersQuery) (*custom.LoanPage, error) {
	args := m.Called(ctx, query)
	v, _ := args.Get(0).(*custom.LoanPage)
	return v, args.Error(1)
}

func (m *mockLoanService) UpdateLoan(ctx context.Context, caller custom.Caller, id string, req custom.UpdateLoanRequest) (*models.Loan, error) {
	args := m.Called(ctx, caller, id, req)
	return loanOrNil(args.Get(0)), args.Error(1)
}

func (m *mockLoanService) UpdateStatus(ctx context.Context, caller custom.Caller, id string, req custom.UpdateLoanStatusRequest) (*models.Loan, error) {
	args := m.Called(ctx, caller, id, req)
	return loanOrNil(args.Get(0)), args.Error(1)
}

func (m *mockLoanService) RejectLoan(ctx context.Context, caller custom.Caller, id string) (*models.Loan, error) {
	args := m.Called(ctx, caller, id)
	return loanOrNil(args.Get(0)), args.Error(1)
}

func (m *mockLoanService) DeleteLoan(ctx context.Context, caller custom.Caller, id string) error {
	return m.Called(ctx, caller, id).Error(0)
}

func (m *mockLoanService) AdminDashboard(ctx context.Context, caller custom.Caller) (*custom.AdminDashboard, error) {
	args := m.Called(ctx, caller)
	v, _ := args.Get(0).(*custom.AdminDashboard)
	return v, args.Error(1)
}

func (m *mockLoanService) UserDashboard(ctx context.Context, caller custom.Caller) (*custom.UserDashboard, error) {
	args := m.Called(ctx, caller)
	v, _ := args.Get(0).(*custom.UserDashboard)
	return v, args.Error(1)
}

func loanOrNil(v any) *models.Loan {
	loan, _ := v.(*models.Loan)
	return loan
}

type mockRepaymentService struct{ mock.Mock }

func (m *mockRepaymentService) CreateRepayment(ctx context.Context, caller custom.Caller, req custom.CreateRepaymentRequest) (*models.Repayment, error) {
	args := m.Called(ctx, caller, req)
	v, _ := args.Get(0).(*models.Repayment)
	return v, args.Error(1)
}

func (m *mockRepaymentService) GetAllRepayments(ctx context.Context, caller custom.Caller) ([]custom.RepaymentView, error) {
	args := m.Called(ctx, caller)
	v, _ := args.Get(0).([]custom.RepaymentView)
	return v, args.Error(1)
}

func (m *mockRepaymentService) GetRepaymentsByUser(ctx context.Context, caller custom.Caller, userID string) ([]custom.RepaymentView, error) {
	args := m.Called(ctx, caller, userID)
	v, _ := args.Get(0).([]custom.RepaymentView)
	return v, args.Error(1)
}

func (m *mockRepaymentService) GetRepaymentsByLoan(ctx context.Context, caller custom.Caller, loanID string) ([]custom.RepaymentView, error) {
	args := m.Called(ctx, caller, loanID)
	v, _ := args.Get(0).([]custom.RepaymentView)
	return v, args.Error(1)
}

func (m *mockRepaymentService) GetRepaymentByID(ctx context.Context, caller custom.Caller, id string) (*custom.RepaymentView, error) {
	args := m.Called(ctx, caller, id)
	v, _ := args.Get(0).(*custom.RepaymentView)
	return v, args.Error(1)
}

func (m *mockRepaymentService) UpdateRepayment(ctx context.Context, caller custom.Caller, id string, req custom.UpdateRepaymentRequest) (*models.Repayment, error) {
	args := m.Called(ctx, caller, id, req)
	v, _ := args.Get(0).(*models.Repayment)
	return v, args.Error(1)
}

func (m *mockRepaymentService) DeleteRepayment(ctx context.Context, caller custom.Caller, id string) error {
	return m.Called(ctx, caller, id).Error(0)
}

type mockTransactionService struct{ mock.Mock }

func (m *mockTransactionService) CreateTransaction(ctx context.Context, caller custom.Caller, req custom.CreateTransactionRequest) (*models.Transaction, error) {
	args := m.Called(ctx, caller, req)
	v, _ := args.Get(0).(*models.Transaction)
	return v, args.Error(1)
}

func (m *mockTransactionService) GetAllTransactions(ctx context.Context, caller custom.Caller, p custom.Pagination) (*custom.TransactionPage, error) {
	args := m.Called(ctx, caller, p)
	v, _ := args.Get(0).(*custom.TransactionPage)
	return v, args.Error(1)
}

func (m *mockTransactionService) GetTransactionByID(ctx context.Context, caller custom.Caller, id string) (*custom.TransactionView, error) {
	args := m.Called(ctx, caller, id)
	v, _ := args.Get(0).(*custom.TransactionView)
	return v, args.Error(1)
}

func (m *mockTransactionService) GetTransactionsByUser(ctx context.Context, caller custom.Caller, userID string) ([]custom.TransactionView, error) {
	args := m.Called(ctx, caller, userID)
	v, _ := args.Get(0).([]custom.TransactionView)
	return v, args.Error(1)
}

func (m *mockTransactionService) GetTransactionsByLoan(ctx context.Context, caller custom.Caller, loanID string) ([]custom.TransactionView, error) {
	args := m.Called(ctx, caller, loanID)
	v, _ := args.Get(0).([]custom.TransactionView)
	return v, args.Error(1)
}

func (m *mockTransactionService) UpdateTransaction(ctx context.Context, caller custom.Caller, id string, req custom.UpdateTransactionRequest) (*models.Transaction, error) {
	args := m.Called(ctx, caller, id, req)
	v, _ := args.Get(0).(*models.Transaction)
	return v, args.Error(1)
}

func (m *mockTransactionService) DeleteTransaction(ctx context.Context, caller custom.Caller, id string) error {
	return m.Called(ctx, caller, id).Error(0)
}

type mockSettingsService struct{ mock.Mock }

func (m *mockSettingsService) Get(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*models.Settings)
	return v, args.Error(1)
}

func (m *mockSettingsService) Create(ctx context.Context, caller custom.Caller, req custom.SettingsRequest) (*models.Settings, error) {
	args := m.Called(ctx, caller, req)
	v, _ := args.Get(0).(*models.Settings)
	return v, args.Error(1)
}

func (m *mockSettingsService) Update(ctx context.Context, caller custom.Caller, req custom.SettingsRequest) (*models.Settings, error) {
	args := m.Called(ctx, caller, req)
	v, _ := args.Get(0).(*models.Settings)
	return v, args.Error(1)
}

type mockRetryService struct{ mock.Mock }

func (m *mockRetryService) RetryPendingEvents(ctx context.Context) (*custom.EventRetryResponse, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*custom.EventRetryResponse)
	return v, args.Error(1)
}

type mockUploader struct{ mock.Mock }

func (m *mockUploader) Upload(ctx context.Context, folder, filename, contentType string, content io.Reader) (string, error) {
	body, _ := io.ReadAll(content)
	args := m.Called(ctx, folder, filename, string(body))
	return args.String(0), args.Error(1)
}

func (m *mockUploader) Delete(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}
