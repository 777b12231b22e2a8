package models

import (
	"easyloan/internal/pkg/consts"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Caller is the authenticated identity attached by the auth middleware.
type Caller struct {
	UserID primitive.ObjectID
	Role   string
}

func (c Caller) IsAdmin() bool {
	return c.Role == consts.RoleAdmin
}

type Pagination struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize clamps page and limit to usable values.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = consts.DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = consts.DefaultPageLimit
	}
	if p.Limit > consts.MaxPageLimit {
		p.Limit = consts.MaxPageLimit
	}
	return p
}

func (p Pagination) Skip() int64 {
	return int64((p.Page - 1) * p.Limit)
}

type ListLoansQuery struct {
	Pagination
	Status string `form:"status" validate:"omitempty,loanstatus"`
}

type ListOffersQuery struct {
	Pagination
	LoanType string `form:"loanType" validate:"omitempty,loantype"`
}

type CreateOfferRequest struct {
	Amount       float64  `json:"amount" form:"amount" validate:"required,gt=0"`
	InterestRate *float64 `json:"interestRate" form:"interestRate" validate:"required,gte=0"`
	TermMonths   int      `json:"termMonths" form:"termMonths" validate:"required,gt=0"`
	LoanType     string   `json:"loanType" form:"loanType" validate:"required,loantype"`
	Documents    string   `json:"-" form:"-"`
}

type ApplyLoanRequest struct {
	Amount        float64  `json:"amount" form:"amount" validate:"required,gt=0"`
	Duration      int      `json:"duration" form:"duration" validate:"required,gt=0"`
	LoanType      string   `json:"loanType" form:"loanType" validate:"required,loantype"`
	InterestRate  *float64 `json:"interestRate" form:"interestRate" validate:"required,gte=0"`
	Reason        string   `json:"reason" form:"reason"`
	BankName      string   `json:"bankName" form:"bankName" validate:"required"`
	AccountName   string   `json:"accountName" form:"accountName" validate:"required"`
	AccountNumber string   `json:"accountNumber" form:"accountNumber" validate:"required,numeric"`
	BVN           string   `json:"bvn" form:"bvn" validate:"required,numeric"`
	Phone         string   `json:"phone" form:"phone" validate:"required"`
	Email         string   `json:"email" form:"email" validate:"required,email"`
	Documents     string   `json:"-" form:"-"`
}

type UpdateLoanRequest struct {
	Amount       *float64 `json:"amount" validate:"omitempty,gt=0"`
	InterestRate *float64 `json:"interestRate" validate:"omitempty,gte=0"`
	TermMonths   *int     `json:"termMonths" validate:"omitempty,gt=0"`
	LoanType     *string  `json:"loanType" validate:"omitempty,loantype"`
	Reason       *string  `json:"reason"`
	Documents    *string  `json:"documents"`
}

type UpdateLoanStatusRequest struct {
	Status consts.LoanStatus `json:"status" validate:"required,loanstatus"`
}

type CreateRepaymentRequest struct {
	LoanID        string  `json:"loanId" form:"loanId" validate:"required"`
	AmountPaid    float64 `json:"amountPaid" form:"amountPaid" validate:"required"`
	PaymentMethod string  `json:"paymentMethod" form:"paymentMethod" validate:"required,paymentmethod"`
	DueDate       string  `json:"dueDate" form:"dueDate" validate:"required"`
	Evidence      string  `json:"-" form:"-"`
}

type UpdateRepaymentRequest struct {
	Status        *consts.RepaymentStatus `json:"status" validate:"omitempty,repaymentstatus"`
	AmountPaid    *float64                `json:"amountPaid" validate:"omitempty,gt=0"`
	PaymentMethod *string                 `json:"paymentMethod" validate:"omitempty,paymentmethod"`
	DueDate       *string                 `json:"dueDate"`
	Evidence      *string                 `json:"evidence"`
}

func (r UpdateRepaymentRequest) IsEmpty() bool {
	return r.Status == nil && r.AmountPaid == nil && r.PaymentMethod == nil && r.DueDate == nil && r.Evidence == nil
}

type CreateTransactionRequest struct {
	UserID string                 `json:"userId" validate:"required"`
	LoanID string                 `json:"loanId" validate:"required"`
	Amount float64                `json:"amount" validate:"required,gt=0"`
	Type   consts.TransactionType `json:"type" validate:"required,oneof=payment disbursement refund"`
	Method string                 `json:"method" validate:"required,oneof=bank card mobile_money cash"`
}

type UpdateTransactionRequest struct {
	Amount *float64                  `json:"amount" validate:"omitempty,gt=0"`
	Type   *consts.TransactionType   `json:"type" validate:"omitempty,oneof=payment disbursement refund"`
	Status *consts.TransactionStatus `json:"status" validate:"omitempty,oneof=pending completed failed"`
	Method *string                   `json:"method" validate:"omitempty,oneof=bank card mobile_money cash"`
}

func (r UpdateTransactionRequest) IsEmpty() bool {
	return r.Amount == nil && r.Type == nil && r.Status == nil && r.Method == nil
}

type SettingsRequest struct {
	InterestRate       *float64 `json:"interestRate" validate:"omitempty,gte=0"`
	LoanTermOptions    []int    `json:"loanTermOptions" validate:"omitempty,dive,gt=0"`
	MaxLoanAmount      *float64 `json:"maxLoanAmount" validate:"omitempty,gt=0"`
	MinLoanAmount      *float64 `json:"minLoanAmount" validate:"omitempty,gt=0"`
	Currency           *string  `json:"currency" validate:"omitempty,len=3,alpha"`
	GracePeriodDays    *int     `json:"gracePeriodDays" validate:"omitempty,gte=0"`
	LatePaymentPenalty *float64 `json:"latePaymentPenalty" validate:"omitempty,gte=0"`
}
