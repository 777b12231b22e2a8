package models

import (
	"time"

	"easyloan/internal/pkg/consts"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Loan struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	LoanID            string              `bson:"loanId,omitempty" json:"loanId,omitempty"`
	User              *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	CreatedBy         primitive.ObjectID  `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	Amount            float64             `bson:"amount" json:"amount"`
	InterestRate      float64             `bson:"interestRate" json:"interestRate"`
	TermMonths        int                 `bson:"termMonths" json:"termMonths"`
	LoanType          string              `bson:"loanType" json:"loanType"`
	Reason            string              `bson:"reason,omitempty" json:"reason,omitempty"`
	MonthlyPayment    float64             `bson:"monthlyPayment" json:"monthlyPayment"`
	TotalRepayable    float64             `bson:"totalRepayable" json:"totalRepayable"`
	RepaymentBalance  float64             `bson:"repaymentBalance" json:"repaymentBalance"`
	Status            consts.LoanStatus   `bson:"status" json:"status"`
	IsOffer           bool                `bson:"isOffer" json:"isOffer"`
	BankName          string              `bson:"bankName,omitempty" json:"bankName,omitempty"`
	AccountName       string              `bson:"accountName,omitempty" json:"accountName,omitempty"`
	AccountNumber     string              `bson:"accountNumber,omitempty" json:"accountNumber,omitempty"`
	BVN               string              `bson:"bvn,omitempty" json:"bvn,omitempty"`
	Phone             string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Email             string              `bson:"email,omitempty" json:"email,omitempty"`
	Documents         string              `bson:"documents,omitempty" json:"documents,omitempty"`
	ApplicationDate   *time.Time          `bson:"applicationDate,omitempty" json:"applicationDate,omitempty"`
	StartDate         *time.Time          `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate           *time.Time          `bson:"endDate,omitempty" json:"endDate,omitempty"`
	DefaultedAt       *time.Time          `bson:"defaultedAt,omitempty" json:"defaultedAt,omitempty"`
	LastRepaymentDate *time.Time          `bson:"lastRepaymentDate,omitempty" json:"lastRepaymentDate,omitempty"`
	Version           int64               `bson:"version" json:"-"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// OwnedBy reports whether userID is the applicant. Offers have no owner.
func (l *Loan) OwnedBy(userID primitive.ObjectID) bool {
	return l.User != nil && *l.User == userID
}

type Repayment struct {
	ID            primitive.ObjectID     `bson:"_id,omitempty" json:"_id"`
	Loan          primitive.ObjectID     `bson:"loan" json:"loan"`
	User          primitive.ObjectID     `bson:"user" json:"user"`
	AmountPaid    float64                `bson:"amountPaid" json:"amountPaid"`
	PaymentMethod string                 `bson:"paymentMethod" json:"paymentMethod"`
	DueDate       time.Time              `bson:"dueDate" json:"dueDate"`
	PaymentDate   time.Time              `bson:"paymentDate" json:"paymentDate"`
	ReferenceID   string                 `bson:"referenceId" json:"referenceId"`
	Evidence      string                 `bson:"evidence,omitempty" json:"evidence,omitempty"`
	Status        consts.RepaymentStatus `bson:"status" json:"status"`
	IsDeleted     bool                   `bson:"isDeleted" json:"-"`
	DeletedAt     *time.Time             `bson:"deletedAt,omitempty" json:"-"`
	CreatedAt     time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time              `bson:"updatedAt" json:"updatedAt"`
}

type Transaction struct {
	ID              primitive.ObjectID       `bson:"_id,omitempty" json:"_id"`
	User            primitive.ObjectID       `bson:"user" json:"user"`
	Loan            primitive.ObjectID       `bson:"loan" json:"loan"`
	Amount          float64                  `bson:"amount" json:"amount"`
	Type            consts.TransactionType   `bson:"type" json:"type"`
	Method          string                   `bson:"method" json:"method"`
	Status          consts.TransactionStatus `bson:"status" json:"status"`
	TransactionDate time.Time                `bson:"transactionDate" json:"transactionDate"`
	ReferenceID     string                   `bson:"referenceId" json:"referenceId"`
	CreatedAt       time.Time                `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time                `bson:"updatedAt" json:"updatedAt"`
}

type Settings struct {
	ID                 string    `bson:"_id" json:"-"`
	InterestRate       float64   `bson:"interestRate" json:"interestRate"`
	LoanTermOptions    []int     `bson:"loanTermOptions" json:"loanTermOptions"`
	MaxLoanAmount      float64   `bson:"maxLoanAmount" json:"maxLoanAmount"`
	MinLoanAmount      float64   `bson:"minLoanAmount" json:"minLoanAmount"`
	Currency           string    `bson:"currency" json:"currency"`
	GracePeriodDays    int       `bson:"gracePeriodDays" json:"gracePeriodDays"`
	LatePaymentPenalty float64   `bson:"latePaymentPenalty" json:"latePaymentPenalty"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time `bson:"updatedAt" json:"updatedAt"`
}

// User is owned by the identity service; only the fields shown in listings are read.
type User struct {
	ID    primitive.ObjectID `bson:"_id" json:"_id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Role  string             `bson:"role" json:"role"`
}

// LoanEvent is an outbox record written in the same transaction as the change it describes.
type LoanEvent struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	EventType   string              `bson:"eventType" json:"eventType"`
	Loan        primitive.ObjectID  `bson:"loan" json:"loan"`
	User        *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	ReferenceID string              `bson:"referenceId,omitempty" json:"referenceId,omitempty"`
	Payload     map[string]any      `bson:"payload,omitempty" json:"payload,omitempty"`
	Published   bool                `bson:"published" json:"-"`
	PublishedAt *time.Time          `bson:"publishedAt,omitempty" json:"-"`
	Attempts    int                 `bson:"attempts" json:"-"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// Aggregation result shapes.

type StatusCount struct {
	Status consts.LoanStatus `bson:"_id"`
	Count  int64             `bson:"count"`
}

type TypeCount struct {
	LoanType string `bson:"_id"`
	Count    int64  `bson:"count"`
}

type LoanPaidTotal struct {
	Loan  primitive.ObjectID `bson:"_id"`
	Total float64            `bson:"total"`
}
