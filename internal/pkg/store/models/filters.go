package models

import (
	"time"

	"easyloan/internal/pkg/consts"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoanFilter narrows loan queries. Zero values are ignored.
type LoanFilter struct {
	User         *primitive.ObjectID
	IsOffer      *bool
	Status       consts.LoanStatus
	LoanType     string
	DefaultSince *time.Time
}

type RepaymentFilter struct {
	User *primitive.ObjectID
	Loan *primitive.ObjectID
}

type TransactionFilter struct {
	User *primitive.ObjectID
	Loan *primitive.ObjectID
}

// Page is a resolved skip/limit window.
type Page struct {
	Skip  int64
	Limit int64
}
