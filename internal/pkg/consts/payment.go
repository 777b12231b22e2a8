package consts

type RepaymentStatus string

const (
	RepaymentStatusPaid     RepaymentStatus = "paid"
	RepaymentStatusLate     RepaymentStatus = "late"
	RepaymentStatusUpcoming RepaymentStatus = "upcoming"
	RepaymentStatusRejected RepaymentStatus = "rejected"
)

const (
	PaymentMethodBank         = "bank"
	PaymentMethodCard         = "card"
	PaymentMethodMobileMoney  = "mobile_money"
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank transfer"
)

type TransactionType string

const (
	TransactionTypePayment      TransactionType = "payment"
	TransactionTypeDisbursement TransactionType = "disbursement"
	TransactionTypeRefund       TransactionType = "refund"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)
