package consts

const (
	EventLoanApplied        = "loan.applied"
	EventLoanOfferCreated   = "loan.offer_created"
	EventLoanStatusChanged  = "loan.status_changed"
	EventLoanDisbursed      = "loan.disbursed"
	EventLoanCompleted      = "loan.completed"
	EventRepaymentRecorded  = "repayment.recorded"
	EventRepaymentUpdated   = "repayment.updated"
	EventRepaymentReversed  = "repayment.reversed"
	EventTransactionCreated = "transaction.created"
)

// Notification types understood by the notification consumer.
const (
	NotificationTypeLoan      = "loan"
	NotificationTypeRepayment = "repayment"
	NotificationTypeWarning   = "warning"
	NotificationTypeOffer     = "offer"
	NotificationTypeSystem    = "system"
)

const (
	NotificationRefLoan      = "Loan"
	NotificationRefRepayment = "Repayment"
)
