package log_messages

// Client-facing messages.
const (
	ServerError                = "Server Error"
	InvalidID                  = "Invalid id: %s"
	LoanNotFound               = "Loan not found"
	RepaymentNotFound          = "Repayment not found"
	TransactionNotFound        = "Transaction not found"
	SettingsNotFound           = "Settings not found. Please initialize system settings."
	SettingsAlreadyExist       = "Settings already exist. You can update them instead."
	NotAuthorized              = "Not authorized"
	AdminOnly                  = "Access denied. Admins only."
	MissingToken               = "Not authorized, no token"
	InvalidToken               = "Not authorized, token failed"
	NotLoanOwner               = "You are not authorized to access this loan"
	NotRepaymentOwner          = "You are not authorized to access this repayment"
	DefaultLockout             = "You cannot apply for a new loan within 3 months of defaulting."
	LoanAlreadyInStatus        = "Loan is already %s"
	InvalidTransition          = "Cannot change loan status from %s to %s"
	LoanNotActive              = "Repayments can only be made on active loans. Loan is %s"
	InvalidLoanBalance         = "Loan balance is invalid"
	Overpayment                = "Amount paid (%s) exceeds outstanding balance (%s)"
	BalanceAdjustmentTooLarge  = "Repayment change would take the loan balance below zero"
	DisbursementAmountMismatch = "Disbursement amount must match the loan amount of %s"
	LoanAlreadyDisbursed       = "Loan is already %s"
	LoanTermsLocked            = "Loan terms cannot change while the loan is %s"
	RepaymentAlreadyDeleted    = "Repayment has already been deleted"
	ConcurrentLoanModification = "Loan was modified concurrently, retry"
	RepaymentInProgress        = "A repayment for this loan is already in progress"
	AmountOutOfRange           = "Loan amount must be between %s and %s"
	TermNotOffered             = "Loan duration of %d months is not offered"
	InvalidAmount              = "Amount must be a number greater than zero"
	InvalidDueDate             = "Due date must be a valid date"
	NoFieldsToUpdate           = "No valid fields provided for update"
	InvalidSettings            = "Minimum loan amount cannot exceed maximum loan amount"
	InvalidRequestBody         = "Invalid request body"
	UploadFailed               = "Failed to upload file"
	UploadsDisabled            = "File uploads are not enabled"
	FileTooLarge               = "File exceeds the %d MB upload limit"
	LoanDeleted                = "Loan removed"
	RepaymentDeleted           = "Repayment deleted successfully"
	TransactionDeleted         = "Transaction deleted successfully"
	FieldRequired              = "%s is required"
	FieldInvalid               = "%s is invalid"
	NoPendingEvents            = "no pending loan events to publish"
)

// Log lines.
const (
	ErrorMarshallingMessage   = "failed to marshal message: %v"
	ErrorInMessagePublishing  = "failed to publish message: %v"
	TopicDoesNotExists        = "pubsub topic does not exist: %v"
	ErrorPubSubClientCreation = "error creating pubsub client"
	KafkaProducerCreated      = "Kafka producer created"
	ErrorClosingGCSClient     = "error closing GCS client"
	ErrorUploadingToGCS       = "error uploading object to GCS bucket"
	ErrorClosingGCSWriter     = "error closing GCS writer"
	UploadedToGCSBucket       = "uploaded object to GCS bucket"
	DeletedFromGCSBucket      = "deleted orphaned object from GCS bucket"
	ErrorDeletingFromGCS      = "error deleting object from GCS bucket"
	ErrorReleasingLoanLock    = "failed to release loan lock"
	ErrorPublishingLoanEvent  = "failed to publish loan event"
	ErrorMarkingEventSent     = "failed to mark loan event as published"
	EventLeftPending          = "worker pool is full, loan event left pending for retry"
	ErrorSendingNotification  = "failed to publish user notification"
	TransactionAborted        = "mongo transaction aborted"
)
