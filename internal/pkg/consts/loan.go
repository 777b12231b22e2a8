package consts

type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "pending"
	LoanStatusApproved  LoanStatus = "approved"
	LoanStatusRejected  LoanStatus = "rejected"
	LoanStatusActive    LoanStatus = "active"
	LoanStatusCompleted LoanStatus = "completed"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

var LoanStatuses = []LoanStatus{
	LoanStatusPending,
	LoanStatusApproved,
	LoanStatusRejected,
	LoanStatusActive,
	LoanStatusCompleted,
	LoanStatusDefaulted,
}

func (s LoanStatus) Valid() bool {
	for _, status := range LoanStatuses {
		if s == status {
			return true
		}
	}
	return false
}

const (
	LoanTypePersonal = "personal"
	LoanTypeBusiness = "business"
	LoanTypeStudent  = "student"
	LoanTypeMortgage = "mortgage"
	LoanTypeCar      = "car loan"
	LoanTypeQuickie  = "quickie loan"
)

var LoanTypes = []string{
	LoanTypePersonal,
	LoanTypeBusiness,
	LoanTypeStudent,
	LoanTypeMortgage,
	LoanTypeCar,
	LoanTypeQuickie,
}

const (
	LoanReferencePrefix        = "LOAN"
	RepaymentReferencePrefix   = "REP"
	TransactionReferencePrefix = "TXN"
)

const (
	DefaultPage          = 1
	DefaultPageLimit     = 10
	MaxPageLimit         = 100
	AdminRecentLoanCount = 10
	UserRecentLoanCount  = 5
)
