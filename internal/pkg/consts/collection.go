package consts

const (
	LoanCollection        = "loans"
	RepaymentCollection   = "repayments"
	TransactionCollection = "transactions"
	SettingsCollection    = "settings"
	UserCollection        = "users"
	LoanEventCollection   = "loanEvents"
)

// SettingsSingletonID keys the only settings document.
const SettingsSingletonID = "system"
