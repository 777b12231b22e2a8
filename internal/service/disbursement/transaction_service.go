package disbursement

import (
	"context"
	"time"

	"easyloan/internal/pkg/consts"
	"easyloan/internal/pkg/log_messages"
	"easyloan/internal/pkg/logger"
	custom "easyloan/internal/pkg/models"
	"easyloan/internal/pkg/store/models"
	"easyloan/internal/pkg/utils"
	"easyloan/internal/service/events"
	"easyloan/internal/service/interfaces"
	"easyloan/internal/service/lending"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type TransactionService struct {
	transactions interfaces.TransactionRepositoryInterface
	loans        interfaces.LoanRepositoryInterface
	users        interfaces.UserRepositoryInterface
	tx           interfaces.TxRunnerInterface
	outbox       interfaces.EventOutboxInterface
	now          func() time.Time
}

func NewTransactionService(
	transactions interfaces.TransactionRepositoryInterface,
	loans interfaces.LoanRepositoryInterface,
	users interfaces.UserRepositoryInterface,
	tx interfaces.TxRunnerInterface,
	outbox interfaces.EventOutboxInterface,
) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		loans:        loans,
		users:        users,
		tx:           tx,
		outbox:       outbox,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateTransaction records money moving for a loan. A disbursement must
// match the loan amount to the cent and activates the loan in the same write.
func (s *TransactionService) CreateTransaction(ctx context.Context, caller custom.Caller, req custom.CreateTransactionRequest) (*models.Transaction, error) {
	if !caller.IsAdmin() {
		return nil, custom.NewForbiddenError(log_messages.AdminOnly)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if !utils.IsFiniteAmount(req.Amount) {
		return nil, custom.NewValidationError(log_messages.InvalidAmount)
	}
	userID, err := utils.ParseObjectID(req.UserID)
	if err != nil {
		return nil, err
	}
	loanID, err := utils.ParseObjectID(req.LoanID)
	if err != nil {
		return nil, err
	}

	var txn *models.Transaction
	err = events.Commit(ctx, s.tx, s.outbox, func(txCtx context.Context) ([]models.LoanEvent, error) {
		loan, err := s.loans.GetByID(txCtx, loanID)
		if err != nil {
			return nil, err
		}
		if loan.Status == consts.LoanStatusApproved || loan.Status == consts.LoanStatusActive {
			return nil, custom.NewConflictError(log_messages.LoanAlreadyDisbursed, loan.Status)
		}

		now := s.now()
		txn = &models.Transaction{
			User:            userID,
			Loan:            loanID,
			Amount:          req.Amount,
			Type:            req.Type,
			Method:          req.Method,
			Status:          consts.TransactionStatusPending,
			TransactionDate: now,
			ReferenceID:     utils.NewReference(consts.TransactionReferencePrefix),
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if req.Type != consts.TransactionTypeDisbursement {
			if err := s.transactions.Insert(txCtx, txn); err != nil {
				return nil, err
			}
			return []models.LoanEvent{events.ForLoan(consts.EventTransactionCreated, loan, transactionPayload(txn))}, nil
		}

		if !sameAmount(req.Amount, loan.Amount) {
			return nil, custom.NewValidationError(log_messages.DisbursementAmountMismatch, utils.FormatMoney(loan.Amount))
		}
		if err := lending.ApplyEvent(loan, lending.EventActivate, now); err != nil {
			return nil, err
		}
		loan.UpdatedAt = now
		txn.Status = consts.TransactionStatusCompleted

		if err := s.transactions.Insert(txCtx, txn); err != nil {
			return nil, err
		}
		if err := s.loans.Update(txCtx, loan); err != nil {
			return nil, err
		}
		return []models.LoanEvent{events.ForLoan(consts.EventLoanDisbursed, loan, transactionPayload(txn))}, nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "transaction recorded",
		zap.String("transaction_id", txn.ID.Hex()),
		zap.String("type", string(txn.Type)),
		zap.String("loan_id", loanID.Hex()))
	return txn, nil
}

func (s *TransactionService) GetAllTransactions(ctx context.Context, caller custom.Caller, p custom.Pagination) (*custom.TransactionPage, error) {
	if !caller.IsAdmin() {
		return nil, custom.NewForbiddenError(log_messages.AdminOnly)
	}
	p = p.Normalize()
	txns, total, err := s.transactions.List(ctx, models.TransactionFilter{}, models.Page{Skip: p.Skip(), Limit: int64(p.Limit)})
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, txns)
	if err != nil {
		return nil, err
	}
	return &custom.TransactionPage{Success: true, Data: views, Meta: custom.NewPaginationMeta(total, p)}, nil
}

func (s *TransactionService) GetTransactionByID(ctx context.Context, caller custom.Caller, id string) (*custom.TransactionView, error) {
	if !caller.IsAdmin() {
		return nil, custom.NewForbiddenError(log_messages.AdminOnly)
	}
	tid, err := utils.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	txn, err := s.transactions.GetByID(ctx, tid)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, []models.Transaction{*txn})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *TransactionService) GetTransactionsByUser(ctx context.Context, caller custom.Caller, userID string) ([]custom.TransactionView, error) {
	if !caller.IsAdmin() {
		return nil, custom.NewForbiddenError(log_messages.AdminOnly)
	}
	uid, err := utils.ParseObjectID(userID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, models.TransactionFilter{User: &uid})
}

func (s *TransactionService) GetTransactionsByLoan(ctx context.Context, caller custom.Caller, loanID string) ([]custom.TransactionView, error) {
	lid, err := utils.ParseObjectID(loanID)
	if err != nil {
		return nil, err
	}
	loan, err := s.loans.GetByID(ctx, lid)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !loan.OwnedBy(caller.UserID) {
		return nil, custom.NewForbiddenError(log_messages.NotLoanOwner)
	}
	return s.list(ctx, models.TransactionFilter{Loan: &lid})
}

// UpdateTransaction patches bookkeeping fields only. It never touches the loan.
func (s *TransactionService) UpdateTransaction(ctx context.Context, caller custom.Caller, id string, req custom.UpdateTransactionRequest) (*models.Transaction, error) {
	if !caller.IsAdmin() {
		return nil, custom.NewForbiddenError(log_messages.AdminOnly)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return nil, custom.NewValidationError(log_messages.NoFieldsToUpdate)
	}
	tid, err := utils.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	txn, err := s.transactions.GetByID(ctx, tid)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		if !utils.IsFiniteAmount(*req.Amount) {
			return nil, custom.NewValidationError(log_messages.InvalidAmount)
		}
		txn.Amount = *req.Amount
	}
	if req.Type != nil {
		txn.Type = *req.Type
	}
	if req.Status != nil {
		txn.Status = *req.Status
	}
	if req.Method != nil {
		txn.Method = *req.Method
	}
	txn.UpdatedAt = s.now()

	if err := s.transactions.Update(ctx, txn); err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "transaction updated", zap.String("transaction_id", tid.Hex()))
	return txn, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, caller custom.Caller, id string) error {
	if !caller.IsAdmin() {
		return custom.NewForbiddenError(log_messages.AdminOnly)
	}
	tid, err := utils.ParseObjectID(id)
	if err != nil {
		return err
	}
	if err := s.transactions.Delete(ctx, tid); err != nil {
		return err
	}
	logger.CtxInfo(ctx, "transaction deleted", zap.String("transaction_id", tid.Hex()))
	return nil
}

func (s *TransactionService) list(ctx context.Context, filter models.TransactionFilter) ([]custom.TransactionView, error) {
	txns, _, err := s.transactions.List(ctx, filter, models.Page{})
	if err != nil {
		return nil, err
	}
	return s.views(ctx, txns)
}

func (s *TransactionService) views(ctx context.Context, txns []models.Transaction) ([]custom.TransactionView, error) {
	views := make([]custom.TransactionView, 0, len(txns))
	if len(txns) == 0 {
		return views, nil
	}

	var loanIDs, userIDs []primitive.ObjectID
	seenLoans := map[primitive.ObjectID]bool{}
	seenUsers := map[primitive.ObjectID]bool{}
	for _, t := range txns {
		if !seenLoans[t.Loan] {
			seenLoans[t.Loan] = true
			loanIDs = append(loanIDs, t.Loan)
		}
		if !seenUsers[t.User] {
			seenUsers[t.User] = true
			userIDs = append(userIDs, t.User)
		}
	}

	loans, err := s.loans.GetByIDs(ctx, loanIDs)
	if err != nil {
		return nil, err
	}
	users, err := s.users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	for _, t := range txns {
		view := custom.TransactionView{Transaction: t}
		if u, ok := users[t.User]; ok {
			view.User = &custom.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		if l, ok := loans[t.Loan]; ok {
			view.Loan = &custom.LoanSummary{ID: l.ID, LoanID: l.LoanID, Amount: l.Amount, Status: l.Status, RepaymentBalance: l.RepaymentBalance}
		}
		views = append(views, view)
	}
	return views, nil
}

// sameAmount compares without rounding; a disbursement must match the principal exactly.
func sameAmount(a, b float64) bool {
	return decimal.NewFromFloat(a).Equal(decimal.NewFromFloat(b))
}

func transactionPayload(txn *models.Transaction) map[string]any {
	return map[string]any{
		"transactionId": txn.ID.Hex(),
		"referenceId":   txn.ReferenceID,
		"type":          string(txn.Type),
		"amount":        txn.Amount,
	}
}
