package ledger

import (
	"context"
	"math"
	"time"

	"easyloan/internal/pkg/config"
	"easyloan/internal/pkg/consts"
	"easyloan/internal/pkg/log_messages"
	"easyloan/internal/pkg/logger"
	custom "easyloan/internal/pkg/models"
	"easyloan/internal/pkg/store/models"
	"easyloan/internal/pkg/utils"
	"easyloan/internal/service/events"
	"easyloan/internal/service/interfaces"
	"easyloan/internal/service/lending"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// LedgerService records repayments against active loans and keeps each
// loan's outstanding balance in step with its live repayments.
type LedgerService struct {
	loans      interfaces.LoanRepositoryInterface
	repayments interfaces.RepaymentRepositoryInterface
	users      interfaces.UserRepositoryInterface
	tx         interfaces.TxRunnerInterface
	outbox     interfaces.EventOutboxInterface
	lock       interfaces.LoanLockInterface
	tolerance  float64
	lockTTL    time.Duration
	now        func() time.Time
}

func NewLedgerService(
	loans interfaces.LoanRepositoryInterface,
	repayments interfaces.RepaymentRepositoryInterface,
	users interfaces.UserRepositoryInterface,
	tx interfaces.TxRunnerInterface,
	outbox interfaces.EventOutboxInterface,
	lock interfaces.LoanLockInterface,
	cfg config.LendingConfig,
) *LedgerService {
	return &LedgerService{
		loans:      loans,
		repayments: repayments,
		users:      users,
		tx:         tx,
		outbox:     outbox,
		lock:       lock,
		tolerance:  cfg.OverpaymentTolerance,
		lockTTL:    time.Duration(cfg.LockTTLSeconds) * time.Second,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateRepayment records a repayment by the loan's owner. Preconditions are
// checked in order and the first failure is returned. A payment up to the
// tolerance above the balance is accepted and recorded as the balance.
func (s *LedgerService) CreateRepayment(ctx context.Context, caller custom.Caller, req custom.CreateRepaymentRequest) (*models.Repayment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	amount, err := wholeAmount(req.AmountPaid)
	if err != nil {
		return nil, err
	}
	loanID, err := utils.ParseObjectID(req.LoanID)
	if err != nil {
		return nil, err
	}
	dueDate, err := utils.ParseDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	release, err := s.lock.Acquire(ctx, loanID.Hex(), s.lockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	var repayment *models.Repayment
	err = events.Commit(ctx, s.tx, s.outbox, func(txCtx context.Context) ([]models.LoanEvent, error) {
		loan, err := s.loans.GetByID(txCtx, loanID)
		if err != nil {
			return nil, err
		}
		if !loan.OwnedBy(caller.UserID) {
			return nil, custom.NewForbiddenError(log_messages.NotLoanOwner)
		}
		if loan.Status != consts.LoanStatusActive {
			return nil, custom.NewConflictError(log_messages.LoanNotActive, loan.Status)
		}
		balance, err := checkedBalance(txCtx, loan)
		if err != nil {
			return nil, err
		}
		if amount > balance+s.tolerance {
			return nil, custom.NewConflictError(log_messages.Overpayment, utils.FormatMoney(amount), utils.FormatMoney(balance))
		}
		recorded := math.Min(amount, balance)

		now := s.now()
		status := consts.RepaymentStatusPaid
		if now.After(dueDate) {
			status = consts.RepaymentStatusLate
		}
		repayment = &models.Repayment{
			Loan:          loan.ID,
			User:          caller.UserID,
			AmountPaid:    recorded,
			PaymentMethod: req.PaymentMethod,
			DueDate:       dueDate,
			PaymentDate:   now,
			ReferenceID:   utils.NewReference(consts.RepaymentReferencePrefix),
			Evidence:      req.Evidence,
			Status:        status,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.repayments.Insert(txCtx, repayment); err != nil {
			return nil, err
		}

		loan.RepaymentBalance = math.Max(0, utils.RoundMoney(balance-recorded))
		loan.LastRepaymentDate = &now
		loan.UpdatedAt = now
		recordedEvents := []models.LoanEvent{events.ForLoan(consts.EventRepaymentRecorded, loan, map[string]any{
			"repaymentId": repayment.ID.Hex(),
			"amountPaid":  recorded,
			"balance":     loan.RepaymentBalance,
		})}
		if loan.RepaymentBalance <= 0 {
			if err := lending.ApplyEvent(loan, lending.EventComplete, now); err != nil {
				return nil, err
			}
			recordedEvents = append(recordedEvents, events.ForLoan(consts.EventLoanCompleted, loan, nil))
		}
		if err := s.loans.Update(txCtx, loan); err != nil {
			return nil, err
		}
		return recordedEvents, nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "repayment recorded",
		zap.String("repayment_id", repayment.ID.Hex()),
		zap.String("loan_id", loanID.Hex()),
		zap.Float64("amount_paid", repayment.AmountPaid))
	return repayment, nil
}

func (s *LedgerService) GetAllRepayments(ctx context.Context, caller custom.Caller) ([]custom.RepaymentView, error) {
	if !caller.IsAdmin() {
		return nil, custom.NewForbiddenError(log_messages.AdminOnly)
	}
	return s.list(ctx, models.RepaymentFilter{})
}

func (s *LedgerService) GetRepaymentsByUser(ctx context.Context, caller custom.Caller, userID string) ([]custom.RepaymentView, error) {
	uid, err := utils.ParseObjectID(userID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && caller.UserID != uid {
		return nil, custom.NewForbiddenError(log_messages.NotRepaymentOwner)
	}
	return s.list(ctx, models.RepaymentFilter{User: &uid})
}

func (s *LedgerService) GetRepaymentsByLoan(ctx context.Context, caller custom.Caller, loanID string) ([]custom.RepaymentView, error) {
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
	return s.list(ctx, models.RepaymentFilter{Loan: &lid})
}

func (s *LedgerService) GetRepaymentByID(ctx context.Context, caller custom.Caller, id string) (*custom.RepaymentView, error) {
	rid, err := utils.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	repayment, err := s.repayments.GetByID(ctx, rid)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && repayment.User != caller.UserID {
		return nil, custom.NewForbiddenError(log_messages.NotRepaymentOwner)
	}
	views, err := s.views(ctx, []models.Repayment{*repayment})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// UpdateRepayment patches a repayment. A changed amount moves the loan balance
// by the difference, clamped so the balance never drops below zero.
func (s *LedgerService) UpdateRepayment(ctx context.Context, caller custom.Caller, id string, req custom.UpdateRepaymentRequest) (*models.Repayment, error) {
	if !caller.IsAdmin() {
		return nil, custom.NewForbiddenError(log_messages.AdminOnly)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return nil, custom.NewValidationError(log_messages.NoFieldsToUpdate)
	}
	rid, err := utils.ParseObjectID(id)
	if err != nil {
		return nil, err
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, err := utils.ParseDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		dueDate = &parsed
	}
	var newAmount *float64
	if req.AmountPaid != nil {
		amount, err := wholeAmount(*req.AmountPaid)
		if err != nil {
			return nil, err
		}
		newAmount = &amount
	}

	current, err := s.repayments.GetByID(ctx, rid)
	if err != nil {
		return nil, err
	}
	amountChanged := newAmount != nil && *newAmount != current.AmountPaid
	if amountChanged {
		release, err := s.lock.Acquire(ctx, current.Loan.Hex(), s.lockTTL)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	var updated *models.Repayment
	err = events.Commit(ctx, s.tx, s.outbox, func(txCtx context.Context) ([]models.LoanEvent, error) {
		repayment, err := s.repayments.GetByID(txCtx, rid)
		if err != nil {
			return nil, err
		}
		if req.Status != nil {
			repayment.Status = *req.Status
		}
		if req.PaymentMethod != nil {
			repayment.PaymentMethod = *req.PaymentMethod
		}
		if dueDate != nil {
			repayment.DueDate = *dueDate
		}
		if req.Evidence != nil {
			repayment.Evidence = *req.Evidence
		}

		loan, err := s.loans.GetByID(txCtx, repayment.Loan)
		if err != nil {
			return nil, err
		}
		now := s.now()
		var recorded []models.LoanEvent

		if newAmount != nil && *newAmount != repayment.AmountPaid {
			completed, err := s.adjustBalance(txCtx, loan, repayment, *newAmount, now)
			if err != nil {
				return nil, err
			}
			if err := s.loans.Update(txCtx, loan); err != nil {
				return nil, err
			}
			if completed {
				recorded = append(recorded, events.ForLoan(consts.EventLoanCompleted, loan, nil))
			}
		}

		if err := s.repayments.Update(txCtx, repayment); err != nil {
			return nil, err
		}
		updated = repayment
		recorded = append([]models.LoanEvent{events.ForLoan(consts.EventRepaymentUpdated, loan, map[string]any{
			"repaymentId": repayment.ID.Hex(),
			"amountPaid":  repayment.AmountPaid,
			"balance":     loan.RepaymentBalance,
		})}, recorded...)
		return recorded, nil
	})
	if err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "repayment updated", zap.String("repayment_id", rid.Hex()), zap.Bool("amount_changed", amountChanged))
	return updated, nil
}

// adjustBalance applies the change from repayment.AmountPaid to newAmount to
// the loan and moves the loan between active and completed as needed. It
// reports whether the loan was completed.
func (s *LedgerService) adjustBalance(ctx context.Context, loan *models.Loan, repayment *models.Repayment, newAmount float64, now time.Time) (bool, error) {
	balance, err := checkedBalance(ctx, loan)
	if err != nil {
		return false, err
	}
	delta := newAmount - repayment.AmountPaid
	if balance-delta < -s.tolerance {
		return false, custom.NewConflictError(log_messages.BalanceAdjustmentTooLarge)
	}
	if delta > balance {
		delta = balance
		newAmount = repayment.AmountPaid + balance
	}

	repayment.AmountPaid = newAmount
	loan.RepaymentBalance = math.Max(0, utils.RoundMoney(balance-delta))
	loan.UpdatedAt = now

	switch {
	case loan.Status == consts.LoanStatusActive && loan.RepaymentBalance <= 0:
		return true, lending.ApplyEvent(loan, lending.EventComplete, now)
	case loan.Status == consts.LoanStatusCompleted && loan.RepaymentBalance > 0:
		return false, lending.ApplyEvent(loan, lending.EventReopen, now)
	}
	return false, nil
}

// DeleteRepayment soft-deletes a repayment and restores its amount to the
// loan balance, reopening a loan it had completed.
func (s *LedgerService) DeleteRepayment(ctx context.Context, caller custom.Caller, id string) error {
	if !caller.IsAdmin() {
		return custom.NewForbiddenError(log_messages.AdminOnly)
	}
	rid, err := utils.ParseObjectID(id)
	if err != nil {
		return err
	}

	current, err := s.repayments.GetByID(ctx, rid)
	if err != nil {
		if !utils.IsKind(err, custom.KindNotFound) {
			return err
		}
		deleted, checkErr := s.repayments.IsDeleted(ctx, rid)
		if checkErr != nil {
			return checkErr
		}
		if deleted {
			return custom.NewConflictError(log_messages.RepaymentAlreadyDeleted)
		}
		return err
	}

	release, err := s.lock.Acquire(ctx, current.Loan.Hex(), s.lockTTL)
	if err != nil {
		return err
	}
	defer release()

	err = events.Commit(ctx, s.tx, s.outbox, func(txCtx context.Context) ([]models.LoanEvent, error) {
		repayment, err := s.repayments.GetByID(txCtx, rid)
		if err != nil {
			if utils.IsKind(err, custom.KindNotFound) {
				return nil, custom.NewConflictError(log_messages.RepaymentAlreadyDeleted)
			}
			return nil, err
		}
		now := s.now()

		loan, err := s.loans.GetByID(txCtx, repayment.Loan)
		if err != nil {
			if !utils.IsKind(err, custom.KindNotFound) {
				return nil, err
			}
			// the loan is gone; only the repayment is left to retire
			logger.CtxWarn(txCtx, "deleting repayment of a missing loan", zap.String("repayment_id", rid.Hex()))
			return nil, s.repayments.SoftDelete(txCtx, repayment, now)
		}

		balance, err := checkedBalance(txCtx, loan)
		if err != nil {
			return nil, err
		}
		loan.RepaymentBalance = utils.RoundMoney(balance + repayment.AmountPaid)
		loan.UpdatedAt = now
		if loan.Status == consts.LoanStatusCompleted && loan.RepaymentBalance > 0 {
			if err := lending.ApplyEvent(loan, lending.EventReopen, now); err != nil {
				return nil, err
			}
		}

		if err := s.repayments.SoftDelete(txCtx, repayment, now); err != nil {
			return nil, err
		}
		if err := s.loans.Update(txCtx, loan); err != nil {
			return nil, err
		}
		return []models.LoanEvent{events.ForLoan(consts.EventRepaymentReversed, loan, map[string]any{
			"repaymentId": repayment.ID.Hex(),
			"amountPaid":  repayment.AmountPaid,
			"balance":     loan.RepaymentBalance,
		})}, nil
	})
	if err != nil {
		return err
	}
	logger.CtxInfo(ctx, "repayment deleted", zap.String("repayment_id", rid.Hex()), zap.String("loan_id", current.Loan.Hex()))
	return nil
}

func (s *LedgerService) list(ctx context.Context, filter models.RepaymentFilter) ([]custom.RepaymentView, error) {
	repayments, err := s.repayments.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, repayments)
}

// views populates loan and user summaries and the per-loan paid total,
// recomputed from live repayments on every read.
func (s *LedgerService) views(ctx context.Context, repayments []models.Repayment) ([]custom.RepaymentView, error) {
	views := make([]custom.RepaymentView, 0, len(repayments))
	if len(repayments) == 0 {
		return views, nil
	}

	loanIDs := make([]primitive.ObjectID, 0, len(repayments))
	userIDs := make([]primitive.ObjectID, 0, len(repayments))
	seenLoans := map[primitive.ObjectID]bool{}
	seenUsers := map[primitive.ObjectID]bool{}
	for _, r := range repayments {
		if !seenLoans[r.Loan] {
			seenLoans[r.Loan] = true
			loanIDs = append(loanIDs, r.Loan)
		}
		if !seenUsers[r.User] {
			seenUsers[r.User] = true
			userIDs = append(userIDs, r.User)
		}
	}

	totals, err := s.repayments.TotalsByLoan(ctx, loanIDs)
	if err != nil {
		return nil, err
	}
	loans, err := s.loans.GetByIDs(ctx, loanIDs)
	if err != nil {
		return nil, err
	}
	users, err := s.users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	for _, r := range repayments {
		view := custom.RepaymentView{Repayment: r, TotalPaid: totals[r.Loan]}
		if loan, ok := loans[r.Loan]; ok {
			view.Loan = &custom.LoanSummary{
				ID:               loan.ID,
				LoanID:           loan.LoanID,
				Amount:           loan.Amount,
				Status:           loan.Status,
				RepaymentBalance: loan.RepaymentBalance,
			}
			if loan.Status == consts.LoanStatusActive {
				view.RepaymentBalance = loan.RepaymentBalance
			}
		}
		if u, ok := users[r.User]; ok {
			view.User = &custom.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		views = append(views, view)
	}
	return views, nil
}

// wholeAmount rounds a payment to whole currency units.
func wholeAmount(v float64) (float64, error) {
	if !utils.IsFiniteAmount(v) {
		return 0, custom.NewValidationError(log_messages.InvalidAmount)
	}
	amount := utils.RoundWhole(v)
	if amount <= 0 {
		return 0, custom.NewValidationError(log_messages.InvalidAmount)
	}
	return amount, nil
}

func checkedBalance(ctx context.Context, loan *models.Loan) (float64, error) {
	balance := loan.RepaymentBalance
	if !utils.IsFiniteAmount(balance) || balance < 0 {
		logger.CtxError(ctx, log_messages.InvalidLoanBalance, nil,
			zap.String("loan_id", loan.ID.Hex()),
			zap.Float64("repayment_balance", balance))
		return 0, custom.NewIntegrityError(log_messages.InvalidLoanBalance)
	}
	return balance, nil
}
