package lending

import (
	"context"
	"slices"
	"sync"
	"time"

	"easyloan/internal/pkg/consts"
	"easyloan/internal/pkg/log_messages"
	"easyloan/internal/pkg/logger"
	custom "easyloan/internal/pkg/models"
	"easyloan/internal/pkg/store/models"
	"easyloan/internal/pkg/utils"
	"easyloan/internal/service/events"
	"easyloan/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type LoanService struct {
	loans       interfaces.LoanRepositoryInterface
	repayments  interfaces.RepaymentRepositoryInterface
	users       interfaces.UserRepositoryInterface
	settings    interfaces.SettingsProvider
	tx          interfaces.TxRunnerInterface
	outbox      interfaces.EventOutboxInterface
	lockoutDays int
	now         func() time.Time
}

func NewLoanService(
	loans interfaces.LoanRepositoryInterface,
	repayments interfaces.RepaymentRepositoryInterface,
	users interfaces.UserRepositoryInterface,
	settings interfaces.SettingsProvider,
	tx interfaces.TxRunnerInterface,
	outbox interfaces.EventOutboxInterface,
	lockoutDays int,
) *LoanService {
	return &LoanService{
		loans:       loans,
		repayments:  repayments,
		users:       users,
		settings:    settings,
		tx:          tx,
		outbox:      outbox,
		lockoutDays: lockoutDays,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *LoanService) CreateOffer(ctx context.Context, caller custom.Caller, req custom.CreateOfferRequest) (*models.Loan, error) {
	if !caller.IsAdmin() {
		return nil, custom.NewForbiddenError(log_messages.AdminOnly)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	monthly, total, err := Amortize(req.Amount, *req.InterestRate, req.TermMonths)
	if err != nil {
		return nil, err
	}

	now := s.now()
	loan := &models.Loan{
		CreatedBy:        caller.UserID,
		Amount:           req.Amount,
		InterestRate:     *req.InterestRate,
		TermMonths:       req.TermMonths,
		LoanType:         req.LoanType,
		MonthlyPayment:   monthly,
		TotalRepayable:   total,
		RepaymentBalance: total,
		Status:           consts.LoanStatusPending,
		IsOffer:          true,
		Documents:        req.Documents,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = events.Commit(ctx, s.tx, s.outbox, func(txCtx context.Context) ([]models.LoanEvent, error) {
		loan.ID = primitive.NilObjectID
		if err := s.loans.Insert(txCtx, loan); err != nil {
			return nil, err
		}
		return []models.LoanEvent{events.ForLoan(consts.EventLoanOfferCreated, loan, map[string]any{
			"loanType": loan.LoanType,
			"amount":   loan.Amount,
		})}, nil
	})
	if err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "loan offer created", zap.String("loan_id", loan.ID.Hex()), zap.String("loan_type", loan.LoanType))
	return loan, nil
}

// Apply files a loan application for caller. Checks run in a fixed order and
// the first failure is returned.
func (s *LoanService) Apply(ctx context.Context, caller custom.Caller, req custom.ApplyLoanRequest) (*models.Loan, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	policy, err := s.settings.Effective(ctx)
	if err != nil {
		return nil, err
	}
	if req.Amount < policy.MinLoanAmount || req.Amount > policy.MaxLoanAmount {
		return nil, custom.NewValidationError(log_messages.AmountOutOfRange,
			utils.FormatMoney(policy.MinLoanAmount), utils.FormatMoney(policy.MaxLoanAmount))
	}
	if len(policy.LoanTermOptions) > 0 && !slices.Contains(policy.LoanTermOptions, req.Duration) {
		return nil, custom.NewValidationError(log_messages.TermNotOffered, req.Duration)
	}

	now := s.now()
	defaulted, err := s.loans.HasDefaultSince(ctx, caller.UserID, now.AddDate(0, 0, -s.lockoutDays))
	if err != nil {
		return nil, err
	}
	if defaulted {
		logger.CtxWarn(ctx, "loan application blocked by default lockout", zap.String("user_id", caller.UserID.Hex()))
		return nil, custom.NewForbiddenError(log_messages.DefaultLockout)
	}

	monthly, total, err := Amortize(req.Amount, *req.InterestRate, req.Duration)
	if err != nil {
		return nil, err
	}

	status, err := Transition("", EventApply)
	if err != nil {
		return nil, err
	}
	user := caller.UserID
	loan := &models.Loan{
		LoanID:           utils.NewReference(consts.LoanReferencePrefix),
		User:             &user,
		Amount:           req.Amount,
		InterestRate:     *req.InterestRate,
		TermMonths:       req.Duration,
		LoanType:         req.LoanType,
		Reason:           req.Reason,
		MonthlyPayment:   monthly,
		TotalRepayable:   total,
		RepaymentBalance: total,
		Status:           status,
		BankName:         req.BankName,
		AccountName:      req.AccountName,
		AccountNumber:    req.AccountNumber,
		BVN:              req.BVN,
		Phone:            req.Phone,
		Email:            req.Email,
		Documents:        req.Documents,
		ApplicationDate:  &now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = events.Commit(ctx, s.tx, s.outbox, func(txCtx context.Context) ([]models.LoanEvent, error) {
		loan.ID = primitive.NilObjectID
		if err := s.loans.Insert(txCtx, loan); err != nil {
			return nil, err
		}
		return []models.LoanEvent{events.ForLoan(consts.EventLoanApplied, loan, map[string]any{
			"amount":         loan.Amount,
			"termMonths":     loan.TermMonths,
			"totalRepayable": loan.TotalRepayable,
		})}, nil
	})
	if err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "loan application submitted", zap.String("loan_id", loan.ID.Hex()), zap.String("reference_id", loan.LoanID))
	return loan, nil
}

// GetLoan returns a loan visible to caller. Offers are visible to everyone.
func (s *LoanService) GetLoan(ctx context.Context, caller custom.Caller, id string) (*custom.LoanView, error) {
	loan, err := s.loadVisible(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	views, err := s.populate(ctx, []models.Loan{*loan})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *LoanService) ListLoans(ctx context.Context, caller custom.Caller, query custom.ListLoansQuery) (*custom.LoanPage, error) {
	if !caller.IsAdmin() {
		return nil, custom.NewForbiddenError(log_messages.AdminOnly)
	}
	if err := utils.ValidateStruct(query); err != nil {
		return nil, err
	}
	return s.page(ctx, models.LoanFilter{Status: consts.LoanStatus(query.Status)}, query.Pagination)
}

func (s *LoanService) ListOffers(ctx context.Context, query custom.ListOffersQuery) (*custom.LoanPage, error) {
	if err := utils.ValidateStruct(query); err != nil {
		return nil, err
	}
	isOffer := true
	return s.page(ctx, models.LoanFilter{IsOffer: &isOffer, LoanType: query.LoanType}, query.Pagination)
}

func (s *LoanService) page(ctx context.Context, filter models.LoanFilter, p custom.Pagination) (*custom.LoanPage, error) {
	p = p.Normalize()
	loans, total, err := s.loans.List(ctx, filter, models.Page{Skip: p.Skip(), Limit: int64(p.Limit)})
	if err != nil {
		return nil, err
	}
	views, err := s.populate(ctx, loans)
	if err != nil {
		return nil, err
	}
	return &custom.LoanPage{Success: true, Data: views, Meta: custom.NewPaginationMeta(total, p)}, nil
}

// UpdateLoan patches the loan terms. Status is never patched here.
func (s *LoanService) UpdateLoan(ctx context.Context, caller custom.Caller, id string, req custom.UpdateLoanRequest) (*models.Loan, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.Amount == nil && req.InterestRate == nil && req.TermMonths == nil &&
		req.LoanType == nil && req.Reason == nil && req.Documents == nil {
		return nil, custom.NewValidationError(log_messages.NoFieldsToUpdate)
	}

	loan, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	termsChanged := (req.Amount != nil && *req.Amount != loan.Amount) ||
		(req.InterestRate != nil && *req.InterestRate != loan.InterestRate) ||
		(req.TermMonths != nil && *req.TermMonths != loan.TermMonths)
	// the balance is tied to the disbursed principal once repayment starts
	if termsChanged && inRepayment(loan.Status) {
		return nil, custom.NewConflictError(log_messages.LoanTermsLocked, loan.Status)
	}

	if req.Amount != nil {
		loan.Amount = *req.Amount
	}
	if req.InterestRate != nil {
		loan.InterestRate = *req.InterestRate
	}
	if req.TermMonths != nil {
		loan.TermMonths = *req.TermMonths
	}
	if req.LoanType != nil {
		loan.LoanType = *req.LoanType
	}
	if req.Reason != nil {
		loan.Reason = *req.Reason
	}
	if req.Documents != nil {
		loan.Documents = *req.Documents
	}

	if termsChanged {
		monthly, total, err := Amortize(loan.Amount, loan.InterestRate, loan.TermMonths)
		if err != nil {
			return nil, err
		}
		loan.MonthlyPayment = monthly
		loan.TotalRepayable = total

		totals, err := s.repayments.TotalsByLoan(ctx, []primitive.ObjectID{loan.ID})
		if err != nil {
			return nil, err
		}
		if _, paid := totals[loan.ID]; !paid {
			loan.RepaymentBalance = total
		}
	}

	loan.UpdatedAt = s.now()
	if err := s.loans.Update(ctx, loan); err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "loan updated", zap.String("loan_id", loan.ID.Hex()), zap.Bool("terms_changed", termsChanged))
	return loan, nil
}

// UpdateStatus moves a loan to target through the state machine.
func (s *LoanService) UpdateStatus(ctx context.Context, caller custom.Caller, id string, req custom.UpdateLoanStatusRequest) (*models.Loan, error) {
	if !caller.IsAdmin() {
		return nil, custom.NewForbiddenError(log_messages.AdminOnly)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	loanID, err := utils.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, loanID, func(loan *models.Loan) (Event, error) {
		return EventForStatus(loan.Status, req.Status)
	})
}

func (s *LoanService) RejectLoan(ctx context.Context, caller custom.Caller, id string) (*models.Loan, error) {
	if !caller.IsAdmin() {
		return nil, custom.NewForbiddenError(log_messages.AdminOnly)
	}
	loanID, err := utils.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, loanID, func(*models.Loan) (Event, error) {
		return EventReject, nil
	})
}

func (s *LoanService) transition(ctx context.Context, loanID primitive.ObjectID, pick func(*models.Loan) (Event, error)) (*models.Loan, error) {
	var updated *models.Loan
	err := events.Commit(ctx, s.tx, s.outbox, func(txCtx context.Context) ([]models.LoanEvent, error) {
		loan, err := s.loans.GetByID(txCtx, loanID)
		if err != nil {
			return nil, err
		}
		event, err := pick(loan)
		if err != nil {
			return nil, err
		}
		from := loan.Status
		now := s.now()
		if err := ApplyEvent(loan, event, now); err != nil {
			return nil, err
		}
		loan.UpdatedAt = now
		if err := s.loans.Update(txCtx, loan); err != nil {
			return nil, err
		}
		updated = loan

		recorded := []models.LoanEvent{events.ForLoan(consts.EventLoanStatusChanged, loan, map[string]any{
			"from": string(from),
			"to":   string(loan.Status),
		})}
		if loan.Status == consts.LoanStatusCompleted {
			recorded = append(recorded, events.ForLoan(consts.EventLoanCompleted, loan, nil))
		}
		return recorded, nil
	})
	if err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "loan status changed", zap.String("loan_id", loanID.Hex()), zap.String("status", string(updated.Status)))
	return updated, nil
}

func (s *LoanService) DeleteLoan(ctx context.Context, caller custom.Caller, id string) error {
	if !caller.IsAdmin() {
		return custom.NewForbiddenError(log_messages.AdminOnly)
	}
	loanID, err := utils.ParseObjectID(id)
	if err != nil {
		return err
	}
	if err := s.loans.Delete(ctx, loanID); err != nil {
		return err
	}
	logger.CtxInfo(ctx, "loan deleted", zap.String("loan_id", loanID.Hex()))
	return nil
}

// AdminDashboard aggregates every application in the system. The three
// queries are independent and run concurrently.
func (s *LoanService) AdminDashboard(ctx context.Context, caller custom.Caller) (*custom.AdminDashboard, error) {
	if !caller.IsAdmin() {
		return nil, custom.NewForbiddenError(log_messages.AdminOnly)
	}
	isOffer := false
	filter := models.LoanFilter{IsOffer: &isOffer}

	var (
		wg       sync.WaitGroup
		byStatus map[consts.LoanStatus]int64
		byType   map[string]int64
		recent   []models.Loan
		errs     [3]error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		byStatus, errs[0] = s.loans.CountByStatus(ctx, filter)
	}()
	go func() {
		defer wg.Done()
		byType, errs[1] = s.loans.CountByType(ctx, filter)
	}()
	go func() {
		defer wg.Done()
		recent, errs[2] = s.loans.Recent(ctx, filter, consts.AdminRecentLoanCount)
	}()
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	recentViews, err := s.populate(ctx, recent)
	if err != nil {
		return nil, err
	}

	distribution := make(map[string]int64, len(consts.LoanStatuses)+1)
	var total int64
	for _, status := range consts.LoanStatuses {
		distribution[string(status)] = byStatus[status]
		total += byStatus[status]
	}
	distribution["All"] = total

	return &custom.AdminDashboard{
		Statistics: custom.AdminStatistics{
			TotalLoans:     total,
			PendingLoans:   byStatus[consts.LoanStatusPending],
			ApprovedLoans:  byStatus[consts.LoanStatusApproved],
			ActiveLoans:    byStatus[consts.LoanStatusActive],
			CompletedLoans: byStatus[consts.LoanStatusCompleted],
			DefaultedLoans: byStatus[consts.LoanStatusDefaulted],
			RejectedLoans:  byStatus[consts.LoanStatusRejected],
		},
		Charts: custom.DashboardCharts{
			LoanDistribution: distribution,
			LoanTypeLevels:   zeroFilledTypes(byType),
		},
		RecentLoans: recentViews,
	}, nil
}

func (s *LoanService) UserDashboard(ctx context.Context, caller custom.Caller) (*custom.UserDashboard, error) {
	isOffer := false
	user := caller.UserID
	filter := models.LoanFilter{User: &user, IsOffer: &isOffer}

	byStatus, err := s.loans.CountByStatus(ctx, filter)
	if err != nil {
		return nil, err
	}
	byType, err := s.loans.CountByType(ctx, filter)
	if err != nil {
		return nil, err
	}
	recent, err := s.loans.Recent(ctx, filter, consts.UserRecentLoanCount)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}
	if recent == nil {
		recent = []models.Loan{}
	}
	return &custom.UserDashboard{
		Statistics: custom.UserStatistics{
			TotalLoans:     total,
			ActiveLoans:    byStatus[consts.LoanStatusActive],
			CompletedLoans: byStatus[consts.LoanStatusCompleted],
			DefaultedLoans: byStatus[consts.LoanStatusDefaulted],
		},
		LoanTypes:   zeroFilledTypes(byType),
		RecentLoans: recent,
	}, nil
}

func (s *LoanService) loadVisible(ctx context.Context, caller custom.Caller, id string) (*models.Loan, error) {
	loanID, err := utils.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.IsOffer || caller.IsAdmin() || loan.OwnedBy(caller.UserID) {
		return loan, nil
	}
	return nil, custom.NewForbiddenError(log_messages.NotLoanOwner)
}

func (s *LoanService) loadOwned(ctx context.Context, caller custom.Caller, id string) (*models.Loan, error) {
	loanID, err := utils.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if caller.IsAdmin() || loan.OwnedBy(caller.UserID) {
		return loan, nil
	}
	return nil, custom.NewForbiddenError(log_messages.NotLoanOwner)
}

// populate attaches applicant summaries. Offers and unknown users stay unpopulated.
func (s *LoanService) populate(ctx context.Context, loans []models.Loan) ([]custom.LoanView, error) {
	views := make([]custom.LoanView, len(loans))
	var userIDs []primitive.ObjectID
	for i, loan := range loans {
		views[i].Loan = loan
		if loan.User != nil {
			userIDs = append(userIDs, *loan.User)
		}
	}
	if len(userIDs) == 0 {
		return views, nil
	}

	users, err := s.users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	for i := range views {
		if views[i].Loan.User == nil {
			continue
		}
		if u, ok := users[*views[i].Loan.User]; ok {
			views[i].User = &custom.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		}
	}
	return views, nil
}

func inRepayment(status consts.LoanStatus) bool {
	return status == consts.LoanStatusActive || status == consts.LoanStatusCompleted || status == consts.LoanStatusDefaulted
}

func zeroFilledTypes(counts map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(consts.LoanTypes))
	for _, loanType := range consts.LoanTypes {
		out[loanType] = counts[loanType]
	}
	return out
}
