package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/perchfin/lending-engine/internal/config"
	"github.com/perchfin/lending-engine/internal/domain"
	"github.com/perchfin/lending-engine/internal/ledger"
	"github.com/perchfin/lending-engine/internal/repository"
	customError "github.com/perchfin/lending-engine/pkg/errors"
	"github.com/perchfin/lending-engine/pkg/utils"
)

const scheduleCacheTTL = time.Hour

// LedgerService orchestrates ledger operations: it loads account state from
// the repositories, runs the aggregate and caches derived schedules.
type LedgerService struct {
	accounts  repository.AccountRepository
	store     repository.LedgerRepository
	rail      ledger.PaymentRail
	evaluator ledger.Evaluator
	redis     *redis.Client
	config    *config.Config
	logger    *logrus.Logger
}

func NewLedgerService(
	accounts repository.AccountRepository,
	store repository.LedgerRepository,
	rail ledger.PaymentRail,
	evaluator ledger.Evaluator,
	redisClient *redis.Client,
	cfg *config.Config,
	logger *logrus.Logger,
) *LedgerService {
	return &LedgerService{
		accounts:  accounts,
		store:     store,
		rail:      rail,
		evaluator: evaluator,
		redis:     redisClient,
		config:    cfg,
		logger:    logger,
	}
}

func (s *LedgerService) loadLedger(ctx context.Context, accountID uuid.UUID) (*ledger.AccountLedger, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, customError.WrapAccountNotFound(accountID.String())
	}

	loans, movements, decisions, err := s.store.LoadState(ctx, accountID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return ledger.NewAccountLedger(*account, loans, movements, decisions, s.config.Limits(), s.logger), nil
}

// ProductInfo describes the standard credit product.
func (s *LedgerService) ProductInfo() map[string]interface{} {
	p := s.config.Product
	return map[string]interface{}{
		"standard": map[string]interface{}{
			"amount_min":            p.MinLoanAmount,
			"amount_max":            p.MaxLoanAmount,
			"amount_representative": p.RepresentativeAmount,
			"duration_days":         p.DefaultDurationDays,
			"interest_type":         "Compound",
			"interest_representative": p.RepresentativeRate,
			"fee_flat":              p.RepresentativeFeeFlat,
			"repayment_type":        "Equal Repayment",
			"repayment_frequency":   fmt.Sprintf("%dd", p.DefaultFrequencyDays),
		},
	}
}

// Decide evaluates the applicant data and records the resulting decision.
func (s *LedgerService) Decide(ctx context.Context, accountID uuid.UUID, applicant *domain.ApplicantData, at time.Time) (ledger.DecisionOutcome, error) {
	accountLedger, err := s.loadLedger(ctx, accountID)
	if err != nil {
		return ledger.DecisionOutcome{}, err
	}
	return accountLedger.EvaluateAndDecide(ctx, s.store, s.evaluator, applicant, at)
}

// FundingResult is a disbursed loan together with its repayment schedule.
type FundingResult struct {
	Loan     *domain.Loan       `json:"loan"`
	Schedule map[string]float64 `json:"schedule"`
}

// RequestFunding validates and executes a funding request, returning the new
// loan and its full forward schedule.
func (s *LedgerService) RequestFunding(ctx context.Context, accountID, approvalRef uuid.UUID, amount decimal.Decimal, at time.Time) (*FundingResult, error) {
	accountLedger, err := s.loadLedger(ctx, accountID)
	if err != nil {
		return nil, err
	}

	loan, err := accountLedger.RequestFunding(ctx, s.store, s.rail, approvalRef, amount, at)
	if err != nil {
		return nil, err
	}

	schedule, err := accountLedger.ScheduleForLoan(*loan)
	if err != nil {
		return nil, err
	}

	s.invalidateOverview(ctx, accountID, at)

	return &FundingResult{Loan: loan, Schedule: isoSchedule(schedule)}, nil
}

// Overview is the balance and forward schedule of an account as of a date.
type Overview struct {
	Balance  float64            `json:"balance"`
	Schedule map[string]float64 `json:"schedule"`
}

// GetOverview computes balance and forward schedule as of a date, serving
// from the Redis cache when possible.
func (s *LedgerService) GetOverview(ctx context.Context, accountID uuid.UUID, at time.Time) (*Overview, error) {
	cacheKey := overviewCacheKey(accountID, at)
	if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
		var overview Overview
		if err := json.Unmarshal([]byte(cached), &overview); err == nil {
			return &overview, nil
		}
	}

	accountLedger, err := s.loadLedger(ctx, accountID)
	if err != nil {
		return nil, err
	}

	schedule, err := accountLedger.ScheduleForDate(at)
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		Balance:  accountLedger.Balance(at),
		Schedule: isoSchedule(schedule),
	}

	if payload, err := json.Marshal(overview); err == nil {
		if err := s.redis.Set(ctx, cacheKey, payload, scheduleCacheTTL).Err(); err != nil {
			s.logger.WithError(customError.WrapCacheError(err)).Warn("caching overview")
		}
	}
	return overview, nil
}

// invalidateOverview drops the cached overview for the funding date only.
// Cached entries for earlier dates stay valid: an overview is keyed by its
// as-of date and a new movement never changes the balance or schedule as of a
// date before it. If overviews ever get cached for future as-of dates, this
// must widen to a per-account key scan.
func (s *LedgerService) invalidateOverview(ctx context.Context, accountID uuid.UUID, at time.Time) {
	if err := s.redis.Del(ctx, overviewCacheKey(accountID, at)).Err(); err != nil {
		s.logger.WithError(customError.WrapCacheError(err)).Warn("invalidating overview cache")
	}
}

func overviewCacheKey(accountID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("overview:%s:%s", accountID, utils.DateOf(at).Format("2006-01-02"))
}

func isoSchedule(schedule map[time.Time]float64) map[string]float64 {
	out := make(map[string]float64, len(schedule))
	for date, amount := range schedule {
		out[date.Format("2006-01-02")] = amount
	}
	return out
}
