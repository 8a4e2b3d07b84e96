package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/perchfin/lending-engine/internal/domain"
)

type ledgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) LoadState(ctx context.Context, accountID uuid.UUID) ([]domain.Loan, []domain.CashMovement, []domain.Decision, error) {
	loansQuery := `
		SELECT id, account_id, start_at, opening_balance, duration_days, daily_rate,
		       repayment_frequency_days, level_repayment, created_at
		FROM loans
		WHERE account_id = $1
		ORDER BY start_at
	`
	movementsQuery := `
		SELECT id, account_id, occurred_at, amount, kind, reference
		FROM cash_movements
		WHERE account_id = $1
		ORDER BY occurred_at, id
	`
	decisionsQuery := `
		SELECT id, account_id, status, issued_at, amount, daily_rate, duration_days,
		       repayment_frequency_days, fee_rate, fee_amount
		FROM decisions
		WHERE account_id = $1
		ORDER BY issued_at
	`

	var loans []domain.Loan
	if err := r.db.SelectContext(ctx, &loans, loansQuery, accountID); err != nil {
		return nil, nil, nil, err
	}

	var movements []domain.CashMovement
	if err := r.db.SelectContext(ctx, &movements, movementsQuery, accountID); err != nil {
		return nil, nil, nil, err
	}

	var decisions []domain.Decision
	if err := r.db.SelectContext(ctx, &decisions, decisionsQuery, accountID); err != nil {
		return nil, nil, nil, err
	}

	return loans, movements, decisions, nil
}

func (r *ledgerRepository) AppendMovement(ctx context.Context, movement *domain.CashMovement) error {
	query := `
		INSERT INTO cash_movements (id, account_id, occurred_at, amount, kind, reference)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		movement.ID,
		movement.AccountID,
		movement.Timestamp,
		movement.Amount,
		movement.Kind,
		movement.Reference,
	)

	return err
}

func (r *ledgerRepository) AppendLoan(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, account_id, start_at, opening_balance, duration_days, daily_rate,
		                   repayment_frequency_days, level_repayment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.AccountID,
		loan.Start,
		loan.OpeningBalance,
		loan.DurationDays,
		loan.DailyRate,
		loan.RepaymentFrequencyDays,
		loan.LevelRepayment,
		loan.CreatedAt,
	)

	return err
}

func (r *ledgerRepository) AppendDecision(ctx context.Context, decision *domain.Decision) error {
	query := `
		INSERT INTO decisions (id, account_id, status, issued_at, amount, daily_rate, duration_days,
		                       repayment_frequency_days, fee_rate, fee_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		decision.ID,
		decision.AccountID,
		decision.Status,
		decision.IssuedAt,
		decision.Amount,
		decision.DailyRate,
		decision.DurationDays,
		decision.RepaymentFrequencyDays,
		decision.FeeRate,
		decision.FeeAmount,
	)

	return err
}

func (r *ledgerRepository) MovementReferences(ctx context.Context) (map[string]struct{}, error) {
	query := `SELECT reference FROM cash_movements`

	var references []string
	if err := r.db.SelectContext(ctx, &references, query); err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(references))
	for _, ref := range references {
		set[ref] = struct{}{}
	}
	return set, nil
}
