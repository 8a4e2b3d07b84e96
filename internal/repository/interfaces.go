package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/perchfin/lending-engine/internal/domain"
)

// AccountRepository defines the interface for account data operations
type AccountRepository interface {
	// Create creates a new account
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// GetByUsername retrieves an account by username
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)

	// List retrieves all accounts
	List(ctx context.Context) ([]*domain.Account, error)

	// BankAccountMap maps external bank account numbers to account ids
	BankAccountMap(ctx context.Context) (map[string]uuid.UUID, error)
}

// LedgerRepository defines the interface for loan, movement and decision data
// operations. Append methods match the ledger storage port; records are
// append-only.
type LedgerRepository interface {
	// LoadState loads all loans, movements and decisions for an account
	LoadState(ctx context.Context, accountID uuid.UUID) ([]domain.Loan, []domain.CashMovement, []domain.Decision, error)

	// AppendMovement stores a new cash movement; the reference column is
	// unique across all accounts
	AppendMovement(ctx context.Context, movement *domain.CashMovement) error

	// AppendLoan stores a new loan
	AppendLoan(ctx context.Context, loan *domain.Loan) error

	// AppendDecision stores a new decision
	AppendDecision(ctx context.Context, decision *domain.Decision) error

	// MovementReferences returns the set of all stored movement references,
	// used to de-duplicate the bank statement feed
	MovementReferences(ctx context.Context) (map[string]struct{}, error)
}
