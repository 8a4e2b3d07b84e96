package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/perchfin/lending-engine/internal/domain"
)

type accountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, username, email, hashed_password, bank_account, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.HashedPassword,
		account.BankAccount,
		account.CreatedAt,
	)

	return err
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, username, email, hashed_password, bank_account, created_at
		FROM accounts
		WHERE id = $1
	`

	var account domain.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `
		SELECT id, username, email, hashed_password, bank_account, created_at
		FROM accounts
		WHERE username = $1
	`

	var account domain.Account
	if err := r.db.GetContext(ctx, &account, query, username); err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	query := `
		SELECT id, username, email, hashed_password, bank_account, created_at
		FROM accounts
		ORDER BY created_at
	`

	var accounts []*domain.Account
	if err := r.db.SelectContext(ctx, &accounts, query); err != nil {
		return nil, err
	}

	return accounts, nil
}

func (r *accountRepository) BankAccountMap(ctx context.Context) (map[string]uuid.UUID, error) {
	query := `SELECT id, bank_account FROM accounts`

	var rows []struct {
		ID          uuid.UUID `db:"id"`
		BankAccount string    `db:"bank_account"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	byBankAccount := make(map[string]uuid.UUID, len(rows))
	for _, row := range rows {
		byBankAccount[row.BankAccount] = row.ID
	}
	return byBankAccount, nil
}
