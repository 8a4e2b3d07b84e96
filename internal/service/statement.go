package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/perchfin/lending-engine/internal/bank"
	"github.com/perchfin/lending-engine/internal/domain"
	customError "github.com/perchfin/lending-engine/pkg/errors"
)

// StatementSource is the read side of the bank boundary used by statement
// ingestion.
type StatementSource interface {
	Statement(ctx context.Context) ([]bank.StatementEntry, error)
}

// IngestStatement pulls the bank statement and records every inbound
// transfer that is not yet stored as a repayment movement. Entries are
// de-duplicated by bank reference; entries whose source account maps to no
// customer are logged and skipped. Returns the number of movements recorded.
func (s *LedgerService) IngestStatement(ctx context.Context, source StatementSource) (int, error) {
	entries, err := source.Statement(ctx)
	if err != nil {
		return 0, err
	}

	existing, err := s.store.MovementReferences(ctx)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	accountsByBankAccount, err := s.accounts.BankAccountMap(ctx)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	recorded := 0
	for _, entry := range entries {
		if entry.In.Sign() <= 0 {
			continue
		}
		if _, ok := existing[entry.Reference]; ok {
			continue
		}

		accountID, ok := accountsByBankAccount[entry.Account]
		if !ok {
			s.logger.WithFields(logrus.Fields{
				"reference":    entry.Reference,
				"bank_account": entry.Account,
			}).Error("no account for inbound transfer")
			continue
		}

		movement := domain.CashMovement{
			ID:        uuid.New(),
			AccountID: accountID,
			Timestamp: entry.Datetime,
			Amount:    entry.In,
			Kind:      domain.MovementRepayment,
			Reference: entry.Reference,
		}
		if err := s.store.AppendMovement(ctx, &movement); err != nil {
			return recorded, customError.WrapDatabaseError(err)
		}
		recorded++
	}

	s.logger.WithField("count", recorded).Info("statement ingested")
	return recorded, nil
}
