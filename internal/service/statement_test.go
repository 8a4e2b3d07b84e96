package service_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/perchfin/lending-engine/internal/bank"
	"github.com/perchfin/lending-engine/internal/config"
	"github.com/perchfin/lending-engine/internal/domain"
	"github.com/perchfin/lending-engine/internal/mocks"
	"github.com/perchfin/lending-engine/internal/service"
)

func testConfig() *config.Config {
	return &config.Config{
		Product: config.ProductConfig{
			MinLoanAmount:        "100",
			MaxLoanAmount:        "50000",
			DecisionValidDays:    7,
			DefaultDurationDays:  360,
			DefaultFrequencyDays: 30,
		},
		Scheduler: config.SchedulerConfig{ReminderLead: 72 * time.Hour},
	}
}

func newTestService(accounts *mocks.MockAccountRepository, store *mocks.MockLedgerRepository) *service.LedgerService {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return service.NewLedgerService(accounts, store, nil, nil, nil, testConfig(), logger)
}

func TestIngestStatement(t *testing.T) {
	accountID := uuid.New()
	now := time.Date(2021, 9, 1, 3, 0, 0, 0, time.UTC)

	source := new(mocks.MockStatementSource)
	source.On("Statement", mock.Anything).Return([]bank.StatementEntry{
		{In: decimal.NewFromInt(250), Datetime: now, Reference: "r1", Account: "ACC1"},
		{Out: decimal.NewFromInt(900), Datetime: now, Reference: "r2", Account: "ACC1"},
		{In: decimal.NewFromInt(100), Datetime: now, Reference: "dup", Account: "ACC1"},
		{In: decimal.NewFromInt(75), Datetime: now, Reference: "r3", Account: "UNKNOWN"},
	}, nil)

	store := new(mocks.MockLedgerRepository)
	store.On("MovementReferences", mock.Anything).Return(map[string]struct{}{"dup": {}}, nil)
	store.On("AppendMovement", mock.Anything, mock.MatchedBy(func(m *domain.CashMovement) bool {
		return m.AccountID == accountID &&
			m.Kind == domain.MovementRepayment &&
			m.Reference == "r1" &&
			m.Amount.Equal(decimal.NewFromInt(250))
	})).Return(nil)

	accounts := new(mocks.MockAccountRepository)
	accounts.On("BankAccountMap", mock.Anything).Return(map[string]uuid.UUID{"ACC1": accountID}, nil)

	svc := newTestService(accounts, store)

	recorded, err := svc.IngestStatement(context.Background(), source)
	require.NoError(t, err)

	// Outbound, duplicate and unmatched entries are all skipped.
	assert.Equal(t, 1, recorded)
	store.AssertNumberOfCalls(t, "AppendMovement", 1)
}

func TestIngestStatementSourceFailure(t *testing.T) {
	source := new(mocks.MockStatementSource)
	source.On("Statement", mock.Anything).Return(nil, errors.New("bank unavailable"))

	svc := newTestService(new(mocks.MockAccountRepository), new(mocks.MockLedgerRepository))

	_, err := svc.IngestStatement(context.Background(), source)
	assert.Error(t, err)
}
