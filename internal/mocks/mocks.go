package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/perchfin/lending-engine/internal/bank"
	"github.com/perchfin/lending-engine/internal/domain"
	"github.com/perchfin/lending-engine/internal/ledger"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) AppendMovement(ctx context.Context, movement *domain.CashMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockStorage) AppendLoan(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockStorage) AppendDecision(ctx context.Context, decision *domain.Decision) error {
	args := m.Called(ctx, decision)
	return args.Error(0)
}

type MockPaymentRail struct {
	mock.Mock
}

func (m *MockPaymentRail) Disburse(ctx context.Context, amount decimal.Decimal, accountTo string) (ledger.Disbursement, error) {
	args := m.Called(ctx, amount, accountTo)
	return args.Get(0).(ledger.Disbursement), args.Error(1)
}

type MockEvaluator struct {
	mock.Mock
}

func (m *MockEvaluator) Evaluate(ctx context.Context, applicant *domain.ApplicantData) (ledger.Evaluation, error) {
	args := m.Called(ctx, applicant)
	return args.Get(0).(ledger.Evaluation), args.Error(1)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) BankAccountMap(ctx context.Context) (map[string]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]uuid.UUID), args.Error(1)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) LoadState(ctx context.Context, accountID uuid.UUID) ([]domain.Loan, []domain.CashMovement, []domain.Decision, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil && args.Error(3) != nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).([]domain.Loan), args.Get(1).([]domain.CashMovement), args.Get(2).([]domain.Decision), args.Error(3)
}

func (m *MockLedgerRepository) AppendMovement(ctx context.Context, movement *domain.CashMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockLedgerRepository) AppendLoan(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLedgerRepository) AppendDecision(ctx context.Context, decision *domain.Decision) error {
	args := m.Called(ctx, decision)
	return args.Error(0)
}

func (m *MockLedgerRepository) MovementReferences(ctx context.Context) (map[string]struct{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

type MockStatementSource struct {
	mock.Mock
}

func (m *MockStatementSource) Statement(ctx context.Context) ([]bank.StatementEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bank.StatementEntry), args.Error(1)
}

type MockReminderSender struct {
	mock.Mock
}

func (m *MockReminderSender) SendRepaymentReminder(to, username string, dueDate time.Time, amount float64) error {
	args := m.Called(to, username, dueDate, amount)
	return args.Error(0)
}
