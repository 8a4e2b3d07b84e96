package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/perchfin/lending-engine/internal/domain"
	"github.com/perchfin/lending-engine/internal/mocks"
	"github.com/perchfin/lending-engine/pkg/utils"
)

func TestSendReminders(t *testing.T) {
	at := time.Date(2021, 9, 1, 9, 0, 0, 0, time.UTC)
	today := utils.DateOf(at)
	start := utils.AddDays(today, -28)

	account := &domain.Account{
		ID:       uuid.New(),
		Username: "acme",
		Email:    "owner@acme.example",
	}
	loan := domain.Loan{
		ID:                     uuid.New(),
		AccountID:              account.ID,
		Start:                  start,
		OpeningBalance:         decimal.NewFromInt(1000),
		DurationDays:           360,
		DailyRate:              0.0005,
		RepaymentFrequencyDays: 30,
		LevelRepayment:         decimal.NewFromInt(100),
	}
	movements := []domain.CashMovement{{
		ID:        uuid.New(),
		AccountID: account.ID,
		Timestamp: start,
		Amount:    decimal.NewFromInt(-1000),
		Kind:      domain.MovementFunding,
	}}

	accounts := new(mocks.MockAccountRepository)
	accounts.On("List", mock.Anything).Return([]*domain.Account{account}, nil)
	accounts.On("GetByID", mock.Anything, account.ID).Return(account, nil)

	store := new(mocks.MockLedgerRepository)
	store.On("LoadState", mock.Anything, account.ID).
		Return([]domain.Loan{loan}, movements, []domain.Decision{}, nil)

	// The next installment falls due in two days, inside the 72h lead; the
	// rest of the schedule stays beyond the horizon.
	dueDate := utils.AddDays(start, 30)
	sender := new(mocks.MockReminderSender)
	sender.On("SendRepaymentReminder", account.Email, account.Username, dueDate, 100.0).Return(nil)

	svc := newTestService(accounts, store)

	err := svc.SendReminders(context.Background(), sender, at)
	require.NoError(t, err)

	sender.AssertExpectations(t)
	sender.AssertNumberOfCalls(t, "SendRepaymentReminder", 1)
}

func TestSendRemindersSkipsAccountsWithoutLoans(t *testing.T) {
	at := time.Date(2021, 9, 1, 9, 0, 0, 0, time.UTC)

	account := &domain.Account{ID: uuid.New(), Username: "idle", Email: "idle@example.com"}

	accounts := new(mocks.MockAccountRepository)
	accounts.On("List", mock.Anything).Return([]*domain.Account{account}, nil)
	accounts.On("GetByID", mock.Anything, account.ID).Return(account, nil)

	store := new(mocks.MockLedgerRepository)
	store.On("LoadState", mock.Anything, account.ID).
		Return([]domain.Loan{}, []domain.CashMovement{}, []domain.Decision{}, nil)

	sender := new(mocks.MockReminderSender)

	svc := newTestService(accounts, store)

	err := svc.SendReminders(context.Background(), sender, at)
	require.NoError(t, err)

	sender.AssertNotCalled(t, "SendRepaymentReminder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
