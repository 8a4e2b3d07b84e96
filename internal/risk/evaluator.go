package risk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/perchfin/lending-engine/internal/domain"
	"github.com/perchfin/lending-engine/internal/ledger"
)

// Requirements lists the document sections an application must contain
// before evaluation is attempted.
func Requirements() []string {
	return []string{"basic_questions", "credit_report", "company_report"}
}

// RuleEvaluator is a deterministic scorecard standing in for the external
// credit-risk classifier behind the evaluation port. The model service owns
// the real scoring; this keeps the contract exercised without it.
type RuleEvaluator struct {
	logger *logrus.Logger
}

func NewRuleEvaluator(logger *logrus.Logger) *RuleEvaluator {
	return &RuleEvaluator{logger: logger}
}

// Evaluate applies the scorecard to the applicant data. Missing sections and
// parse failures propagate as errors; the caller decides what a failed
// evaluation means.
func (e *RuleEvaluator) Evaluate(_ context.Context, applicant *domain.ApplicantData) (ledger.Evaluation, error) {
	if applicant == nil || applicant.BasicQuestions == nil || applicant.CreditReport == nil || applicant.CompanyReport == nil {
		return ledger.Evaluation{}, errors.New("applicant data is incomplete")
	}

	dob, err := time.Parse("2006-01-02", applicant.BasicQuestions.DateOfBirth)
	if err != nil {
		return ledger.Evaluation{}, fmt.Errorf("parse date of birth %q: %w", applicant.BasicQuestions.DateOfBirth, err)
	}

	if dob.Year() < 1989 {
		e.logger.WithField("dob_year", dob.Year()).Debug("applicant approved by scorecard")
		return ledger.Evaluation{
			Approved: true,
			Terms: &ledger.DecisionTerms{
				Amount:    decimal.NewFromInt(5000),
				DailyRate: 0.0005,
				FeeRate:   0,
				FeeAmount: decimal.Zero,
			},
		}, nil
	}

	return ledger.Evaluation{Approved: false}, nil
}
