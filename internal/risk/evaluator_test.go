package risk

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perchfin/lending-engine/internal/domain"
)

func newTestEvaluator() *RuleEvaluator {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewRuleEvaluator(logger)
}

func applicantBornOn(dateOfBirth string) *domain.ApplicantData {
	return &domain.ApplicantData{
		BasicQuestions: &domain.BasicQuestions{
			FirstName:   "Jo",
			LastName:    "Bloggs",
			DateOfBirth: dateOfBirth,
		},
		CreditReport:  &domain.CreditReport{Score: 700},
		CompanyReport: &domain.CompanyReport{CompanyName: "Acme Ltd"},
	}
}

func TestEvaluateApproves(t *testing.T) {
	evaluation, err := newTestEvaluator().Evaluate(context.Background(), applicantBornOn("1980-01-01"))
	require.NoError(t, err)

	assert.True(t, evaluation.Approved)
	require.NotNil(t, evaluation.Terms)
	assert.True(t, evaluation.Terms.Amount.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, 0.0005, evaluation.Terms.DailyRate)
	assert.True(t, evaluation.Terms.FeeAmount.IsZero())
}

func TestEvaluateDeclines(t *testing.T) {
	evaluation, err := newTestEvaluator().Evaluate(context.Background(), applicantBornOn("1995-06-15"))
	require.NoError(t, err)

	assert.False(t, evaluation.Approved)
	assert.Nil(t, evaluation.Terms)
}

func TestEvaluateRejectsMissingSections(t *testing.T) {
	evaluator := newTestEvaluator()

	tests := []struct {
		name      string
		applicant *domain.ApplicantData
	}{
		{"nil applicant", nil},
		{"nil basic questions", &domain.ApplicantData{
			CreditReport:  &domain.CreditReport{},
			CompanyReport: &domain.CompanyReport{},
		}},
		{"nil credit report", &domain.ApplicantData{
			BasicQuestions: &domain.BasicQuestions{DateOfBirth: "1980-01-01"},
			CompanyReport:  &domain.CompanyReport{},
		}},
		{"nil company report", &domain.ApplicantData{
			BasicQuestions: &domain.BasicQuestions{DateOfBirth: "1980-01-01"},
			CreditReport:   &domain.CreditReport{},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evaluator.Evaluate(context.Background(), tt.applicant)
			assert.Error(t, err)
		})
	}
}

func TestEvaluateRejectsMalformedDateOfBirth(t *testing.T) {
	_, err := newTestEvaluator().Evaluate(context.Background(), applicantBornOn("15/06/1995"))
	assert.Error(t, err)
}

func TestRequirements(t *testing.T) {
	assert.Equal(t, []string{"basic_questions", "credit_report", "company_report"}, Requirements())
}
