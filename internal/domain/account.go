package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is one customer. BankAccount is the external account number the
// payment rail disburses to and repayments arrive from.
type Account struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	Email          string    `json:"email" db:"email"`
	HashedPassword string    `json:"-" db:"hashed_password"`
	BankAccount    string    `json:"bank_account" db:"bank_account"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ApplicantData is the document bundle a funding applicant submits for
// evaluation. All three sections are required before a decision is attempted.
type ApplicantData struct {
	BasicQuestions *BasicQuestions `json:"basic_questions" validate:"required"`
	CreditReport   *CreditReport   `json:"credit_report" validate:"required"`
	CompanyReport  *CompanyReport  `json:"company_report" validate:"required"`
}

type BasicQuestions struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
	FullAddress string `json:"full_address"`
	Postcode    string `json:"postcode"`
	Country     string `json:"country"`
}

type CreditReport struct {
	Score                 int     `json:"score"`
	CreditLimit           float64 `json:"credit_limit"`
	CreditUtilisation     float64 `json:"credit_utilisation"`
	NumberOfAccounts      int     `json:"number_of_accounts"`
	AgeOfOldestAccount    int     `json:"age_of_oldest_account"`
	MissedPaymentsLast12M int     `json:"missed_payments_last_12m"`
	CreditSearchesLast12M int     `json:"credit_searches_last_12m"`
}

type CompanyReport struct {
	CompanyNumber     int     `json:"company_number"`
	CompanyName       string  `json:"company_name"`
	CompanyType       string  `json:"company_type"`
	IncorporationDate string  `json:"incorporation_date"`
	ReportDate        string  `json:"report_date"`
	Assets            float64 `json:"assets"`
	Liabilities       float64 `json:"liabilities"`
	Score             int     `json:"score"`
	Opinion           string  `json:"opinion"`
	Turnover          float64 `json:"turnover"`
	NumberOfEmployees int     `json:"number_of_employees"`
	SicCode           int     `json:"sic_code"`
	Region            string  `json:"region"`
}
