package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/perchfin/lending-engine/internal/domain"
	"github.com/perchfin/lending-engine/internal/middleware"
	"github.com/perchfin/lending-engine/internal/risk"
	"github.com/perchfin/lending-engine/internal/service"
	customError "github.com/perchfin/lending-engine/pkg/errors"
	"github.com/perchfin/lending-engine/pkg/response"
	"github.com/perchfin/lending-engine/pkg/utils"
)

// LedgerHandler serves the credit product surface: product info, decisions,
// funding and schedules. Every operation captures "now" once and threads it
// through; the core never reads the clock.
type LedgerHandler struct {
	service   *service.LedgerService
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewLedgerHandler(svc *service.LedgerService, logger *logrus.Logger) *LedgerHandler {
	return &LedgerHandler{
		service:   svc,
		validator: validator.New(),
		logger:    logger,
	}
}

// Product returns the standard product description.
func (h *LedgerHandler) Product(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.ProductInfo())
}

// Requirements returns the document sections an application must include.
func (h *LedgerHandler) Requirements(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]interface{}{"requirements": risk.Requirements()})
}

// Decide evaluates submitted applicant data and returns the recorded
// decision. Incomplete applications get the requirements list back instead.
func (h *LedgerHandler) Decide(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r)
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var applicant domain.ApplicantData
	if err := json.NewDecoder(r.Body).Decode(&applicant); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&applicant); err != nil {
		response.JSON(w, http.StatusOK, map[string]interface{}{"requirements": risk.Requirements()})
		return
	}

	now := time.Now()
	outcome, err := h.service.Decide(r.Context(), accountID, &applicant, now)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"decision":     decisionView(outcome.Decision, h.service.ProductInfo()),
		"requirements": risk.Requirements(),
	})
}

type fundingRequest struct {
	ApprovalReference string          `json:"approval_reference" validate:"required,uuid"`
	Amount            decimal.Decimal `json:"amount" validate:"required"`
}

// RequestFunding validates and executes a funding request against the active
// decision, returning the funding reference and repayment schedule.
func (h *LedgerHandler) RequestFunding(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r)
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var req fundingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid funding request", err)
		return
	}
	approvalRef, err := uuid.Parse(req.ApprovalReference)
	if err != nil {
		response.BadRequest(w, "invalid approval reference", err)
		return
	}

	now := time.Now()
	result, err := h.service.RequestFunding(r.Context(), accountID, approvalRef, req.Amount, now)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"funding_reference":  result.Loan.ID,
		"level_repayment":    result.Loan.LevelRepayment,
		"repayment_schedule": result.Schedule,
	})
}

// Overview returns the balance and forward schedule as of today.
func (h *LedgerHandler) Overview(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r)
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	now := time.Now()
	overview, err := h.service.GetOverview(r.Context(), accountID, now)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, overview)
}

func decisionView(d *domain.Decision, product map[string]interface{}) map[string]interface{} {
	view := map[string]interface{}{
		"status":    d.Status,
		"reference": d.ID.String(),
	}
	if !d.Approved() {
		return view
	}

	view["amount_max"] = d.Amount.Decimal
	view["duration"] = d.DurationDays.Int64
	// Annualized compound rate from the daily rate, for display only.
	view["interest"] = math.Round((math.Pow(1+d.DailyRate.Float64, 365)-1)*1e5) / 1e5
	view["fee_flat"] = d.FeeAmount.Decimal
	view["fee_rate"] = d.FeeRate.Float64
	view["repayment_frequency_days"] = d.RepaymentFrequencyDays.Int64
	view["valid_until"] = utils.DateOf(d.IssuedAt).AddDate(0, 0, 7).Format("2006-01-02")
	if standard, ok := product["standard"].(map[string]interface{}); ok {
		view["amount_min"] = standard["amount_min"]
	}
	return view
}

func writeBusinessError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	if errors.As(err, &businessErr) {
		switch businessErr.Code {
		case customError.ErrCodeInvalidDecision, customError.ErrCodeInvalidAmount:
			response.BadRequest(w, businessErr.Message, businessErr.Err)
			return
		case customError.ErrCodeAccountNotFound:
			response.NotFound(w, businessErr.Message)
			return
		case customError.ErrCodeTransactionFailure:
			response.Error(w, http.StatusBadGateway, businessErr.Message, businessErr.Err)
			return
		}
	}
	response.InternalServerError(w, "operation failed", err)
}
