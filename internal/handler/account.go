package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/perchfin/lending-engine/internal/config"
	"github.com/perchfin/lending-engine/internal/domain"
	"github.com/perchfin/lending-engine/internal/middleware"
	"github.com/perchfin/lending-engine/internal/repository"
	"github.com/perchfin/lending-engine/pkg/response"
)

// AccountHandler serves registration and login.
type AccountHandler struct {
	accounts  repository.AccountRepository
	cfg       *config.Config
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewAccountHandler(accounts repository.AccountRepository, cfg *config.Config, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{
		accounts:  accounts,
		cfg:       cfg,
		validator: validator.New(),
		logger:    logger,
	}
}

type registerRequest struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required,min=8"`
	Email       string `json:"email" validate:"required,email"`
	BankAccount string `json:"bank_account" validate:"required"`
}

// Register creates an account with a bcrypt-hashed password.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid registration data", err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.InternalServerError(w, "hashing password", err)
		return
	}

	account := &domain.Account{
		ID:             uuid.New(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: string(hashed),
		BankAccount:    req.BankAccount,
		CreatedAt:      time.Now(),
	}
	if err := h.accounts.Create(r.Context(), account); err != nil {
		response.BadRequest(w, "creating account", err)
		return
	}

	h.logger.WithField("account", account.ID).Info("account registered")
	response.Created(w, map[string]string{"username": account.Username})
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and returns a bearer token.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid login data", err)
		return
	}

	account, err := h.accounts.GetByUsername(r.Context(), req.Username)
	if err != nil {
		response.Unauthorized(w, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.HashedPassword), []byte(req.Password)); err != nil {
		response.Unauthorized(w, "invalid credentials")
		return
	}

	token, err := middleware.IssueToken(h.cfg.Auth, account.ID, time.Now())
	if err != nil {
		response.InternalServerError(w, "issuing token", err)
		return
	}

	response.Success(w, map[string]string{"token": token})
}
