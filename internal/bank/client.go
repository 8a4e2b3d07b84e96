package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/perchfin/lending-engine/internal/config"
	"github.com/perchfin/lending-engine/internal/ledger"
)

// Client talks to the external bank over its HTTP API, authenticated with
// basic auth. It implements the payment-rail port and exposes the statement
// feed the ingestion job consumes.
type Client struct {
	baseURL    string
	username   string
	password   string
	account    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(cfg config.BankConfig, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		username: cfg.Username,
		password: cfg.Password,
		account:  cfg.Account,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type transactionRequest struct {
	Account   string          `json:"account"`
	AccountTo string          `json:"account_to"`
	Amount    decimal.Decimal `json:"amount"`
}

type transactionResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	Datetime  time.Time       `json:"datetime"`
	Reference string          `json:"reference"`
}

// Disburse sends amount from the institution's account to accountTo and
// returns the transfer as confirmed by the bank.
func (c *Client) Disburse(ctx context.Context, amount decimal.Decimal, accountTo string) (ledger.Disbursement, error) {
	c.logger.WithFields(logrus.Fields{
		"amount":     amount,
		"account_to": accountTo,
	}).Info("sending disbursement")

	body, err := json.Marshal(transactionRequest{
		Account:   c.account,
		AccountTo: accountTo,
		Amount:    amount,
	})
	if err != nil {
		return ledger.Disbursement{}, fmt.Errorf("encode transaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction", bytes.NewReader(body))
	if err != nil {
		return ledger.Disbursement{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ledger.Disbursement{}, fmt.Errorf("send transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		c.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(payload),
		}).Error("bank rejected transaction")
		return ledger.Disbursement{}, fmt.Errorf("bank rejected transaction: status %d", resp.StatusCode)
	}

	var confirmed transactionResponse
	if err := json.NewDecoder(resp.Body).Decode(&confirmed); err != nil {
		return ledger.Disbursement{}, fmt.Errorf("decode transaction response: %w", err)
	}

	return ledger.Disbursement{
		Amount:    confirmed.Amount,
		Timestamp: confirmed.Datetime,
		Reference: confirmed.Reference,
	}, nil
}

// StatementEntry is one row of the bank statement for the institution's
// account. In/Out carry the inbound and outbound legs; exactly one is
// nonzero.
type StatementEntry struct {
	In        decimal.Decimal `json:"in"`
	Out       decimal.Decimal `json:"out"`
	Datetime  time.Time       `json:"datetime"`
	Reference string          `json:"reference"`
	Account   string          `json:"account"`
}

// Statement fetches the full statement for the institution's account.
func (c *Client) Statement(ctx context.Context) ([]StatementEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/statement?account="+c.account, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch statement: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch statement: status %d", resp.StatusCode)
	}

	var entries []StatementEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode statement: %w", err)
	}
	return entries, nil
}
