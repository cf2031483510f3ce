package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
)

// MidtransGateway talks to the Midtrans Snap HTTP API. The provider has
// no official Go SDK, so this is a thin client over the two endpoints
// the reservation flow needs.
type MidtransGateway struct {
	baseURL   string
	serverKey string
	client    *http.Client
}

// NewMidtransGateway creates a new MidtransGateway
func NewMidtransGateway(baseURL, serverKey string, timeout time.Duration) *MidtransGateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MidtransGateway{
		baseURL:   baseURL,
		serverKey: serverKey,
		client:    &http.Client{Timeout: timeout},
	}
}

var _ PaymentGateway = (*MidtransGateway)(nil)

// Name returns the provider name
func (g *MidtransGateway) Name() string {
	return "midtrans"
}

type snapRequest struct {
	TransactionDetails struct {
		OrderID     string  `json:"order_id"`
		GrossAmount float64 `json:"gross_amount"`
	} `json:"transaction_details"`
	CustomerDetails struct {
		CustomerID string `json:"customer_id,omitempty"`
	} `json:"customer_details,omitempty"`
}

type snapResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// Charge opens a Snap transaction and returns its token as the accessor
func (g *MidtransGateway) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error) {
	var payload snapRequest
	payload.TransactionDetails.OrderID = req.OrderCode
	payload.TransactionDetails.GrossAmount = req.Amount
	payload.CustomerDetails.CustomerID = req.CustomerID

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode charge request: %w", err)
	}

	url := g.baseURL + "/snap/v1/transactions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build charge request: %w", err)
	}
	g.setHeaders(httpReq)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrGatewayUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("charge rejected with status %d", resp.StatusCode)
	}

	var snap snapResponse
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode charge response: %w", err)
	}

	return &ChargeResponse{
		Accessor:    snap.Token,
		RedirectURL: snap.RedirectURL,
	}, nil
}

type transactionStatusResponse struct {
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
}

// CheckStatus maps the provider transaction status onto PAID/UNPAID.
// Only settled money counts as paid.
func (g *MidtransGateway) CheckStatus(ctx context.Context, orderCode string) (PaymentStatus, error) {
	url := fmt.Sprintf("%s/v2/%s/status", g.baseURL, orderCode)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build status request: %w", err)
	}
	g.setHeaders(httpReq)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "", fmt.Errorf("%w: status %d", domain.ErrGatewayUnavailable, resp.StatusCode)
	}
	if resp.StatusCode == http.StatusNotFound {
		// The provider never saw this order, nothing was paid
		return PaymentStatusUnpaid, nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status check rejected with status %d", resp.StatusCode)
	}

	var status transactionStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return "", fmt.Errorf("failed to decode status response: %w", err)
	}

	switch status.TransactionStatus {
	case "capture", "settlement":
		return PaymentStatusPaid, nil
	default:
		return PaymentStatusUnpaid, nil
	}
}

func (g *MidtransGateway) setHeaders(req *http.Request) {
	auth := base64.StdEncoding.EncodeToString([]byte(g.serverKey + ":"))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
