package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
)

func TestMidtransGatewayCharge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/snap/v1/transactions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Basic ") {
			t.Error("expected basic auth header")
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"token":        "snap-token-123",
			"redirect_url": "https://pay.example.test/snap-token-123",
		})
	}))
	defer server.Close()

	g := NewMidtransGateway(server.URL, "server-key", time.Second)

	resp, err := g.Charge(context.Background(), &ChargeRequest{
		OrderCode: "RTX/20260901/ABCD1234",
		Amount:    150000,
	})
	if err != nil {
		t.Fatalf("Charge() error = %v", err)
	}
	if resp.Accessor != "snap-token-123" {
		t.Errorf("expected snap token accessor, got %s", resp.Accessor)
	}
}

func TestMidtransGatewayChargeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	g := NewMidtransGateway(server.URL, "server-key", time.Second)

	_, err := g.Charge(context.Background(), &ChargeRequest{OrderCode: "x"})
	if !errors.Is(err, domain.ErrGatewayUnavailable) {
		t.Errorf("Charge() error = %v, want %v", err, domain.ErrGatewayUnavailable)
	}
}

func TestMidtransGatewayCheckStatus(t *testing.T) {
	tests := []struct {
		name       string
		httpStatus int
		txnStatus  string
		want       PaymentStatus
		wantErr    error
	}{
		{"settlement is paid", http.StatusOK, "settlement", PaymentStatusPaid, nil},
		{"capture is paid", http.StatusOK, "capture", PaymentStatusPaid, nil},
		{"pending is unpaid", http.StatusOK, "pending", PaymentStatusUnpaid, nil},
		{"expire is unpaid", http.StatusOK, "expire", PaymentStatusUnpaid, nil},
		{"unknown order is unpaid", http.StatusNotFound, "", PaymentStatusUnpaid, nil},
		{"server error surfaces", http.StatusInternalServerError, "", "", domain.ErrGatewayUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.httpStatus)
				if tt.httpStatus == http.StatusOK {
					json.NewEncoder(w).Encode(map[string]string{
						"transaction_status": tt.txnStatus,
					})
				}
			}))
			defer server.Close()

			g := NewMidtransGateway(server.URL, "server-key", time.Second)

			got, err := g.CheckStatus(context.Background(), "order-1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CheckStatus() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CheckStatus() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CheckStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMockGateway(t *testing.T) {
	g := NewMockGateway()

	status, err := g.CheckStatus(context.Background(), "order-1")
	if err != nil || status != PaymentStatusUnpaid {
		t.Errorf("CheckStatus() = %s, %v; want UNPAID", status, err)
	}

	g.MarkPaid("order-1")
	status, _ = g.CheckStatus(context.Background(), "order-1")
	if status != PaymentStatusPaid {
		t.Errorf("CheckStatus() after MarkPaid = %s, want PAID", status)
	}
}

func TestGatewayFactory(t *testing.T) {
	g, err := New(&Config{Provider: "mock"})
	if err != nil {
		t.Fatal(err)
	}
	if g.Name() != "mock" {
		t.Errorf("expected mock gateway, got %s", g.Name())
	}

	g, err = New(&Config{Provider: "midtrans", BaseURL: "https://example.test", ServerKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if g.Name() != "midtrans" {
		t.Errorf("expected midtrans gateway, got %s", g.Name())
	}

	if _, err := New(&Config{Provider: "stripe"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}
