package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmtavares/pdv-varejo/internal/domain/payment"
	"github.com/dmtavares/pdv-varejo/pkg/logger"
)

func TestHTTPGatewayCreateCardCharge(t *testing.T) {
	var gotAuth, gotIdempotency string
	var gotBody chargeRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payments" {
			t.Errorf("requisição inesperada: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotIdempotency = r.Header.Get("X-Idempotency-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 12345, "status": "approved", "status_detail": "accredited", "external_reference": "pay-1"}`))
	}))
	defer server.Close()

	g := NewHTTPGateway("token-abc", logger.NewLogger())
	g.baseURL = server.URL

	result, err := g.CreateCardCharge(context.Background(), payment.CardCharge{
		Amount:       150.00,
		Token:        "card-token-xyz",
		Installments: 3,
		MethodID:     "visa",
		PayerDoc:     "52998224725",
		Reference:    "pay-1",
	})
	if err != nil {
		t.Fatalf("CreateCardCharge: %v", err)
	}

	if gotAuth != "Bearer token-abc" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotIdempotency != "pay-1" {
		t.Errorf("X-Idempotency-Key = %q, esperado pay-1", gotIdempotency)
	}
	if gotBody.Token != "card-token-xyz" || gotBody.Installments != 3 {
		t.Errorf("corpo da cobrança = %+v", gotBody)
	}
	if gotBody.Payer.Identification == nil || gotBody.Payer.Identification.Type != "CPF" {
		t.Errorf("identificação do pagador = %+v, esperado CPF", gotBody.Payer.Identification)
	}

	if result.ID != "12345" {
		t.Errorf("ID = %q, esperado 12345", result.ID)
	}
	if !result.Approved() {
		t.Errorf("status = %q, esperado approved", result.Status)
	}
}

func TestHTTPGatewayCreatePixCharge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body chargeRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.PaymentMethodID != "pix" {
			t.Errorf("payment_method_id = %q, esperado pix", body.PaymentMethodID)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"id": 777,
			"status": "pending",
			"status_detail": "pending_waiting_transfer",
			"point_of_interaction": {"transaction_data": {"qr_code": "00020126...", "qr_code_base64": "MDAwMjAx"}}
		}`))
	}))
	defer server.Close()

	g := NewHTTPGateway("token-abc", logger.NewLogger())
	g.baseURL = server.URL

	result, err := g.CreatePixCharge(context.Background(), payment.PixCharge{
		Amount:    42.50,
		Reference: "pay-2",
	})
	if err != nil {
		t.Fatalf("CreatePixCharge: %v", err)
	}

	if result.Status != payment.GatewayStatusPending {
		t.Errorf("status = %q, esperado pending", result.Status)
	}
	if result.QRCode == "" || result.QRCodeBase64 == "" {
		t.Errorf("cobrança PIX deveria retornar QR code: %+v", result)
	}
}

func TestHTTPGatewayServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	g := NewHTTPGateway("token-abc", logger.NewLogger())
	g.baseURL = server.URL

	_, err := g.CreateCardCharge(context.Background(), payment.CardCharge{Amount: 10, Token: "t", Reference: "pay-3"})
	if !errors.Is(err, payment.ErrGatewayUnavailable) {
		t.Errorf("err = %v, esperado ErrGatewayUnavailable", err)
	}
}

func TestHTTPGatewayConnectionRefusedIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // porta fechada

	g := NewHTTPGateway("token-abc", logger.NewLogger())
	g.baseURL = server.URL

	_, err := g.GetPayment(context.Background(), "123")
	if !errors.Is(err, payment.ErrGatewayUnavailable) {
		t.Errorf("err = %v, esperado ErrGatewayUnavailable", err)
	}
}

func TestHTTPGatewayBadRequestIsNotUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "invalid token"}`))
	}))
	defer server.Close()

	g := NewHTTPGateway("token-abc", logger.NewLogger())
	g.baseURL = server.URL

	_, err := g.CreateCardCharge(context.Background(), payment.CardCharge{Amount: 10, Token: "bad", Reference: "pay-4"})
	if err == nil {
		t.Fatal("esperado erro de rejeição")
	}
	if errors.Is(err, payment.ErrGatewayUnavailable) {
		t.Errorf("rejeição do processador não é indisponibilidade: %v", err)
	}
}

func TestSimulatedGatewayCardApproved(t *testing.T) {
	g := NewSimulatedGateway(logger.NewLogger())

	result, err := g.CreateCardCharge(context.Background(), payment.CardCharge{Amount: 99.90, Token: "t", Reference: "pay-5"})
	if err != nil {
		t.Fatalf("CreateCardCharge: %v", err)
	}
	if !result.Approved() {
		t.Errorf("status = %q, esperado approved", result.Status)
	}
	if result.Reference != "pay-5" {
		t.Errorf("reference = %q, esperado pay-5", result.Reference)
	}
}

func TestSimulatedGatewayPixLifecycle(t *testing.T) {
	g := NewSimulatedGateway(logger.NewLogger())

	created, err := g.CreatePixCharge(context.Background(), payment.PixCharge{Amount: 30.00, Reference: "pay-6"})
	if err != nil {
		t.Fatalf("CreatePixCharge: %v", err)
	}
	if created.Status != payment.GatewayStatusPending {
		t.Errorf("status = %q, esperado pending", created.Status)
	}
	if created.QRCode == "" {
		t.Error("cobrança PIX simulada deveria gerar QR code")
	}

	if err := g.SettlePix(created.ID); err != nil {
		t.Fatalf("SettlePix: %v", err)
	}

	got, err := g.GetPayment(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetPayment: %v", err)
	}
	if !got.Approved() {
		t.Errorf("status após liquidação = %q, esperado approved", got.Status)
	}
}
