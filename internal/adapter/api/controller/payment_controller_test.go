package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dmtavares/pdv-varejo/internal/adapter/gateway"
	"github.com/dmtavares/pdv-varejo/internal/adapter/repository/memory"
	"github.com/dmtavares/pdv-varejo/internal/domain/payment"
	"github.com/dmtavares/pdv-varejo/pkg/logger"
)

func TestCashPayment(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Arroz 5kg", "001", 25.90, 10)
	created := env.createTestSale(t, p, 1)

	rec := env.do(t, http.MethodPost, "/api/v1/payments/cash", gin.H{
		"sale_id": created["id"],
		"amount":  25.90,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, corpo: %s", rec.Code, rec.Body.String())
	}

	var body map[string]interface{}
	decode(t, rec, &body)

	if body["status"].(string) != string(payment.StatusConfirmed) {
		t.Errorf("status = %v, esperado confirmado (dinheiro confirma de imediato)", body["status"])
	}
	if body["confirmed_at"] == nil {
		t.Error("confirmed_at não deveria ser nulo")
	}
}

func TestCashPaymentUnknownSale(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/payments/cash", gin.H{
		"sale_id": "inexistente",
		"amount":  10.00,
	})

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, esperado 404", rec.Code)
	}
}

func TestCashPaymentCancelledSale(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Feijão 1kg", "002", 8.50, 10)
	created := env.createTestSale(t, p, 1)
	saleID := created["id"].(string)

	if rec := env.do(t, http.MethodPut, "/api/v1/sales/"+saleID, gin.H{"status": "cancelada"}); rec.Code != http.StatusOK {
		t.Fatalf("cancelar venda: status = %d", rec.Code)
	}

	rec := env.do(t, http.MethodPost, "/api/v1/payments/cash", gin.H{
		"sale_id": saleID,
		"amount":  8.50,
	})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, esperado 400 para venda cancelada", rec.Code)
	}
}

func TestCardPaymentApproved(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Café 500g", "003", 15.90, 10)
	created := env.createTestSale(t, p, 1)

	rec := env.do(t, http.MethodPost, "/api/v1/payments/card", gin.H{
		"sale_id":         created["id"],
		"amount":          15.90,
		"token":           "tok-abc123",
		"holder_name":     "João Silva",
		"holder_document": "529.982.247-25",
		"method_id":       "visa",
		"installments":    2,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, corpo: %s", rec.Code, rec.Body.String())
	}

	var body map[string]interface{}
	decode(t, rec, &body)

	if body["status"].(string) != string(payment.StatusConfirmed) {
		t.Errorf("status = %v, esperado confirmado (gateway simulado aprova)", body["status"])
	}
	if body["transaction_id"].(string) == "" {
		t.Error("transaction_id não deveria ser vazio")
	}
	if body["installments"].(float64) != 2 {
		t.Errorf("installments = %v, esperado 2", body["installments"])
	}
}

func TestCardPaymentWithoutToken(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Leite 1L", "004", 4.99, 10)
	created := env.createTestSale(t, p, 1)

	rec := env.do(t, http.MethodPost, "/api/v1/payments/card", gin.H{
		"sale_id":         created["id"],
		"amount":          4.99,
		"holder_name":     "João Silva",
		"holder_document": "52998224725",
		"method_id":       "visa",
	})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, esperado 400 sem token do cartão", rec.Code)
	}
}

func TestCardPaymentMalformedDocument(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Açúcar 1kg", "005", 5.49, 10)
	created := env.createTestSale(t, p, 1)

	rec := env.do(t, http.MethodPost, "/api/v1/payments/card", gin.H{
		"sale_id":         created["id"],
		"amount":          5.49,
		"token":           "tok-abc123",
		"holder_name":     "João Silva",
		"holder_document": "12345",
		"method_id":       "visa",
	})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, esperado 400 para documento malformado", rec.Code)
	}
}

func TestPixPaymentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Óleo 900ml", "006", 9.90, 10)
	created := env.createTestSale(t, p, 1)

	rec := env.do(t, http.MethodPost, "/api/v1/payments/pix", gin.H{
		"sale_id":    created["id"],
		"amount":     9.90,
		"payer_name": "Maria",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, corpo: %s", rec.Code, rec.Body.String())
	}

	var body map[string]interface{}
	decode(t, rec, &body)

	if body["status"].(string) != string(payment.StatusPending) {
		t.Errorf("status = %v, esperado pendente", body["status"])
	}
	if body["qr_code"].(string) == "" {
		t.Error("qr_code não deveria ser vazio")
	}
	if body["expires_at"] == nil {
		t.Error("expires_at não deveria ser nulo")
	}

	txid := body["txid"].(string)

	// Antes da liquidação a confirmação manual é rejeitada
	rec = env.do(t, http.MethodPost, "/api/v1/payments/pix/confirm", gin.H{"txid": txid})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, esperado 400 antes da liquidação", rec.Code)
	}

	// Liquida no processador simulado e confirma
	if err := env.gateway.SettlePix(txid); err != nil {
		t.Fatalf("SettlePix: %v", err)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/payments/pix/confirm", gin.H{"txid": txid})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, corpo: %s", rec.Code, rec.Body.String())
	}

	decode(t, rec, &body)
	if body["status"].(string) != string(payment.StatusConfirmed) {
		t.Errorf("status = %v, esperado confirmado", body["status"])
	}

	// Confirmação repetida é idempotente
	rec = env.do(t, http.MethodPost, "/api/v1/payments/pix/confirm", gin.H{"txid": txid})
	if rec.Code != http.StatusOK {
		t.Errorf("status da confirmação repetida = %d, esperado 200", rec.Code)
	}
}

func TestPixPaymentInvalidAmount(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Sal 1kg", "007", 2.99, 10)
	created := env.createTestSale(t, p, 1)

	rec := env.do(t, http.MethodPost, "/api/v1/payments/pix", gin.H{
		"sale_id": created["id"],
		"amount":  -5.00,
	})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, esperado 400 para valor inválido", rec.Code)
	}
}

func TestWebhookConfirmsPixPayment(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Farinha 1kg", "008", 6.75, 10)
	created := env.createTestSale(t, p, 1)

	rec := env.do(t, http.MethodPost, "/api/v1/payments/pix", gin.H{
		"sale_id": created["id"],
		"amount":  6.75,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("criar cobrança: status = %d", rec.Code)
	}

	var body map[string]interface{}
	decode(t, rec, &body)
	paymentID := body["id"].(string)
	txid := body["txid"].(string)

	if err := env.gateway.SettlePix(txid); err != nil {
		t.Fatalf("SettlePix: %v", err)
	}

	// O webhook não exige autenticação
	rec = env.do(t, http.MethodPost, "/api/v1/payments/webhook", gin.H{
		"type":   "payment",
		"action": "payment.updated",
		"data":   gin.H{"id": txid},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("webhook: status = %d, corpo: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/v1/payments/"+paymentID, nil)
	decode(t, rec, &body)
	if body["status"].(string) != string(payment.StatusConfirmed) {
		t.Errorf("status = %v, esperado confirmado via webhook", body["status"])
	}

	// Webhook repetido continua respondendo 200
	rec = env.do(t, http.MethodPost, "/api/v1/payments/webhook", gin.H{
		"type": "payment",
		"data": gin.H{"id": txid},
	})
	if rec.Code != http.StatusOK {
		t.Errorf("webhook repetido: status = %d, esperado 200", rec.Code)
	}
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/payments/webhook", gin.H{
		"type": "plan",
		"data": gin.H{"id": "123"},
	})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, esperado 200 para evento ignorado", rec.Code)
	}
}

func TestWebhookUnknownPayment(t *testing.T) {
	env := newTestEnv(t)

	// Cria a cobrança direto no gateway, sem registro local
	result, err := env.gateway.CreatePixCharge(context.Background(), payment.PixCharge{Amount: 10.00, Reference: "desconhecida"})
	if err != nil {
		t.Fatalf("CreatePixCharge: %v", err)
	}

	rec := env.do(t, http.MethodPost, "/api/v1/payments/webhook", gin.H{
		"type": "payment",
		"data": gin.H{"id": result.ID},
	})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, esperado 200 para pagamento desconhecido", rec.Code)
	}
}

func TestCardWebhookAliasConfirmsPayment(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Fubá 1kg", "009", 3.80, 10)
	created := env.createTestSale(t, p, 1)

	rec := env.do(t, http.MethodPost, "/api/v1/payments/pix", gin.H{
		"sale_id": created["id"],
		"amount":  3.80,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("criar cobrança: status = %d", rec.Code)
	}

	var body map[string]interface{}
	decode(t, rec, &body)
	paymentID := body["id"].(string)
	txid := body["txid"].(string)

	if err := env.gateway.SettlePix(txid); err != nil {
		t.Fatalf("SettlePix: %v", err)
	}

	// A rota de cartão é um alias do mesmo receptor de webhook
	rec = env.do(t, http.MethodPost, "/api/v1/payments/card/webhook", gin.H{
		"type": "payment",
		"data": gin.H{"id": txid},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("webhook de cartão: status = %d, corpo: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/v1/payments/"+paymentID, nil)
	decode(t, rec, &body)
	if body["status"].(string) != string(payment.StatusConfirmed) {
		t.Errorf("status = %v, esperado confirmado via alias", body["status"])
	}
}

func TestPaymentStatusPollDoesNotTransition(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Trigo 1kg", "010", 5.10, 10)
	created := env.createTestSale(t, p, 1)

	rec := env.do(t, http.MethodPost, "/api/v1/payments/pix", gin.H{
		"sale_id": created["id"],
		"amount":  5.10,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("criar cobrança: status = %d", rec.Code)
	}

	var body map[string]interface{}
	decode(t, rec, &body)
	paymentID := body["id"].(string)
	txid := body["txid"].(string)

	rec = env.do(t, http.MethodGet, "/api/v1/payments/status?id="+paymentID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, corpo: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &body)
	if body["status"].(string) != string(payment.StatusPending) {
		t.Errorf("status = %v, esperado pendente", body["status"])
	}

	// Liquidar no processador não confirma o registro: a consulta só lê
	if err := env.gateway.SettlePix(txid); err != nil {
		t.Fatalf("SettlePix: %v", err)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/payments/status?id="+txid, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status por txid = %d, corpo: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &body)
	if body["status"].(string) != string(payment.StatusPending) {
		t.Errorf("status = %v, a consulta não deve disparar transição", body["status"])
	}

	rec = env.do(t, http.MethodGet, "/api/v1/payments/status", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("sem id: status = %d, esperado 400", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/payments/status?id=inexistente", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("id desconhecido: status = %d, esperado 404", rec.Code)
	}
}

func TestPixCorrelationIDFormat(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Milho 500g", "011", 4.60, 10)
	created := env.createTestSale(t, p, 1)
	saleID := created["id"].(string)

	rec := env.do(t, http.MethodPost, "/api/v1/payments/pix", gin.H{
		"sale_id": saleID,
		"amount":  4.60,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("criar cobrança: status = %d", rec.Code)
	}

	var body map[string]interface{}
	decode(t, rec, &body)
	txid := body["txid"].(string)

	stored, err := memory.NewPaymentRepository(env.store).FindByTransactionID(context.Background(), txid)
	if err != nil {
		t.Fatalf("FindByTransactionID: %v", err)
	}

	if !strings.HasPrefix(stored.CorrelationID, "PIX-") {
		t.Errorf("referência externa = %q, esperado prefixo PIX-", stored.CorrelationID)
	}
	digits := strings.ReplaceAll(saleID, "-", "")
	if !strings.Contains(stored.CorrelationID, digits[len(digits)-8:]) {
		t.Errorf("referência externa = %q deveria carregar o sufixo da venda", stored.CorrelationID)
	}
	if stored.CorrelationID == stored.ID {
		t.Error("referência externa não pode ser o ID interno do pagamento")
	}

	// O processador ecoa a referência, que resolve a correlação do webhook
	result, err := env.gateway.GetPayment(context.Background(), txid)
	if err != nil {
		t.Fatalf("GetPayment: %v", err)
	}
	if result.Reference != stored.CorrelationID {
		t.Errorf("referência no processador = %q, esperado %q", result.Reference, stored.CorrelationID)
	}
}

func TestPixPaymentSynthesizesPayerEmail(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Aveia 500g", "014", 7.30, 10)
	created := env.createTestSale(t, p, 1)

	var payerEmail string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Payer struct {
				Email string `json:"email"`
			} `json:"payer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode cobrança: %v", err)
		}
		payerEmail = req.Payer.Email

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 987654, "status": "pending", "point_of_interaction": {"transaction_data": {"qr_code": "payload", "qr_code_base64": "cGF5bG9hZA=="}}}`)
	}))
	defer srv.Close()

	t.Setenv("PAYMENT_GATEWAY_URL", srv.URL)
	log := logger.NewLogger()
	pc := NewPaymentController(
		memory.NewPaymentRepository(env.store),
		memory.NewSaleRepository(env.store),
		gateway.NewHTTPGateway("token-teste", log),
		log,
	)

	router := gin.New()
	authed := router.Group("/api/v1")
	authed.Use(fakeAuth())
	authed.POST("/payments/pix", pc.Pix)

	raw, err := json.Marshal(gin.H{
		"sale_id":        created["id"],
		"amount":         7.30,
		"payer_document": "529.982.247-25",
	})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/pix", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, corpo: %s", rec.Code, rec.Body.String())
	}
	if payerEmail != "52998224725@comprador.pdv" {
		t.Errorf("payer email = %q, esperado sintetizado pelo documento", payerEmail)
	}
}
