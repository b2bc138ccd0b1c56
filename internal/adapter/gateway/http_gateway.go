package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmtavares/pdv-varejo/internal/domain/payment"
	"github.com/dmtavares/pdv-varejo/pkg/logger"
)

const (
	defaultBaseURL = "https://api.mercadopago.com"
	requestTimeout = 10 * time.Second
)

// HTTPGateway implementa payment.Gateway contra a API REST do processador
// de pagamentos. Cada cobrança envia o header X-Idempotency-Key com a
// referência de correlação para que retransmissões não dupliquem a cobrança.
type HTTPGateway struct {
	baseURL     string
	accessToken string
	client      *http.Client
	logger      logger.Logger
}

// NewHTTPGateway cria o cliente HTTP do processador de pagamentos
func NewHTTPGateway(accessToken string, logger logger.Logger) *HTTPGateway {
	baseURL := os.Getenv("PAYMENT_GATEWAY_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &HTTPGateway{
		baseURL:     baseURL,
		accessToken: accessToken,
		client:      &http.Client{Timeout: requestTimeout},
		logger:      logger,
	}
}

type identificationRequest struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

type payerRequest struct {
	Email          string                 `json:"email,omitempty"`
	FirstName      string                 `json:"first_name,omitempty"`
	Identification *identificationRequest `json:"identification,omitempty"`
}

type chargeRequest struct {
	TransactionAmount float64      `json:"transaction_amount"`
	Token             string       `json:"token,omitempty"`
	Description       string       `json:"description,omitempty"`
	Installments      int          `json:"installments,omitempty"`
	PaymentMethodID   string       `json:"payment_method_id"`
	ExternalReference string       `json:"external_reference,omitempty"`
	Payer             payerRequest `json:"payer"`
}

type chargeResponse struct {
	ID                  json.Number `json:"id"`
	Status              string      `json:"status"`
	StatusDetail        string      `json:"status_detail"`
	ExternalReference   string      `json:"external_reference"`
	PointOfInteraction  struct {
		TransactionData struct {
			QRCode       string `json:"qr_code"`
			QRCodeBase64 string `json:"qr_code_base64"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
}

func (r *chargeResponse) toResult() *payment.ChargeResult {
	return &payment.ChargeResult{
		ID:           r.ID.String(),
		Status:       r.Status,
		StatusDetail: r.StatusDetail,
		Reference:    r.ExternalReference,
		QRCode:       r.PointOfInteraction.TransactionData.QRCode,
		QRCodeBase64: r.PointOfInteraction.TransactionData.QRCodeBase64,
	}
}

// CreateCardCharge cria uma cobrança de cartão tokenizada no processador
func (g *HTTPGateway) CreateCardCharge(ctx context.Context, charge payment.CardCharge) (*payment.ChargeResult, error) {
	req := chargeRequest{
		TransactionAmount: charge.Amount,
		Token:             charge.Token,
		Description:       charge.Description,
		Installments:      charge.Installments,
		PaymentMethodID:   charge.MethodID,
		ExternalReference: charge.Reference,
		Payer: payerRequest{
			Email:     charge.PayerEmail,
			FirstName: charge.PayerName,
		},
	}
	if charge.PayerDoc != "" {
		req.Payer.Identification = identification(charge.PayerDoc)
	}

	return g.createCharge(ctx, req, charge.Reference)
}

// CreatePixCharge cria uma cobrança PIX no processador
func (g *HTTPGateway) CreatePixCharge(ctx context.Context, charge payment.PixCharge) (*payment.ChargeResult, error) {
	req := chargeRequest{
		TransactionAmount: charge.Amount,
		Description:       charge.Description,
		PaymentMethodID:   "pix",
		ExternalReference: charge.Reference,
		Payer: payerRequest{
			Email:     charge.PayerEmail,
			FirstName: charge.PayerName,
		},
	}
	if charge.PayerDoc != "" {
		req.Payer.Identification = identification(charge.PayerDoc)
	}

	return g.createCharge(ctx, req, charge.Reference)
}

// GetPayment consulta o status atual de uma cobrança no processador
func (g *HTTPGateway) GetPayment(ctx context.Context, id string) (*payment.ChargeResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/v1/payments/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao montar requisição ao processador: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.accessToken)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.logger.Error("Falha ao consultar processador de pagamentos", "error", err, "payment_id", id)
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	return g.decodeResponse(resp)
}

func (g *HTTPGateway) createCharge(ctx context.Context, req chargeRequest, idempotencyKey string) (*payment.ChargeResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar cobrança: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/payments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("erro ao montar requisição ao processador: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		httpReq.Header.Set("X-Idempotency-Key", idempotencyKey)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.logger.Error("Falha ao comunicar com o processador de pagamentos", "error", err)
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	return g.decodeResponse(resp)
}

func (g *HTTPGateway) decodeResponse(resp *http.Response) (*payment.ChargeResult, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: erro ao ler resposta", payment.ErrGatewayUnavailable)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		g.logger.Error("Processador de pagamentos retornou erro", "status", resp.StatusCode, "body", string(raw))
		return nil, fmt.Errorf("%w: status %d", payment.ErrGatewayUnavailable, resp.StatusCode)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("processador rejeitou a cobrança: status %d: %s", resp.StatusCode, string(raw))
	}

	var decoded chargeResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("erro ao decodificar resposta do processador: %w", err)
	}

	return decoded.toResult(), nil
}

func identification(doc string) *identificationRequest {
	idType := "CPF"
	if len(doc) == 14 {
		idType = "CNPJ"
	}
	return &identificationRequest{Type: idType, Number: doc}
}
