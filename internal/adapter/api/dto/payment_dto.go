package dto

import (
	"time"

	"github.com/dmtavares/pdv-varejo/internal/domain/payment"
)

// CashPaymentRequest representa a requisição de pagamento em dinheiro
type CashPaymentRequest struct {
	SaleID string  `json:"sale_id" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
}

// CardPaymentRequest representa a requisição de pagamento com cartão.
// Apenas o token gerado no cliente trafega: o número do cartão nunca
// chega a esta API.
type CardPaymentRequest struct {
	SaleID         string  `json:"sale_id" binding:"required"`
	Amount         float64 `json:"amount" binding:"required"`
	Token          string  `json:"token" binding:"required"`
	HolderName     string  `json:"holder_name" binding:"required"`
	HolderDocument string  `json:"holder_document" binding:"required"`
	MethodID       string  `json:"method_id" binding:"required"`
	Installments   int     `json:"installments"`
	PayerEmail     string  `json:"payer_email"`
}

// PixPaymentRequest representa a requisição de cobrança PIX
type PixPaymentRequest struct {
	SaleID        string  `json:"sale_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	PayerName     string  `json:"payer_name"`
	PayerDocument string  `json:"payer_document"`
	PayerEmail    string  `json:"payer_email"`
}

// PixConfirmRequest representa a confirmação manual de uma cobrança PIX
type PixConfirmRequest struct {
	TxID string `json:"txid" binding:"required"`
}

// WebhookRequest representa a notificação enviada pelo processador de
// pagamentos
type WebhookRequest struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// PaymentResponse representa a resposta de pagamento
type PaymentResponse struct {
	ID            string         `json:"id"`
	SaleID        string         `json:"sale_id"`
	UserID        string         `json:"user_id"`
	Method        payment.Method `json:"method"`
	Amount        float64        `json:"amount"`
	Status        payment.Status `json:"status"`
	TransactionID string         `json:"transaction_id,omitempty"`
	StatusDetail  string         `json:"status_detail,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	ConfirmedAt   *time.Time     `json:"confirmed_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`

	HolderName   string `json:"holder_name,omitempty"`
	Installments int    `json:"installments,omitempty"`

	TxID         string     `json:"txid,omitempty"`
	QRCode       string     `json:"qr_code,omitempty"`
	QRCodeBase64 string     `json:"qr_code_base64,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// ToPaymentResponse converte um pagamento de domínio para DTO de resposta
func ToPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		SaleID:        p.SaleID,
		UserID:        p.UserID,
		Method:        p.Method,
		Amount:        p.Amount,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		StatusDetail:  p.StatusDetail,
		Notes:         p.Notes,
		ConfirmedAt:   p.ConfirmedAt,
		CreatedAt:     p.CreatedAt,
		HolderName:    p.HolderName,
		Installments:  p.Installments,
		TxID:          p.TxID,
		QRCode:        p.QRCode,
		QRCodeBase64:  p.QRCodeBase64,
		ExpiresAt:     p.ExpiresAt,
	}
}
