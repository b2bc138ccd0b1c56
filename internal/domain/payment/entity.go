package payment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptySale        = errors.New("venda não informada")
	ErrEmptyUser        = errors.New("operador não informado")
	ErrInvalidAmount    = errors.New("valor deve ser maior que zero")
	ErrEmptyCardToken   = errors.New("token do cartão não informado")
	ErrEmptyMethodID    = errors.New("identificador da forma de pagamento não informado")
	ErrInvalidDocument  = errors.New("documento inválido: deve conter 11 (CPF) ou 14 (CNPJ) dígitos")
	ErrAlreadyConfirmed = errors.New("pagamento já confirmado")
)

// Method representa a modalidade do pagamento
type Method string

const (
	MethodCash Method = "dinheiro"
	MethodCard Method = "cartao"
	MethodPix  Method = "pix"
)

// Status representa o estado do pagamento
type Status string

const (
	StatusPending   Status = "pendente"
	StatusConfirmed Status = "confirmado"
)

// PixExpiration é o prazo de validade de uma cobrança PIX
const PixExpiration = 30 * time.Minute

// Payment representa um registro de pagamento de uma venda. Os campos
// específicos de cartão e PIX só são preenchidos na modalidade
// correspondente.
type Payment struct {
	ID            string     `json:"id"`             // ID do Pagamento
	SaleID        string     `json:"sale_id"`        // ID da Venda
	UserID        string     `json:"user_id"`        // ID do Operador
	Method        Method     `json:"method"`         // Modalidade
	Amount        float64    `json:"amount"`         // Valor Total
	Status        Status     `json:"status"`         // Status do Pagamento
	TransactionID string     `json:"transaction_id"` // ID da transação no processador
	CorrelationID string     `json:"correlation_id"` // Referência externa enviada ao processador
	StatusDetail  string     `json:"status_detail"`  // Detalhe de status retornado pelo processador
	Notes         string     `json:"notes"`          // Observações de auditoria
	ConfirmedAt   *time.Time `json:"confirmed_at"`   // Data da Confirmação
	CreatedAt     time.Time  `json:"created_at"`     // Data de Criação

	// Campos de cartão
	HolderName     string `json:"holder_name,omitempty"`     // Nome do Portador
	HolderDocument string `json:"holder_document,omitempty"` // CPF/CNPJ do Portador
	Installments   int    `json:"installments,omitempty"`    // Número de Parcelas
	MethodID       string `json:"method_id,omitempty"`       // Bandeira/variante (crédito ou débito)

	// Campos de PIX
	TxID          string     `json:"txid,omitempty"`           // ID da cobrança PIX (= ID no processador)
	PixKey        string     `json:"pix_key,omitempty"`        // Chave de destino
	PayerName     string     `json:"payer_name,omitempty"`     // Nome do Pagador
	PayerDocument string     `json:"payer_document,omitempty"` // CPF/CNPJ do Pagador
	QRCode        string     `json:"qr_code,omitempty"`        // Payload copia-e-cola
	QRCodeBase64  string     `json:"qr_code_base64,omitempty"` // Imagem do QR em base64
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`     // Validade da cobrança
}

// NormalizeDocument remove caracteres não numéricos e valida o
// comprimento de um CPF (11) ou CNPJ (14)
func NormalizeDocument(document string) (string, error) {
	var digits strings.Builder
	for _, r := range document {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	normalized := digits.String()
	if len(normalized) != 11 && len(normalized) != 14 {
		return "", ErrInvalidDocument
	}

	return normalized, nil
}

// NewCashPayment cria um pagamento em dinheiro, já confirmado
func NewCashPayment(saleID, userID string, amount float64) (*Payment, error) {
	if err := validateBase(saleID, userID, amount); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Payment{
		ID:          uuid.New().String(),
		SaleID:      saleID,
		UserID:      userID,
		Method:      MethodCash,
		Amount:      amount,
		Status:      StatusConfirmed,
		ConfirmedAt: &now,
		CreatedAt:   now,
	}, nil
}

// NewCardPayment cria um pagamento com cartão pendente de processamento.
// Apenas dados tokenizados são aceitos: o número do cartão nunca chega ao
// servidor.
func NewCardPayment(saleID, userID string, amount float64, holderName, holderDocument, methodID string, installments int) (*Payment, error) {
	if err := validateBase(saleID, userID, amount); err != nil {
		return nil, err
	}

	if methodID == "" {
		return nil, ErrEmptyMethodID
	}

	document, err := NormalizeDocument(holderDocument)
	if err != nil {
		return nil, err
	}

	if installments < 1 {
		installments = 1
	}

	return &Payment{
		ID:             uuid.New().String(),
		SaleID:         saleID,
		UserID:         userID,
		Method:         MethodCard,
		Amount:         amount,
		Status:         StatusPending,
		HolderName:     holderName,
		HolderDocument: document,
		Installments:   installments,
		MethodID:       methodID,
		CreatedAt:      time.Now(),
	}, nil
}

// NewPixPayment cria uma cobrança PIX pendente com validade de 30 minutos
func NewPixPayment(saleID, userID string, amount float64, payerName, payerDocument string) (*Payment, error) {
	if err := validateBase(saleID, userID, amount); err != nil {
		return nil, err
	}

	if payerDocument != "" {
		document, err := NormalizeDocument(payerDocument)
		if err != nil {
			return nil, err
		}
		payerDocument = document
	}

	now := time.Now()
	expiresAt := now.Add(PixExpiration)

	return &Payment{
		ID:            uuid.New().String(),
		SaleID:        saleID,
		UserID:        userID,
		Method:        MethodPix,
		Amount:        amount,
		Status:        StatusPending,
		PayerName:     payerName,
		PayerDocument: payerDocument,
		CreatedAt:     now,
		ExpiresAt:     &expiresAt,
	}, nil
}

func validateBase(saleID, userID string, amount float64) error {
	if saleID == "" {
		return ErrEmptySale
	}
	if userID == "" {
		return ErrEmptyUser
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// IsConfirmed verifica se o pagamento está confirmado
func (p *Payment) IsConfirmed() bool {
	return p.Status == StatusConfirmed
}

// IsExpired verifica se uma cobrança ainda pendente passou da validade.
// Pagamentos sem validade nunca expiram.
func (p *Payment) IsExpired(now time.Time) bool {
	if p.Status != StatusPending || p.ExpiresAt == nil {
		return false
	}
	return now.After(*p.ExpiresAt)
}

// Confirm transiciona o pagamento para confirmado. A transição é
// terminal: confirmar um pagamento já confirmado retorna
// ErrAlreadyConfirmed, que os chamadores tratam como no-op.
func (p *Payment) Confirm(at time.Time) error {
	if p.Status == StatusConfirmed {
		return ErrAlreadyConfirmed
	}

	p.Status = StatusConfirmed
	p.ConfirmedAt = &at

	note := fmt.Sprintf("confirmado em %s", at.Format(time.RFC3339))
	if p.Notes == "" {
		p.Notes = note
	} else {
		p.Notes = p.Notes + "; " + note
	}

	return nil
}
