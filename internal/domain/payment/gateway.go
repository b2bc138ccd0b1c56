package payment

import (
	"context"
	"errors"
)

// ErrGatewayUnavailable indica falha de comunicação com o processador de
// pagamentos. Nenhuma aprovação é simulada fora do modo sandbox: o erro é
// propagado ao chamador.
var ErrGatewayUnavailable = errors.New("processador de pagamentos indisponível")

// Status retornados pelo processador
const (
	GatewayStatusApproved = "approved"
	GatewayStatusPending  = "pending"
	GatewayStatusRejected = "rejected"
)

// CardCharge representa uma cobrança de cartão enviada ao processador
type CardCharge struct {
	Amount       float64 // Valor da cobrança
	Token        string  // Token do cartão gerado no cliente
	Description  string  // Descrição da cobrança
	Installments int     // Número de parcelas
	MethodID     string  // Variante crédito/débito do processador
	PayerEmail   string  // Email do pagador
	PayerName    string  // Nome do pagador
	PayerDoc     string  // CPF/CNPJ do pagador
	Reference    string  // Referência externa (correlação)
}

// PixCharge representa uma cobrança PIX enviada ao processador
type PixCharge struct {
	Amount      float64 // Valor da cobrança
	Description string  // Descrição da cobrança
	PayerEmail  string  // Email do pagador
	PayerName   string  // Nome do pagador
	PayerDoc    string  // CPF/CNPJ do pagador
	Reference   string  // Referência externa (correlação)
}

// ChargeResult representa o resultado de uma cobrança no processador
type ChargeResult struct {
	ID           string // ID da transação no processador
	Status       string // approved, pending, rejected
	StatusDetail string // Detalhe do status
	Reference    string // Referência externa ecoada pelo processador
	QRCode       string // Payload PIX copia-e-cola
	QRCodeBase64 string // Imagem do QR em base64
}

// Approved verifica se o processador aprovou a cobrança
func (r *ChargeResult) Approved() bool {
	return r.Status == GatewayStatusApproved
}

// Gateway define a interface com o processador externo de pagamentos.
// Há duas implementações: o cliente HTTP do processador real e o gateway
// simulado usado quando nenhuma credencial está configurada.
type Gateway interface {
	// CreateCardCharge cria uma cobrança de cartão tokenizada
	CreateCardCharge(ctx context.Context, charge CardCharge) (*ChargeResult, error)

	// CreatePixCharge cria uma cobrança PIX
	CreatePixCharge(ctx context.Context, charge PixCharge) (*ChargeResult, error)

	// GetPayment consulta o status atual de uma cobrança no processador
	GetPayment(ctx context.Context, id string) (*ChargeResult, error)
}
