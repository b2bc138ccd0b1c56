package sale

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyItems           = errors.New("venda deve conter ao menos um item")
	ErrInvalidQuantity      = errors.New("quantidade deve ser maior que zero")
	ErrInvalidUnitPrice     = errors.New("preço unitário deve ser maior que zero")
	ErrInvalidDiscount      = errors.New("desconto não pode ser negativo nem maior que o subtotal")
	ErrInvalidCPF           = errors.New("CPF inválido: deve conter 11 dígitos")
	ErrInvalidPaymentMethod = errors.New("forma de pagamento inválida")
	ErrAlreadyCancelled     = errors.New("venda já está cancelada")
	ErrInvalidTransition    = errors.New("transição de status inválida")
)

// Status representa o estado da venda
type Status string

const (
	StatusCompleted Status = "concluida"
	StatusCancelled Status = "cancelada"
)

// PaymentMethod representa a forma de pagamento da venda
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "dinheiro"
	PaymentCreditCard PaymentMethod = "cartao_credito"
	PaymentDebitCard  PaymentMethod = "cartao_debito"
	PaymentPix        PaymentMethod = "pix"
)

// IsValid verifica se a forma de pagamento é conhecida
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentPix:
		return true
	}
	return false
}

// Item representa um item da venda com o snapshot do produto no momento
// da venda. O snapshot é imutável: alterações posteriores no cadastro do
// produto não afetam vendas já registradas.
type Item struct {
	ID          string  `json:"id"`           // ID do Item
	SaleID      string  `json:"sale_id"`      // ID da Venda
	ProductID   string  `json:"product_id"`   // ID do Produto
	ProductName string  `json:"product_name"` // Nome do Produto (snapshot)
	ProductCode string  `json:"product_code"` // Código Interno (snapshot)
	Barcode     string  `json:"barcode"`      // Código de Barras (snapshot)
	Quantity    int     `json:"quantity"`     // Quantidade
	UnitPrice   float64 `json:"unit_price"`   // Preço Unitário
	Discount    float64 `json:"discount"`     // Desconto do Item
	Total       float64 `json:"total"`        // Total do Item
}

// Sale representa uma venda registrada no caixa
type Sale struct {
	ID            string        `json:"id"`             // ID da Venda
	Number        int64         `json:"number"`         // Número sequencial da venda
	BranchID      string        `json:"branch_id"`      // ID da Filial
	CustomerID    string        `json:"customer_id"`    // ID do Cliente (opcional)
	CustomerName  string        `json:"customer_name"`  // Nome do Cliente (texto livre)
	CPF           string        `json:"cpf"`            // CPF na nota (opcional)
	UserID        string        `json:"user_id"`        // ID do Operador
	Subtotal      float64       `json:"subtotal"`       // Soma dos totais dos itens
	Discount      float64       `json:"discount"`       // Desconto da venda
	Total         float64       `json:"total"`          // Subtotal - Desconto
	PaymentMethod PaymentMethod `json:"payment_method"` // Forma de Pagamento
	Status        Status        `json:"status"`         // Status da Venda
	CreatedAt     time.Time     `json:"created_at"`     // Data da Venda
	Items         []Item        `json:"items"`          // Itens da Venda
}

// NormalizeCPF remove caracteres não numéricos e valida o comprimento
func NormalizeCPF(cpf string) (string, error) {
	var digits strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	normalized := digits.String()
	if len(normalized) != 11 {
		return "", ErrInvalidCPF
	}

	return normalized, nil
}

// NewSale cria uma nova venda a partir do carrinho. Os totais são
// calculados aqui; o número sequencial é atribuído pelo repositório no
// momento da persistência.
func NewSale(branchID, userID string, items []Item, paymentMethod PaymentMethod, discount float64) (*Sale, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}

	if !paymentMethod.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}

	saleID := uuid.New().String()
	subtotal := 0.0

	for i := range items {
		if items[i].Quantity <= 0 {
			return nil, fmt.Errorf("%w: produto %s", ErrInvalidQuantity, items[i].ProductID)
		}
		if items[i].UnitPrice <= 0 {
			return nil, fmt.Errorf("%w: produto %s", ErrInvalidUnitPrice, items[i].ProductID)
		}

		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		items[i].SaleID = saleID

		if items[i].Total == 0 {
			items[i].Total = float64(items[i].Quantity)*items[i].UnitPrice - items[i].Discount
		}
		subtotal += items[i].Total
	}

	if discount < 0 || discount > subtotal {
		return nil, ErrInvalidDiscount
	}

	return &Sale{
		ID:            saleID,
		BranchID:      branchID,
		UserID:        userID,
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         subtotal - discount,
		PaymentMethod: paymentMethod,
		Status:        StatusCompleted,
		CreatedAt:     time.Now(),
		Items:         items,
	}, nil
}

// SetCPF normaliza e associa o CPF à venda
func (s *Sale) SetCPF(cpf string) error {
	normalized, err := NormalizeCPF(cpf)
	if err != nil {
		return err
	}
	s.CPF = normalized
	return nil
}

// IsCancelled verifica se a venda está cancelada
func (s *Sale) IsCancelled() bool {
	return s.Status == StatusCancelled
}

// Cancel transiciona a venda para cancelada. A reposição do estoque dos
// itens é responsabilidade do repositório, na mesma transação.
func (s *Sale) Cancel() error {
	if s.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	s.Status = StatusCancelled
	return nil
}
