package stock

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity = errors.New("quantidade deve ser maior que zero")
	ErrInvalidType     = errors.New("tipo de movimentação inválido")
	ErrEmptyProduct    = errors.New("produto não informado")
)

// MovementType representa o tipo de movimentação de estoque
type MovementType string

const (
	TypeIn         MovementType = "IN"         // Entrada de mercadoria
	TypeOut        MovementType = "OUT"        // Saída de mercadoria
	TypeAdjustment MovementType = "ADJUSTMENT" // Ajuste de inventário
)

// Motivos padrão registrados pelo fluxo de vendas
const (
	ReasonSale             = "venda"
	ReasonSaleCancellation = "cancelamento de venda"
)

// Movement representa uma movimentação de estoque registrada no razão
type Movement struct {
	ID         string       `json:"id"`          // ID da Movimentação
	ProductID  string       `json:"product_id"`  // ID do Produto
	BranchID   string       `json:"branch_id"`   // ID da Filial
	Type       MovementType `json:"type"`        // Tipo (IN/OUT/ADJUSTMENT)
	Quantity   int          `json:"quantity"`    // Quantidade movimentada
	PrevStock  int          `json:"prev_stock"`  // Estoque anterior
	NewStock   int          `json:"new_stock"`   // Estoque resultante
	Reason     string       `json:"reason"`      // Motivo da movimentação
	Reference  string       `json:"reference"`   // Documento de referência (venda, NF, etc)
	UserID     string       `json:"user_id"`     // ID do Usuário responsável
	CreatedAt  time.Time    `json:"created_at"`  // Data da Movimentação
}

// NewMovement cria uma nova movimentação de estoque
func NewMovement(productID, branchID string, movType MovementType, quantity int, reason, reference, userID string) (*Movement, error) {
	if productID == "" {
		return nil, ErrEmptyProduct
	}

	switch movType {
	case TypeIn, TypeOut, TypeAdjustment:
	default:
		return nil, ErrInvalidType
	}

	// No ajuste a quantidade é o estoque absoluto resultante e pode ser
	// zero (baixa total no inventário)
	if quantity < 0 || (quantity == 0 && movType != TypeAdjustment) {
		return nil, ErrInvalidQuantity
	}

	return &Movement{
		ID:        uuid.New().String(),
		ProductID: productID,
		BranchID:  branchID,
		Type:      movType,
		Quantity:  quantity,
		Reason:    reason,
		Reference: reference,
		UserID:    userID,
		CreatedAt: time.Now(),
	}, nil
}

// Delta retorna a variação de estoque produzida pela movimentação.
// Para ADJUSTMENT a quantidade representa o novo estoque absoluto e o
// delta é calculado pelo repositório a partir do estoque corrente.
func (m *Movement) Delta() int {
	switch m.Type {
	case TypeIn:
		return m.Quantity
	case TypeOut:
		return -m.Quantity
	default:
		return 0
	}
}
