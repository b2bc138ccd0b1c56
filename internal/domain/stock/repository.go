package stock

import (
	"context"
	"time"
)

// Repository define a interface para o razão de movimentações de estoque
type Repository interface {
	// Apply aplica a movimentação ao estoque do produto e registra a
	// movimentação no razão, de forma atômica. Preenche PrevStock e
	// NewStock no movimento retornado.
	Apply(ctx context.Context, m *Movement) (*Movement, error)

	// ListByProduct lista as movimentações de um produto
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*Movement, error)

	// ListByPeriod lista as movimentações de uma filial em um período
	ListByPeriod(ctx context.Context, branchID string, from, to time.Time, limit, offset int) ([]*Movement, error)
}
