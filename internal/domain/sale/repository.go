package sale

import (
	"context"
)

// Repository define a interface para operações de repositório de vendas
type Repository interface {
	// Create persiste a venda, seus itens e a baixa de estoque de cada
	// produto em uma única transação. Atribui o número sequencial da
	// venda e registra uma movimentação OUT por item. Falha sem efeitos
	// se algum produto não existir ou não tiver estoque suficiente.
	Create(ctx context.Context, s *Sale) error

	// FindByID busca uma venda pelo ID, incluindo seus itens
	FindByID(ctx context.Context, id string) (*Sale, error)

	// List lista as vendas mais recentes de uma filial com paginação
	List(ctx context.Context, branchID string, limit, offset int) ([]*Sale, error)

	// ListByCustomer lista as vendas de um cliente
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*Sale, error)

	// Cancel cancela a venda: repõe o estoque de cada item, registra as
	// movimentações IN de compensação e atualiza o status, em uma única
	// transação. Retorna erro se a venda já estiver cancelada.
	Cancel(ctx context.Context, id, userID string) (*Sale, error)

	// CountByBranch conta quantas vendas existem para uma filial
	CountByBranch(ctx context.Context, branchID string) (int, error)
}
