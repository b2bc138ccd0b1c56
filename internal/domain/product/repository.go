package product

import (
	"context"
)

// Repository define a interface para operações de repositório de produtos
type Repository interface {
	// Create cria um novo produto
	Create(ctx context.Context, p *Product) error

	// FindByID busca um produto pelo ID
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindByCode busca um produto pelo código interno
	FindByCode(ctx context.Context, branchID, code string) (*Product, error)

	// FindByBarcode busca um produto pelo código de barras
	FindByBarcode(ctx context.Context, branchID, barcode string) (*Product, error)

	// FindByName busca produtos pelo nome
	FindByName(ctx context.Context, branchID, name string, limit, offset int) ([]*Product, error)

	// List lista os produtos de uma filial com paginação
	List(ctx context.Context, branchID string, limit, offset int) ([]*Product, error)

	// ListBelowMinStock lista os produtos com estoque abaixo do mínimo
	ListBelowMinStock(ctx context.Context, branchID string) ([]*Product, error)

	// Update atualiza os dados de um produto existente
	Update(ctx context.Context, p *Product) error

	// UpdateStatus atualiza o status de um produto
	UpdateStatus(ctx context.Context, id string, status Status) error

	// Delete remove um produto
	Delete(ctx context.Context, id string) error

	// CountByBranch conta quantos produtos existem para uma filial
	CountByBranch(ctx context.Context, branchID string) (int, error)
}
