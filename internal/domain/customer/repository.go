package customer

import (
	"context"
)

// Repository define a interface para operações de repositório de clientes
type Repository interface {
	// Create cria um novo cliente
	Create(ctx context.Context, c *Customer) error

	// FindByID busca um cliente pelo ID
	FindByID(ctx context.Context, id string) (*Customer, error)

	// FindByDocument busca um cliente pelo documento (CPF/CNPJ)
	FindByDocument(ctx context.Context, branchID, document string) (*Customer, error)

	// FindByName busca clientes pelo nome
	FindByName(ctx context.Context, branchID, name string, limit, offset int) ([]*Customer, error)

	// List lista os clientes de uma filial com paginação
	List(ctx context.Context, branchID string, limit, offset int) ([]*Customer, error)

	// Update atualiza os dados de um cliente existente
	Update(ctx context.Context, c *Customer) error

	// UpdateStatus atualiza o status de um cliente
	UpdateStatus(ctx context.Context, id string, status Status) error

	// UpdateLastPurchase atualiza a data da última compra do cliente
	UpdateLastPurchase(ctx context.Context, id string) error

	// Delete remove um cliente
	Delete(ctx context.Context, id string) error

	// CountByBranch conta quantos clientes existem para uma filial
	CountByBranch(ctx context.Context, branchID string) (int, error)
}
