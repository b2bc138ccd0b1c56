package payment

import (
	"context"
	"time"
)

// Repository define a interface para operações de repositório de pagamentos
type Repository interface {
	// Create cria um novo registro de pagamento
	Create(ctx context.Context, p *Payment) error

	// FindByID busca um pagamento pelo ID interno
	FindByID(ctx context.Context, id string) (*Payment, error)

	// FindByTransactionID busca um pagamento pelo ID da transação no
	// processador
	FindByTransactionID(ctx context.Context, transactionID string) (*Payment, error)

	// FindByCorrelationID busca um pagamento pela referência externa
	// enviada ao processador
	FindByCorrelationID(ctx context.Context, correlationID string) (*Payment, error)

	// FindBySale lista os pagamentos de uma venda
	FindBySale(ctx context.Context, saleID string) ([]*Payment, error)

	// ListPending lista os pagamentos pendentes de uma modalidade
	// criados a partir de um instante
	ListPending(ctx context.Context, method Method, since time.Time) ([]*Payment, error)

	// Confirm marca o pagamento como confirmado, gravando a data da
	// confirmação e a nota de auditoria. Retorna ErrPaymentNotFound se
	// não houver registro.
	Confirm(ctx context.Context, p *Payment) error
}
