package memory

import (
	"context"
	"sort"
	"time"

	"github.com/dmtavares/pdv-varejo/internal/adapter/repository"
	"github.com/dmtavares/pdv-varejo/internal/domain/payment"
)

// PaymentRepository implementa payment.Repository em memória
type PaymentRepository struct {
	store *Store
}

// NewPaymentRepository cria um repositório de pagamentos sobre o Store
func NewPaymentRepository(store *Store) payment.Repository {
	return &PaymentRepository{store: store}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	clone := *p
	r.store.payments[p.ID] = &clone
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*payment.Payment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.payments[id]
	if !ok {
		return nil, repository.ErrPaymentNotFound
	}

	clone := *p
	return &clone, nil
}

func (r *PaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.payments {
		if p.TransactionID == transactionID && transactionID != "" {
			clone := *p
			return &clone, nil
		}
	}

	return nil, repository.ErrPaymentNotFound
}

func (r *PaymentRepository) FindByCorrelationID(ctx context.Context, correlationID string) (*payment.Payment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.payments {
		if p.CorrelationID == correlationID && correlationID != "" {
			clone := *p
			return &clone, nil
		}
	}

	return nil, repository.ErrPaymentNotFound
}

func (r *PaymentRepository) FindBySale(ctx context.Context, saleID string) ([]*payment.Payment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]*payment.Payment, 0)
	for _, p := range r.store.payments {
		if p.SaleID == saleID {
			clone := *p
			matched = append(matched, &clone)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })
	return matched, nil
}

func (r *PaymentRepository) ListPending(ctx context.Context, method payment.Method, since time.Time) ([]*payment.Payment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]*payment.Payment, 0)
	for _, p := range r.store.payments {
		if p.Method == method && p.Status == payment.StatusPending && !p.CreatedAt.Before(since) {
			clone := *p
			matched = append(matched, &clone)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })
	return matched, nil
}

func (r *PaymentRepository) Confirm(ctx context.Context, p *payment.Payment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.payments[p.ID]
	if !ok {
		return repository.ErrPaymentNotFound
	}

	existing.Status = p.Status
	existing.ConfirmedAt = p.ConfirmedAt
	existing.Notes = p.Notes
	existing.StatusDetail = p.StatusDetail
	return nil
}
