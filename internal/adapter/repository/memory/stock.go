package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/dmtavares/pdv-varejo/internal/adapter/repository"
	"github.com/dmtavares/pdv-varejo/internal/domain/stock"
)

// StockRepository implementa stock.Repository em memória
type StockRepository struct {
	store *Store
}

// NewStockRepository cria um repositório de movimentações sobre o Store
func NewStockRepository(store *Store) stock.Repository {
	return &StockRepository{store: store}
}

func (r *StockRepository) Apply(ctx context.Context, m *stock.Movement) (*stock.Movement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.products[m.ProductID]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	newStock := p.Stock
	switch m.Type {
	case stock.TypeIn:
		newStock = p.Stock + m.Quantity
	case stock.TypeOut:
		newStock = p.Stock - m.Quantity
	case stock.TypeAdjustment:
		newStock = m.Quantity
	}

	if newStock < 0 {
		return nil, fmt.Errorf("%w: disponível %d, solicitado %d",
			repository.ErrInsufficientStock, p.Stock, m.Quantity)
	}

	m.PrevStock = p.Stock
	m.NewStock = newStock
	p.Stock = newStock
	p.UpdatedAt = time.Now()

	clone := *m
	r.store.movements = append(r.store.movements, &clone)

	return m, nil
}

func (r *StockRepository) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*stock.Movement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]*stock.Movement, 0)
	for i := len(r.store.movements) - 1; i >= 0; i-- {
		if r.store.movements[i].ProductID == productID {
			clone := *r.store.movements[i]
			matched = append(matched, &clone)
		}
	}

	return paginateMovements(matched, limit, offset), nil
}

func (r *StockRepository) ListByPeriod(ctx context.Context, branchID string, from, to time.Time, limit, offset int) ([]*stock.Movement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]*stock.Movement, 0)
	for i := len(r.store.movements) - 1; i >= 0; i-- {
		m := r.store.movements[i]
		if m.BranchID == branchID && !m.CreatedAt.Before(from) && !m.CreatedAt.After(to) {
			clone := *m
			matched = append(matched, &clone)
		}
	}

	return paginateMovements(matched, limit, offset), nil
}

func paginateMovements(movements []*stock.Movement, limit, offset int) []*stock.Movement {
	if offset >= len(movements) {
		return []*stock.Movement{}
	}

	end := offset + limit
	if limit <= 0 || end > len(movements) {
		end = len(movements)
	}

	return movements[offset:end]
}
