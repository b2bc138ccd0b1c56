package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/dmtavares/pdv-varejo/internal/adapter/repository"
	"github.com/dmtavares/pdv-varejo/internal/domain/sale"
	"github.com/dmtavares/pdv-varejo/internal/domain/stock"
)

// SaleRepository implementa sale.Repository em memória. O mutex do Store
// faz o papel da transação: criação e cancelamento são atômicos.
type SaleRepository struct {
	store *Store
}

// NewSaleRepository cria um repositório de vendas sobre o Store
func NewSaleRepository(store *Store) sale.Repository {
	return &SaleRepository{store: store}
}

func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Verificação de estoque de todos os itens antes de qualquer escrita
	for i := range s.Items {
		item := &s.Items[i]

		p, ok := r.store.products[item.ProductID]
		if !ok {
			return fmt.Errorf("%w: produto %s", repository.ErrProductNotFound, item.ProductID)
		}

		if p.Stock < item.Quantity {
			return fmt.Errorf("%w: produto %s, disponível %d, solicitado %d",
				repository.ErrInsufficientStock, p.Name, p.Stock, item.Quantity)
		}

		item.ProductName = p.Name
		if p.Code != "" {
			item.ProductCode = p.Code
		}
		if p.Barcode != "" {
			item.Barcode = p.Barcode
		}
	}

	s.Number = r.store.nextSaleNumber()
	reference := "venda " + strconv.FormatInt(s.Number, 10)

	for _, item := range s.Items {
		p := r.store.products[item.ProductID]

		movement, err := stock.NewMovement(item.ProductID, s.BranchID,
			stock.TypeOut, item.Quantity, stock.ReasonSale, reference, s.UserID)
		if err != nil {
			return err
		}
		movement.PrevStock = p.Stock
		movement.NewStock = p.Stock - item.Quantity

		p.Stock -= item.Quantity
		r.store.movements = append(r.store.movements, movement)
	}

	clone := *s
	clone.Items = append([]sale.Item(nil), s.Items...)
	r.store.sales[s.ID] = &clone

	return nil
}

func (r *SaleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.sales[id]
	if !ok {
		return nil, repository.ErrSaleNotFound
	}

	return cloneSale(s), nil
}

func (r *SaleRepository) List(ctx context.Context, branchID string, limit, offset int) ([]*sale.Sale, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]*sale.Sale, 0)
	for _, s := range r.store.sales {
		if s.BranchID == branchID {
			matched = append(matched, cloneSale(s))
		}
	}

	return paginateSales(matched, limit, offset), nil
}

func (r *SaleRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*sale.Sale, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]*sale.Sale, 0)
	for _, s := range r.store.sales {
		if s.CustomerID == customerID {
			matched = append(matched, cloneSale(s))
		}
	}

	return paginateSales(matched, limit, offset), nil
}

func (r *SaleRepository) Cancel(ctx context.Context, id, userID string) (*sale.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s, ok := r.store.sales[id]
	if !ok {
		return nil, repository.ErrSaleNotFound
	}

	if err := s.Cancel(); err != nil {
		return nil, err
	}

	reference := "venda " + strconv.FormatInt(s.Number, 10)

	for _, item := range s.Items {
		p, ok := r.store.products[item.ProductID]
		if !ok {
			continue
		}

		movement, err := stock.NewMovement(item.ProductID, s.BranchID,
			stock.TypeIn, item.Quantity, stock.ReasonSaleCancellation,
			reference, userID)
		if err != nil {
			return nil, err
		}
		movement.PrevStock = p.Stock
		movement.NewStock = p.Stock + item.Quantity

		p.Stock += item.Quantity
		r.store.movements = append(r.store.movements, movement)
	}

	return cloneSale(s), nil
}

func (r *SaleRepository) CountByBranch(ctx context.Context, branchID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, s := range r.store.sales {
		if s.BranchID == branchID {
			count++
		}
	}

	return count, nil
}

func cloneSale(s *sale.Sale) *sale.Sale {
	clone := *s
	clone.Items = append([]sale.Item(nil), s.Items...)
	return &clone
}

func paginateSales(sales []*sale.Sale, limit, offset int) []*sale.Sale {
	sort.Slice(sales, func(i, j int) bool { return sales[i].Number > sales[j].Number })

	if offset >= len(sales) {
		return []*sale.Sale{}
	}

	end := offset + limit
	if limit <= 0 || end > len(sales) {
		end = len(sales)
	}

	return sales[offset:end]
}
