package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dmtavares/pdv-varejo/internal/adapter/repository"
	"github.com/dmtavares/pdv-varejo/internal/domain/product"
)

// ProductRepository implementa product.Repository em memória
type ProductRepository struct {
	store *Store
}

// NewProductRepository cria um repositório de produtos sobre o Store
func NewProductRepository(store *Store) product.Repository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.products {
		if existing.BranchID == p.BranchID && existing.Code == p.Code {
			return repository.ErrProductDuplicateKey
		}
	}

	clone := *p
	r.store.products[p.ID] = &clone
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	clone := *p
	return &clone, nil
}

func (r *ProductRepository) FindByCode(ctx context.Context, branchID, code string) (*product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.products {
		if p.BranchID == branchID && p.Code == code {
			clone := *p
			return &clone, nil
		}
	}

	return nil, repository.ErrProductNotFound
}

func (r *ProductRepository) FindByBarcode(ctx context.Context, branchID, barcode string) (*product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.products {
		if p.BranchID == branchID && p.Barcode == barcode {
			clone := *p
			return &clone, nil
		}
	}

	return nil, repository.ErrProductNotFound
}

func (r *ProductRepository) FindByName(ctx context.Context, branchID, name string, limit, offset int) ([]*product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]*product.Product, 0)
	for _, p := range r.store.products {
		if p.BranchID == branchID && strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			clone := *p
			matched = append(matched, &clone)
		}
	}

	return paginateProducts(matched, limit, offset), nil
}

func (r *ProductRepository) List(ctx context.Context, branchID string, limit, offset int) ([]*product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]*product.Product, 0)
	for _, p := range r.store.products {
		if p.BranchID == branchID {
			clone := *p
			matched = append(matched, &clone)
		}
	}

	return paginateProducts(matched, limit, offset), nil
}

func (r *ProductRepository) ListBelowMinStock(ctx context.Context, branchID string) ([]*product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]*product.Product, 0)
	for _, p := range r.store.products {
		if p.BranchID == branchID && p.IsBelowMinStock() && p.IsActive() {
			clone := *p
			matched = append(matched, &clone)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return matched, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.products[p.ID]
	if !ok {
		return repository.ErrProductNotFound
	}

	clone := *p
	clone.Stock = existing.Stock // estoque só muda via movimentação ou venda
	r.store.products[p.ID] = &clone
	return nil
}

func (r *ProductRepository) UpdateStatus(ctx context.Context, id string, status product.Status) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}

	p.Status = status
	p.UpdatedAt = time.Now()
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[id]; !ok {
		return repository.ErrProductNotFound
	}

	delete(r.store.products, id)
	return nil
}

func (r *ProductRepository) CountByBranch(ctx context.Context, branchID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, p := range r.store.products {
		if p.BranchID == branchID {
			count++
		}
	}

	return count, nil
}

func paginateProducts(products []*product.Product, limit, offset int) []*product.Product {
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })

	if offset >= len(products) {
		return []*product.Product{}
	}

	end := offset + limit
	if limit <= 0 || end > len(products) {
		end = len(products)
	}

	return products[offset:end]
}
