package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dmtavares/pdv-varejo/internal/adapter/repository"
	"github.com/dmtavares/pdv-varejo/internal/domain/customer"
)

// CustomerRepository implementa customer.Repository em memória
type CustomerRepository struct {
	store *Store
}

// NewCustomerRepository cria um repositório de clientes sobre o Store
func NewCustomerRepository(store *Store) customer.Repository {
	return &CustomerRepository{store: store}
}

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.customers {
		if existing.BranchID == c.BranchID && existing.Document == c.Document {
			return repository.ErrCustomerDuplicateKey
		}
	}

	clone := *c
	r.store.customers[c.ID] = &clone
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.customers[id]
	if !ok {
		return nil, repository.ErrCustomerNotFound
	}

	clone := *c
	return &clone, nil
}

func (r *CustomerRepository) FindByDocument(ctx context.Context, branchID, document string) (*customer.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, c := range r.store.customers {
		if c.BranchID == branchID && c.Document == document {
			clone := *c
			return &clone, nil
		}
	}

	return nil, repository.ErrCustomerNotFound
}

func (r *CustomerRepository) FindByName(ctx context.Context, branchID, name string, limit, offset int) ([]*customer.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]*customer.Customer, 0)
	for _, c := range r.store.customers {
		if c.BranchID == branchID && strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			clone := *c
			matched = append(matched, &clone)
		}
	}

	return paginateCustomers(matched, limit, offset), nil
}

func (r *CustomerRepository) List(ctx context.Context, branchID string, limit, offset int) ([]*customer.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]*customer.Customer, 0)
	for _, c := range r.store.customers {
		if c.BranchID == branchID {
			clone := *c
			matched = append(matched, &clone)
		}
	}

	return paginateCustomers(matched, limit, offset), nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.customers[c.ID]; !ok {
		return repository.ErrCustomerNotFound
	}

	clone := *c
	r.store.customers[c.ID] = &clone
	return nil
}

func (r *CustomerRepository) UpdateStatus(ctx context.Context, id string, status customer.Status) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.customers[id]
	if !ok {
		return repository.ErrCustomerNotFound
	}

	c.Status = status
	c.UpdatedAt = time.Now()
	return nil
}

func (r *CustomerRepository) UpdateLastPurchase(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.customers[id]
	if !ok {
		return repository.ErrCustomerNotFound
	}

	now := time.Now()
	c.LastPurchaseAt = &now
	c.UpdatedAt = now
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.customers[id]; !ok {
		return repository.ErrCustomerNotFound
	}

	delete(r.store.customers, id)
	return nil
}

func (r *CustomerRepository) CountByBranch(ctx context.Context, branchID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, c := range r.store.customers {
		if c.BranchID == branchID {
			count++
		}
	}

	return count, nil
}

func paginateCustomers(customers []*customer.Customer, limit, offset int) []*customer.Customer {
	sort.Slice(customers, func(i, j int) bool { return customers[i].Name < customers[j].Name })

	if offset >= len(customers) {
		return []*customer.Customer{}
	}

	end := offset + limit
	if limit <= 0 || end > len(customers) {
		end = len(customers)
	}

	return customers[offset:end]
}
