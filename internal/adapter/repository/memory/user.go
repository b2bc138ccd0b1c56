package memory

import (
	"context"
	"sort"
	"time"

	"github.com/dmtavares/pdv-varejo/internal/adapter/repository"
	"github.com/dmtavares/pdv-varejo/internal/domain/user"
)

// UserRepository implementa user.Repository em memória
type UserRepository struct {
	store *Store
}

// NewUserRepository cria um repositório de usuários sobre o Store
func NewUserRepository(store *Store) user.Repository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if existing.Email == u.Email {
			return repository.ErrUserDuplicateKey
		}
	}

	clone := *u
	r.store.users[u.ID] = &clone
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	clone := *u
	return &clone, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *UserRepository) List(ctx context.Context, branchID string, limit, offset int) ([]*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]*user.User, 0)
	for _, u := range r.store.users {
		if u.BranchID == branchID {
			clone := *u
			matched = append(matched, &clone)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	if offset >= len(matched) {
		return []*user.User{}, nil
	}

	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}

	return matched[offset:end], nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[u.ID]; !ok {
		return repository.ErrUserNotFound
	}

	clone := *u
	r.store.users[u.ID] = &clone
	return nil
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status user.Status) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}

	u.Status = status
	u.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}

	u.LastLoginAt = time.Now()
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[id]; !ok {
		return repository.ErrUserNotFound
	}

	delete(r.store.users, id)
	return nil
}
