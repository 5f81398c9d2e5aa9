// Package memstore mantém usuários e operações em memória, para desenvolvimento e testes.
// Os dados se perdem ao encerrar o processo.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/diillson/cotizai-api/internal/domain/model"
	"github.com/diillson/cotizai-api/internal/domain/repository"
)

// UserRepository implementa repository.UserRepository em memória
type UserRepository struct {
	mu     sync.RWMutex
	users  []*model.User
	nextID uint
	now    func() time.Time
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{nextID: 1, now: time.Now}
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		clone := *r.users[i]
		return &clone, nil
	}
	return nil, repository.ErrUserNotFound
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		users = append(users, &clone)
	}
	return users, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username {
			return repository.ErrUserExists
		}
	}

	now := r.now()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.nextID++

	clone := *user
	r.users = append(r.users, &clone)
	return nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(user.ID)
	if i < 0 {
		return repository.ErrUserNotFound
	}
	for _, u := range r.users {
		if u.Username == user.Username && u.ID != user.ID {
			return repository.ErrUserExists
		}
	}

	clone := *user
	clone.CreatedAt = r.users[i].CreatedAt
	clone.UpdatedAt = r.now()
	r.users[i] = &clone
	user.UpdatedAt = clone.UpdatedAt
	return nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return repository.ErrUserNotFound
	}
	r.users = append(r.users[:i], r.users[i+1:]...)
	return nil
}

func (r *UserRepository) indexOf(id uint) int {
	for i, u := range r.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// OperacionRepository implementa repository.OperacionRepository em memória
type OperacionRepository struct {
	mu          sync.RWMutex
	operaciones []*model.Operacion
	nextID      uint
	now         func() time.Time
}

var _ repository.OperacionRepository = (*OperacionRepository)(nil)

func NewOperacionRepository() *OperacionRepository {
	return &OperacionRepository{nextID: 1, now: time.Now}
}

func (r *OperacionRepository) CreateOperacion(ctx context.Context, op *model.Operacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	op.ID = r.nextID
	if op.CreatedAt.IsZero() {
		op.CreatedAt = now
	}
	op.UpdatedAt = now
	r.nextID++

	r.operaciones = append(r.operaciones, cloneOperacion(op))
	return nil
}

func (r *OperacionRepository) GetOperacionByID(ctx context.Context, id uint) (*model.Operacion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return cloneOperacion(r.operaciones[i]), nil
	}
	return nil, repository.ErrOperacionNotFound
}

func (r *OperacionRepository) UpdateOperacion(ctx context.Context, op *model.Operacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(op.ID)
	if i < 0 {
		return repository.ErrOperacionNotFound
	}

	updated := cloneOperacion(op)
	updated.CreatedAt = r.operaciones[i].CreatedAt
	updated.UpdatedAt = r.now()
	r.operaciones[i] = updated
	op.UpdatedAt = updated.UpdatedAt
	return nil
}

func (r *OperacionRepository) DeleteOperacion(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return repository.ErrOperacionNotFound
	}
	r.operaciones = append(r.operaciones[:i], r.operaciones[i+1:]...)
	return nil
}

func (r *OperacionRepository) ListOperaciones(ctx context.Context, filter repository.OperacionFilter) ([]*model.Operacion, int64, error) {
	r.mu.RLock()
	matched := make([]*model.Operacion, 0, len(r.operaciones))
	for _, op := range r.operaciones {
		if filter.Area == "" || op.Area == filter.Area {
			matched = append(matched, cloneOperacion(op))
		}
	}
	r.mu.RUnlock()

	sortNewestFirst(matched)

	total := int64(len(matched))
	start := filter.Offset
	if start < 0 {
		start = 0
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filter.Limit > 0 && filter.Limit < end-start {
		end = start + filter.Limit
	}
	return matched[start:end], total, nil
}

func (r *OperacionRepository) ListOperacionesByUserID(ctx context.Context, userID uint) ([]*model.Operacion, error) {
	r.mu.RLock()
	var ops []*model.Operacion
	for _, op := range r.operaciones {
		if op.UserID == userID {
			ops = append(ops, cloneOperacion(op))
		}
	}
	r.mu.RUnlock()

	sortNewestFirst(ops)
	return ops, nil
}

func (r *OperacionRepository) DistinctAreas(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	areas := make([]string, 0)
	for _, op := range r.operaciones {
		if op.Area == "" {
			continue
		}
		if _, ok := seen[op.Area]; ok {
			continue
		}
		seen[op.Area] = struct{}{}
		areas = append(areas, op.Area)
	}
	sort.Strings(areas)
	return areas, nil
}

func (r *OperacionRepository) CountOperaciones(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.operaciones)), nil
}

func (r *OperacionRepository) indexOf(id uint) int {
	for i, op := range r.operaciones {
		if op.ID == id {
			return i
		}
	}
	return -1
}

func sortNewestFirst(ops []*model.Operacion) {
	sort.SliceStable(ops, func(i, j int) bool {
		if !ops[i].CreatedAt.Equal(ops[j].CreatedAt) {
			return ops[i].CreatedAt.After(ops[j].CreatedAt)
		}
		return ops[i].ID > ops[j].ID
	})
}

func cloneOperacion(op *model.Operacion) *model.Operacion {
	clone := *op
	if op.Data != nil {
		clone.Data = append([]byte(nil), op.Data...)
	}
	return &clone
}
