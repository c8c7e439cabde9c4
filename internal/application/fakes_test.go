package application

import (
	"context"
	"sync"

	"github.com/soundvault/vinylstore/internal/domain/entity"
	"github.com/soundvault/vinylstore/internal/domain/repository"
)

// In-memory collaborators shared by the service tests.

type memUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*entity.User
	nextID int64
	err    error // when set, every call fails with it
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[int64]*entity.User{}, nextID: 1}
}

func (r *memUserRepo) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	u.ID = r.nextID
	r.nextID++
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) Update(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, id int64, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = password
	return nil
}

func (r *memUserRepo) List(ctx context.Context) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUserRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	u, ok := r.users[id]
	if !ok || u.Role == entity.RoleAdmin {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type memVinylRepo struct {
	mu     sync.Mutex
	vinyls map[int64]*entity.Vinyl
	nextID int64
	err    error
}

func newMemVinylRepo(vinyls ...*entity.Vinyl) *memVinylRepo {
	r := &memVinylRepo{vinyls: map[int64]*entity.Vinyl{}, nextID: 1}
	for _, v := range vinyls {
		cp := *v
		if cp.ID == 0 {
			cp.ID = r.nextID
		}
		if cp.ID >= r.nextID {
			r.nextID = cp.ID + 1
		}
		r.vinyls[cp.ID] = &cp
	}
	return r
}

func (r *memVinylRepo) Create(ctx context.Context, v *entity.Vinyl) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	v.ID = r.nextID
	r.nextID++
	cp := *v
	r.vinyls[v.ID] = &cp
	return nil
}

func (r *memVinylRepo) GetByID(ctx context.Context, id int64) (*entity.Vinyl, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	v, ok := r.vinyls[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *memVinylRepo) List(ctx context.Context) ([]entity.Vinyl, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]entity.Vinyl, 0, len(r.vinyls))
	for _, v := range r.vinyls {
		out = append(out, *v)
	}
	return out, nil
}

func (r *memVinylRepo) ListAvailable(ctx context.Context) ([]entity.Vinyl, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, v := range all {
		if v.IsAvailable {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *memVinylRepo) Update(ctx context.Context, v *entity.Vinyl) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.vinyls[v.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *v
	r.vinyls[v.ID] = &cp
	return nil
}

func (r *memVinylRepo) UpdateStock(ctx context.Context, id int64, newStock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	v, ok := r.vinyls[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.Stock = newStock
	return nil
}

func (r *memVinylRepo) SetAvailability(ctx context.Context, id int64, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	v, ok := r.vinyls[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.IsAvailable = available
	return nil
}

func (r *memVinylRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.vinyls[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.vinyls, id)
	return nil
}

type memCartRepo struct {
	mu    sync.Mutex
	carts map[int64][]entity.CartItem
	err   error
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: map[int64][]entity.CartItem{}}
}

func (r *memCartRepo) GetByUser(ctx context.Context, userID int64) ([]entity.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	items := r.carts[userID]
	out := make([]entity.CartItem, len(items))
	copy(out, items)
	return out, nil
}

func (r *memCartRepo) ReplaceForUser(ctx context.Context, userID int64, items []entity.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	cp := make([]entity.CartItem, len(items))
	copy(cp, items)
	r.carts[userID] = cp
	return nil
}

func (r *memCartRepo) DeleteForUser(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	delete(r.carts, userID)
	return nil
}

type memOrderRepo struct {
	mu     sync.Mutex
	orders []entity.Order
	nextID int64
	err    error
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{nextID: 1}
}

func (r *memOrderRepo) Create(ctx context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	o.ID = r.nextID
	r.nextID++
	r.orders = append(r.orders, *o)
	return nil
}

func (r *memOrderRepo) ListByUser(ctx context.Context, userID int64) ([]entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []entity.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

type memCartCache struct {
	mu        sync.Mutex
	snapshots map[int64][]entity.CartItem
	err       error
}

func newMemCartCache() *memCartCache {
	return &memCartCache{snapshots: map[int64][]entity.CartItem{}}
}

func (c *memCartCache) Load(ctx context.Context, userID int64) ([]entity.CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	items := c.snapshots[userID]
	out := make([]entity.CartItem, len(items))
	copy(out, items)
	return out, nil
}

func (c *memCartCache) Save(ctx context.Context, userID int64, items []entity.CartItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	cp := make([]entity.CartItem, len(items))
	copy(cp, items)
	c.snapshots[userID] = cp
	return nil
}

func (c *memCartCache) Delete(ctx context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	delete(c.snapshots, userID)
	return nil
}

// recordingNotifier captures dispatched confirmations and can be set to fail.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []OrderConfirmation
	err  error
}

func (n *recordingNotifier) SendOrderConfirmation(ctx context.Context, oc OrderConfirmation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, oc)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}
