// Package memory is a process-local implementation of the repository ports. It backs
// DATA_BACKEND=memory and the service tests; it mirrors the Firestore repositories'
// semantics, including the absence of uniqueness constraints.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/repository"
	"github.com/google/uuid"
)

type row[T any] struct {
	seq int64
	val T
}

// DB holds every collection. The zero value is not usable; call New.
type DB struct {
	mu  sync.Mutex
	seq int64
	now func() time.Time

	users     []row[domain.User]
	stores    []row[domain.Store]
	employees []row[domain.Employee]
	products  []row[domain.Product]
	inventory []row[domain.Inventory]
	movements []row[domain.Movement]
	nested    map[string][]row[domain.Movement]
	settings  map[string]domain.ThemeSettings
}

func New() *DB {
	return &DB{
		now:      time.Now,
		nested:   map[string][]row[domain.Movement]{},
		settings: map[string]domain.ThemeSettings{},
	}
}

// WithClock replaces the time source.
func (d *DB) WithClock(now func() time.Time) *DB {
	d.now = now
	return d
}

func (d *DB) Health(context.Context) error { return nil }

func (d *DB) Close() error { return nil }

func (d *DB) Users() Users         { return Users{d} }
func (d *DB) Stores() Stores       { return Stores{d} }
func (d *DB) Employees() Employees { return Employees{d} }
func (d *DB) Products() Products   { return Products{d} }
func (d *DB) Inventory() Inventory { return Inventory{d} }
func (d *DB) Movements() Movements { return Movements{d} }
func (d *DB) Settings() Settings   { return Settings{d} }

// next must be called with mu held.
func (d *DB) next() (string, int64) {
	d.seq++
	return uuid.NewString(), d.seq
}

type Users struct{ db *DB }

func (r Users) Create(_ context.Context, u domain.User) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	id, seq := r.db.next()
	u.ID = id
	u.CreatedAt = r.db.now()
	u.StoreID = cloneString(u.StoreID)
	r.db.users = append(r.db.users, row[domain.User]{seq: seq, val: u})
	out := u
	return &out, nil
}

func (r Users) FirstByEmail(_ context.Context, email string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rw := range r.db.users {
		if rw.val.Email == email {
			u := rw.val
			u.StoreID = cloneString(u.StoreID)
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r Users) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rw := range r.db.users {
		if rw.val.ID == id {
			u := rw.val
			u.StoreID = cloneString(u.StoreID)
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Count is the number of user documents, duplicates included.
func (r Users) Count() int {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.users)
}

func (r Users) Update(_ context.Context, id string, upd domain.UserUpdate) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.users {
		if r.db.users[i].val.ID != id {
			continue
		}
		if upd.Role != nil {
			r.db.users[i].val.Role = *upd.Role
		}
		if upd.StoreID != nil {
			r.db.users[i].val.StoreID = cloneString(upd.StoreID)
		}
		return nil
	}
	return repository.ErrNotFound
}

type Stores struct{ db *DB }

func (r Stores) Create(_ context.Context, s domain.Store) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	id, seq := r.db.next()
	s.ID = id
	s.CreatedAt = r.db.now()
	r.db.stores = append(r.db.stores, row[domain.Store]{seq: seq, val: s})
	return id, nil
}

func (r Stores) ListByOwner(_ context.Context, ownerEmail string) ([]domain.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	items := []domain.Store{}
	for _, rw := range r.db.stores {
		if rw.val.OwnerEmail == ownerEmail {
			items = append(items, rw.val)
		}
	}
	return items, nil
}

func (r Stores) GetByID(_ context.Context, id string) (*domain.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rw := range r.db.stores {
		if rw.val.ID == id {
			s := rw.val
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

type Employees struct{ db *DB }

func (r Employees) Create(_ context.Context, e domain.Employee) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	id, seq := r.db.next()
	e.ID = id
	e.AddedAt = r.db.now()
	r.db.employees = append(r.db.employees, row[domain.Employee]{seq: seq, val: e})
	return id, nil
}

func (r Employees) ListByStore(_ context.Context, storeID string) ([]domain.Employee, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	items := []domain.Employee{}
	for _, rw := range r.db.employees {
		if rw.val.StoreID == storeID {
			items = append(items, rw.val)
		}
	}
	return items, nil
}

type Products struct{ db *DB }

func (r Products) Create(_ context.Context, p domain.Product) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	id, seq := r.db.next()
	p.ID = id
	p.CreatedAt = r.db.now()
	r.db.products = append(r.db.products, row[domain.Product]{seq: seq, val: p})
	return id, nil
}

func (r Products) ListByStore(_ context.Context, storeID string) ([]domain.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	items := []domain.Product{}
	for _, rw := range r.db.products {
		if rw.val.StoreID == storeID {
			items = append(items, rw.val)
		}
	}
	return items, nil
}

func (r Products) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rw := range r.db.products {
		if rw.val.ID == id {
			p := rw.val
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r Products) Update(_ context.Context, id string, upd domain.ProductUpdate) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.products {
		p := &r.db.products[i].val
		if p.ID != id {
			continue
		}
		if upd.SKU != nil {
			p.SKU = *upd.SKU
		}
		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.Price != nil {
			p.Price = *upd.Price
		}
		if upd.Description != nil {
			p.Description = *upd.Description
		}
		if upd.Active != nil {
			p.Active = *upd.Active
		}
		return nil
	}
	return repository.ErrNotFound
}

type Inventory struct{ db *DB }

func (r Inventory) Find(_ context.Context, productID, storeID string) (*domain.Inventory, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rw := range r.db.inventory {
		if rw.val.ProductID == productID && rw.val.StoreID == storeID {
			inv := rw.val
			return &inv, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r Inventory) Create(_ context.Context, inv domain.Inventory) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	id, seq := r.db.next()
	inv.ID = id
	inv.UpdatedAt = r.db.now()
	r.db.inventory = append(r.db.inventory, row[domain.Inventory]{seq: seq, val: inv})
	return id, nil
}

func (r Inventory) SetQuantity(_ context.Context, id string, quantity int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.inventory {
		if r.db.inventory[i].val.ID == id {
			r.db.inventory[i].val.Quantity = quantity
			r.db.inventory[i].val.UpdatedAt = r.db.now()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r Inventory) ListByStore(_ context.Context, storeID string) ([]domain.Inventory, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	items := []domain.Inventory{}
	for _, rw := range r.db.inventory {
		if rw.val.StoreID == storeID {
			items = append(items, rw.val)
		}
	}
	return items, nil
}

type Movements struct{ db *DB }

func (r Movements) Append(_ context.Context, m domain.Movement) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	id, seq := r.db.next()
	m.ID = id
	m.Timestamp = r.db.now()
	r.db.movements = append(r.db.movements, row[domain.Movement]{seq: seq, val: m})
	return id, nil
}

func (r Movements) ListByStore(_ context.Context, storeID string, limit int) ([]domain.Movement, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var rows []row[domain.Movement]
	for _, rw := range r.db.movements {
		if rw.val.StoreID == storeID {
			rows = append(rows, rw)
		}
	}
	return newestFirst(rows, limit), nil
}

// ListNested reads the per-store subcollection, which only AppendNested writes to.
func (r Movements) ListNested(_ context.Context, storeID string, limit int) ([]domain.Movement, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rows := append([]row[domain.Movement](nil), r.db.nested[storeID]...)
	return newestFirst(rows, limit), nil
}

// AppendNested writes into stores/{storeID}/movements.
func (r Movements) AppendNested(_ context.Context, storeID string, m domain.Movement) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	id, seq := r.db.next()
	m.ID = id
	m.StoreID = storeID
	m.Timestamp = r.db.now()
	r.db.nested[storeID] = append(r.db.nested[storeID], row[domain.Movement]{seq: seq, val: m})
	return id, nil
}

// newestFirst orders by timestamp desc; equal timestamps fall back to insertion order.
func newestFirst(rows []row[domain.Movement], limit int) []domain.Movement {
	sort.SliceStable(rows, func(i, j int) bool {
		ti, tj := rows[i].val.Timestamp, rows[j].val.Timestamp
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return rows[i].seq > rows[j].seq
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	items := make([]domain.Movement, 0, len(rows))
	for _, rw := range rows {
		items = append(items, rw.val)
	}
	return items
}

type Settings struct{ db *DB }

func (r Settings) Get(_ context.Context, storeID string) (*domain.ThemeSettings, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.settings[storeID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := domain.ThemeSettings{
		Palette:  append([]string(nil), s.Palette...),
		DarkMode: cloneBool(s.DarkMode),
		LogoB64:  cloneString(s.LogoB64),
	}
	return &out, nil
}

func (r Settings) Merge(_ context.Context, storeID string, s domain.ThemeSettings) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur := r.db.settings[storeID]
	if s.Palette != nil {
		cur.Palette = append([]string(nil), s.Palette...)
	}
	if s.DarkMode != nil {
		cur.DarkMode = cloneBool(s.DarkMode)
	}
	if s.LogoB64 != nil {
		cur.LogoB64 = cloneString(s.LogoB64)
	}
	r.db.settings[storeID] = cur
	return nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
