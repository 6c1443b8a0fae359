// Package memory provides an in-memory implementation of the storage
// interfaces. It is safe for concurrent use and is primarily intended for
// tests and local development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocktrack/stocktrack/internal/app/domain/category"
	"github.com/stocktrack/stocktrack/internal/app/domain/product"
	"github.com/stocktrack/stocktrack/internal/app/domain/session"
	"github.com/stocktrack/stocktrack/internal/app/domain/stats"
	"github.com/stocktrack/stocktrack/internal/app/domain/supplier"
	"github.com/stocktrack/stocktrack/internal/app/domain/user"
	"github.com/stocktrack/stocktrack/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces.
type Store struct {
	mu          sync.RWMutex
	nextSeq     int64
	users       map[string]user.User
	usersByName map[string]string
	sessions    map[string]session.Session
	categories  map[string]category.Category
	suppliers   map[string]supplier.Supplier
	products    map[string]product.Product
	productSeq  map[string]int64
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.SessionStore = (*Store)(nil)
var _ storage.CategoryStore = (*Store)(nil)
var _ storage.SupplierStore = (*Store)(nil)
var _ storage.ProductStore = (*Store)(nil)
var _ storage.StatsStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		users:       make(map[string]user.User),
		usersByName: make(map[string]string),
		sessions:    make(map[string]session.Session),
		categories:  make(map[string]category.Category),
		suppliers:   make(map[string]supplier.Supplier),
		products:    make(map[string]product.Product),
		productSeq:  make(map[string]int64),
	}
}

// UserStore implementation ----------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return user.User{}, storage.ErrConflict
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()

	s.users[u.ID] = u
	s.usersByName[u.Username] = u.ID
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByName[username]
	if !ok {
		return user.User{}, storage.ErrNotFound
	}
	return s.users[id], nil
}

// SessionStore implementation -------------------------------------------------

func (s *Store) CreateSession(_ context.Context, sess session.Session) (session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	sess.CreatedAt = time.Now().UTC()

	s.sessions[sess.TokenHash] = sess
	return sess, nil
}

func (s *Store) GetSessionByTokenHash(_ context.Context, tokenHash string) (session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[tokenHash]
	if !ok {
		return session.Session{}, storage.ErrNotFound
	}
	return sess, nil
}

func (s *Store) DeleteSession(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, tokenHash)
	return nil
}

// CategoryStore implementation ------------------------------------------------

func (s *Store) CreateCategory(_ context.Context, c category.Category) (category.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if existing.Name == c.Name {
			return category.Category{}, storage.ErrConflict
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) UpdateCategory(_ context.Context, c category.Category) (category.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.categories[c.ID]
	if !ok {
		return category.Category{}, storage.ErrNotFound
	}
	for id, existing := range s.categories {
		if id != c.ID && existing.Name == c.Name {
			return category.Category{}, storage.ErrConflict
		}
	}

	c.CreatedAt = original.CreatedAt
	c.UpdatedAt = time.Now().UTC()

	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) GetCategory(_ context.Context, id string) (category.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return category.Category{}, storage.ErrNotFound
	}
	return c, nil
}

func (s *Store) ListCategories(_ context.Context) ([]category.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]category.Category, 0, len(s.categories))
	for _, c := range s.categories {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

// SupplierStore implementation ------------------------------------------------

func (s *Store) CreateSupplier(_ context.Context, sup supplier.Supplier) (supplier.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sup.ID == "" {
		sup.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	sup.CreatedAt = now
	sup.UpdatedAt = now

	s.suppliers[sup.ID] = sup
	return sup, nil
}

func (s *Store) UpdateSupplier(_ context.Context, sup supplier.Supplier) (supplier.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.suppliers[sup.ID]
	if !ok {
		return supplier.Supplier{}, storage.ErrNotFound
	}

	sup.CreatedAt = original.CreatedAt
	sup.UpdatedAt = time.Now().UTC()

	s.suppliers[sup.ID] = sup
	return sup, nil
}

func (s *Store) GetSupplier(_ context.Context, id string) (supplier.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sup, ok := s.suppliers[id]
	if !ok {
		return supplier.Supplier{}, storage.ErrNotFound
	}
	return sup, nil
}

func (s *Store) ListSuppliers(_ context.Context) ([]supplier.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]supplier.Supplier, 0, len(s.suppliers))
	for _, sup := range s.suppliers {
		result = append(result, sup)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *Store) DeleteSupplier(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.suppliers[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.suppliers, id)
	return nil
}

// ProductStore implementation -------------------------------------------------

func (s *Store) CreateProduct(_ context.Context, p product.Product) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkRefsLocked(p); err != nil {
		return product.Product{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.DateAdded = now
	p.CreatedAt = now
	p.UpdatedAt = now

	s.nextSeq++
	s.productSeq[p.ID] = s.nextSeq
	s.products[p.ID] = p
	return s.joinLocked(p), nil
}

func (s *Store) UpdateProduct(_ context.Context, p product.Product) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.products[p.ID]
	if !ok {
		return product.Product{}, storage.ErrNotFound
	}
	if err := s.checkRefsLocked(p); err != nil {
		return product.Product{}, err
	}

	p.DateAdded = original.DateAdded
	p.CreatedAt = original.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	s.products[p.ID] = p
	return s.joinLocked(p), nil
}

func (s *Store) GetProduct(_ context.Context, id string) (product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return product.Product{}, storage.ErrNotFound
	}
	return s.joinLocked(p), nil
}

func (s *Store) ListProducts(_ context.Context, filter product.Filter) ([]product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []product.Product
	for _, p := range s.products {
		if filter.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != filter.CategoryID) {
			continue
		}
		if filter.LowStock && !p.LowStock() {
			continue
		}
		result = append(result, s.joinLocked(p))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].DateAdded.Equal(result[j].DateAdded) {
			return result[i].DateAdded.After(result[j].DateAdded)
		}
		return s.productSeq[result[i].ID] > s.productSeq[result[j].ID]
	})
	return result, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.products, id)
	delete(s.productSeq, id)
	return nil
}

func (s *Store) CountProductsByCategory(_ context.Context, categoryID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (s *Store) CountProductsBySupplier(_ context.Context, supplierID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.products {
		if p.SupplierID != nil && *p.SupplierID == supplierID {
			count++
		}
	}
	return count, nil
}

// checkRefsLocked rejects dangling category or supplier references, matching
// the postgres foreign keys. Callers must hold the lock.
func (s *Store) checkRefsLocked(p product.Product) error {
	if p.CategoryID != nil {
		if _, ok := s.categories[*p.CategoryID]; !ok {
			return storage.ErrInvalidReference
		}
	}
	if p.SupplierID != nil {
		if _, ok := s.suppliers[*p.SupplierID]; !ok {
			return storage.ErrInvalidReference
		}
	}
	return nil
}

// joinLocked fills the denormalized display names. Callers must hold the lock.
func (s *Store) joinLocked(p product.Product) product.Product {
	p.CategoryName = nil
	p.SupplierName = nil
	if p.CategoryID != nil {
		if c, ok := s.categories[*p.CategoryID]; ok {
			name := c.Name
			p.CategoryName = &name
		}
	}
	if p.SupplierID != nil {
		if sup, ok := s.suppliers[*p.SupplierID]; ok {
			name := sup.Name
			p.SupplierName = &name
		}
	}
	return p
}

// StatsStore implementation ---------------------------------------------------

func (s *Store) CollectStats(_ context.Context) (stats.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := stats.Summary{
		TotalProducts:   len(s.products),
		TotalCategories: len(s.categories),
		TotalSuppliers:  len(s.suppliers),
	}
	total := decimal.Zero
	for _, p := range s.products {
		if p.LowStock() {
			summary.LowStockProducts++
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	summary.TotalStockValue = total.Round(2)
	return summary, nil
}
