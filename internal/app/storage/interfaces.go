package storage

import (
	"context"
	"errors"

	"github.com/stocktrack/stocktrack/internal/app/domain/category"
	"github.com/stocktrack/stocktrack/internal/app/domain/product"
	"github.com/stocktrack/stocktrack/internal/app/domain/session"
	"github.com/stocktrack/stocktrack/internal/app/domain/stats"
	"github.com/stocktrack/stocktrack/internal/app/domain/supplier"
	"github.com/stocktrack/stocktrack/internal/app/domain/user"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a write violates a uniqueness constraint.
var ErrConflict = errors.New("record conflicts with an existing record")

// ErrInvalidReference is returned when a write references a category or
// supplier that does not exist.
var ErrInvalidReference = errors.New("record references a missing record")

// UserStore persists registered users.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
}

// SessionStore persists login sessions keyed by hashed token.
type SessionStore interface {
	CreateSession(ctx context.Context, s session.Session) (session.Session, error)
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (session.Session, error)
	DeleteSession(ctx context.Context, tokenHash string) error
}

// CategoryStore persists product categories.
type CategoryStore interface {
	CreateCategory(ctx context.Context, c category.Category) (category.Category, error)
	UpdateCategory(ctx context.Context, c category.Category) (category.Category, error)
	GetCategory(ctx context.Context, id string) (category.Category, error)
	ListCategories(ctx context.Context) ([]category.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// SupplierStore persists suppliers.
type SupplierStore interface {
	CreateSupplier(ctx context.Context, s supplier.Supplier) (supplier.Supplier, error)
	UpdateSupplier(ctx context.Context, s supplier.Supplier) (supplier.Supplier, error)
	GetSupplier(ctx context.Context, id string) (supplier.Supplier, error)
	ListSuppliers(ctx context.Context) ([]supplier.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error
}

// ProductStore persists products. Reads return rows joined with the category
// and supplier display names.
type ProductStore interface {
	CreateProduct(ctx context.Context, p product.Product) (product.Product, error)
	UpdateProduct(ctx context.Context, p product.Product) (product.Product, error)
	GetProduct(ctx context.Context, id string) (product.Product, error)
	ListProducts(ctx context.Context, filter product.Filter) ([]product.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	CountProductsByCategory(ctx context.Context, categoryID string) (int, error)
	CountProductsBySupplier(ctx context.Context, supplierID string) (int, error)
}

// StatsStore derives inventory aggregates.
type StatsStore interface {
	CollectStats(ctx context.Context) (stats.Summary, error)
}
