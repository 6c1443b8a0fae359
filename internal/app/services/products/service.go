// Package products implements the product manager. All reads return products
// joined with their category and supplier display names.
package products

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/stocktrack/stocktrack/internal/app/domain/product"
	"github.com/stocktrack/stocktrack/internal/app/storage"
	"github.com/stocktrack/stocktrack/internal/errors"
	"github.com/stocktrack/stocktrack/pkg/logger"
)

// Service manages products.
type Service struct {
	store storage.ProductStore
	log   *logger.Logger
}

// New constructs a product service.
func New(store storage.ProductStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("products")
	}
	return &Service{store: store, log: log}
}

// List returns products matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter product.Filter) ([]product.Product, error) {
	list, err := s.store.ListProducts(ctx, filter)
	if err != nil {
		return nil, errors.Internal("", err)
	}
	if list == nil {
		list = []product.Product{}
	}
	return list, nil
}

// Create registers a new product and returns it joined with display names.
func (s *Service) Create(ctx context.Context, name, categoryID, supplierID string, quantity int, price decimal.Decimal) (product.Product, error) {
	if err := validate(name, categoryID, supplierID, quantity, price); err != nil {
		return product.Product{}, err
	}

	created, err := s.store.CreateProduct(ctx, product.Product{
		Name:       name,
		CategoryID: &categoryID,
		SupplierID: &supplierID,
		Quantity:   quantity,
		Price:      price.Round(2),
	})
	if err != nil {
		if err == storage.ErrInvalidReference {
			return product.Product{}, errors.Validation("Invalid category or supplier reference")
		}
		return product.Product{}, errors.Internal("", err)
	}
	s.log.Infof("product %s created", created.ID)
	return created, nil
}

// Update full-replaces all product fields and returns the joined record.
func (s *Service) Update(ctx context.Context, id, name, categoryID, supplierID string, quantity int, price decimal.Decimal) (product.Product, error) {
	if err := validate(name, categoryID, supplierID, quantity, price); err != nil {
		return product.Product{}, err
	}

	updated, err := s.store.UpdateProduct(ctx, product.Product{
		ID:         id,
		Name:       name,
		CategoryID: &categoryID,
		SupplierID: &supplierID,
		Quantity:   quantity,
		Price:      price.Round(2),
	})
	if err != nil {
		switch err {
		case storage.ErrNotFound:
			return product.Product{}, errors.NotFound("Product not found")
		case storage.ErrInvalidReference:
			return product.Product{}, errors.Validation("Invalid category or supplier reference")
		}
		return product.Product{}, errors.Internal("", err)
	}
	s.log.Infof("product %s updated", id)
	return updated, nil
}

// Delete removes a product. Products are the leaf of the reference graph, so
// no referential guard applies.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		if err == storage.ErrNotFound {
			return errors.NotFound("Product not found")
		}
		return errors.Internal("", err)
	}
	s.log.Infof("product %s deleted", id)
	return nil
}

func validate(name, categoryID, supplierID string, quantity int, price decimal.Decimal) error {
	if name == "" || categoryID == "" || supplierID == "" {
		return errors.Validation("Product name, category and supplier are required")
	}
	if quantity < 0 {
		return errors.Validation("Quantity cannot be negative")
	}
	if price.IsNegative() {
		return errors.Validation("Price cannot be negative")
	}
	return nil
}
