// Package suppliers implements the supplier manager.
package suppliers

import (
	"context"

	"github.com/stocktrack/stocktrack/internal/app/domain/supplier"
	"github.com/stocktrack/stocktrack/internal/app/storage"
	"github.com/stocktrack/stocktrack/internal/errors"
	"github.com/stocktrack/stocktrack/pkg/logger"
)

// Service manages suppliers.
type Service struct {
	store    storage.SupplierStore
	products storage.ProductStore
	log      *logger.Logger
}

// New constructs a supplier service. The product store backs the referential
// delete guard.
func New(store storage.SupplierStore, products storage.ProductStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("suppliers")
	}
	return &Service{store: store, products: products, log: log}
}

// List returns all suppliers ordered by name, ascending.
func (s *Service) List(ctx context.Context) ([]supplier.Supplier, error) {
	list, err := s.store.ListSuppliers(ctx)
	if err != nil {
		return nil, errors.Internal("", err)
	}
	if list == nil {
		list = []supplier.Supplier{}
	}
	return list, nil
}

// Create registers a new supplier. Supplier names are not unique.
func (s *Service) Create(ctx context.Context, name, contactEmail, phoneNumber string) (supplier.Supplier, error) {
	if name == "" || contactEmail == "" || phoneNumber == "" {
		return supplier.Supplier{}, errors.Validation("Supplier name, contact email and phone number are required")
	}

	created, err := s.store.CreateSupplier(ctx, supplier.Supplier{
		Name:         name,
		ContactEmail: contactEmail,
		PhoneNumber:  phoneNumber,
	})
	if err != nil {
		return supplier.Supplier{}, errors.Internal("", err)
	}
	s.log.Infof("supplier %s created", created.ID)
	return created, nil
}

// Update full-replaces the supplier fields.
func (s *Service) Update(ctx context.Context, id, name, contactEmail, phoneNumber string) (supplier.Supplier, error) {
	if name == "" || contactEmail == "" || phoneNumber == "" {
		return supplier.Supplier{}, errors.Validation("Supplier name, contact email and phone number are required")
	}

	updated, err := s.store.UpdateSupplier(ctx, supplier.Supplier{
		ID:           id,
		Name:         name,
		ContactEmail: contactEmail,
		PhoneNumber:  phoneNumber,
	})
	if err != nil {
		if err == storage.ErrNotFound {
			return supplier.Supplier{}, errors.NotFound("Supplier not found")
		}
		return supplier.Supplier{}, errors.Internal("", err)
	}
	s.log.Infof("supplier %s updated", id)
	return updated, nil
}

// Delete removes a supplier unless products still reference it.
func (s *Service) Delete(ctx context.Context, id string) error {
	count, err := s.products.CountProductsBySupplier(ctx, id)
	if err != nil {
		return errors.Internal("", err)
	}
	if count > 0 {
		return errors.Conflict("Cannot delete supplier with existing products")
	}

	if err := s.store.DeleteSupplier(ctx, id); err != nil {
		if err == storage.ErrNotFound {
			return errors.NotFound("Supplier not found")
		}
		return errors.Internal("", err)
	}
	s.log.Infof("supplier %s deleted", id)
	return nil
}
