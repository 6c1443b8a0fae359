// Package categories implements the category manager.
package categories

import (
	"context"

	"github.com/stocktrack/stocktrack/internal/app/domain/category"
	"github.com/stocktrack/stocktrack/internal/app/storage"
	"github.com/stocktrack/stocktrack/internal/errors"
	"github.com/stocktrack/stocktrack/pkg/logger"
)

// Service manages product categories.
type Service struct {
	store    storage.CategoryStore
	products storage.ProductStore
	log      *logger.Logger
}

// New constructs a category service. The product store backs the referential
// delete guard.
func New(store storage.CategoryStore, products storage.ProductStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("categories")
	}
	return &Service{store: store, products: products, log: log}
}

// List returns all categories ordered by name, ascending.
func (s *Service) List(ctx context.Context) ([]category.Category, error) {
	list, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, errors.Internal("", err)
	}
	if list == nil {
		list = []category.Category{}
	}
	return list, nil
}

// Create registers a new category.
func (s *Service) Create(ctx context.Context, name, description string) (category.Category, error) {
	if name == "" || description == "" {
		return category.Category{}, errors.Validation("Category name and description are required")
	}

	created, err := s.store.CreateCategory(ctx, category.Category{Name: name, Description: description})
	if err != nil {
		if err == storage.ErrConflict {
			return category.Category{}, errors.Conflict("Category name already exists")
		}
		return category.Category{}, errors.Internal("", err)
	}
	s.log.Infof("category %s created", created.ID)
	return created, nil
}

// Update full-replaces the category fields.
func (s *Service) Update(ctx context.Context, id, name, description string) (category.Category, error) {
	if name == "" || description == "" {
		return category.Category{}, errors.Validation("Category name and description are required")
	}

	updated, err := s.store.UpdateCategory(ctx, category.Category{ID: id, Name: name, Description: description})
	if err != nil {
		switch err {
		case storage.ErrNotFound:
			return category.Category{}, errors.NotFound("Category not found")
		case storage.ErrConflict:
			return category.Category{}, errors.Conflict("Category name already exists")
		}
		return category.Category{}, errors.Internal("", err)
	}
	s.log.Infof("category %s updated", id)
	return updated, nil
}

// Delete removes a category unless products still reference it.
func (s *Service) Delete(ctx context.Context, id string) error {
	count, err := s.products.CountProductsByCategory(ctx, id)
	if err != nil {
		return errors.Internal("", err)
	}
	if count > 0 {
		return errors.Conflict("Cannot delete category with existing products")
	}

	if err := s.store.DeleteCategory(ctx, id); err != nil {
		if err == storage.ErrNotFound {
			return errors.NotFound("Category not found")
		}
		return errors.Internal("", err)
	}
	s.log.Infof("category %s deleted", id)
	return nil
}
