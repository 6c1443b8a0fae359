package suppliers

import (
	"context"
	"testing"

	"github.com/stocktrack/stocktrack/internal/app/domain/product"
	"github.com/stocktrack/stocktrack/internal/app/storage/memory"
	"github.com/stocktrack/stocktrack/internal/errors"
)

func TestSupplierLifecycle(t *testing.T) {
	store := memory.New()
	svc := New(store, store, nil)

	created, err := svc.Create(context.Background(), "Acme Corp", "sales@acme.example", "555-0100")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected id to be generated")
	}

	updated, err := svc.Update(context.Background(), created.ID, "Acme Corporation", "support@acme.example", "555-0200")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Acme Corporation" || updated.ContactEmail != "support@acme.example" {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestSupplierNamesNotUnique(t *testing.T) {
	store := memory.New()
	svc := New(store, store, nil)

	if _, err := svc.Create(context.Background(), "Acme", "a@acme.example", "555-0100"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), "Acme", "b@acme.example", "555-0101"); err != nil {
		t.Fatalf("duplicate supplier name should be allowed: %v", err)
	}

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 suppliers, got %d", len(list))
	}
}

func TestSupplierValidation(t *testing.T) {
	store := memory.New()
	svc := New(store, store, nil)

	if _, err := svc.Create(context.Background(), "", "a@acme.example", "555-0100"); errors.GetServiceError(err) == nil {
		t.Fatalf("expected validation error for empty name")
	}
	if _, err := svc.Update(context.Background(), "id", "Acme", "", "555-0100"); errors.GetServiceError(err) == nil {
		t.Fatalf("expected validation error for empty email")
	}
}

func TestSupplierNotFound(t *testing.T) {
	store := memory.New()
	svc := New(store, store, nil)

	_, err := svc.Update(context.Background(), "missing", "Acme", "a@acme.example", "555-0100")
	serviceErr := errors.GetServiceError(err)
	if serviceErr == nil || serviceErr.Message != "Supplier not found" {
		t.Fatalf("expected not found on update, got %v", err)
	}

	err = svc.Delete(context.Background(), "missing")
	serviceErr = errors.GetServiceError(err)
	if serviceErr == nil || serviceErr.Message != "Supplier not found" {
		t.Fatalf("expected not found on delete, got %v", err)
	}
}

func TestSupplierDeleteGuard(t *testing.T) {
	store := memory.New()
	svc := New(store, store, nil)

	sup, err := svc.Create(context.Background(), "Acme", "a@acme.example", "555-0100")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := store.CreateProduct(context.Background(), product.Product{Name: "Widget", SupplierID: &sup.ID}); err != nil {
		t.Fatalf("create product: %v", err)
	}

	err = svc.Delete(context.Background(), sup.ID)
	serviceErr := errors.GetServiceError(err)
	if serviceErr == nil || serviceErr.Message != "Cannot delete supplier with existing products" {
		t.Fatalf("expected delete guard, got %v", err)
	}
}
