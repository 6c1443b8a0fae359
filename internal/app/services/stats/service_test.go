package stats

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/stocktrack/stocktrack/internal/app/domain/category"
	"github.com/stocktrack/stocktrack/internal/app/domain/product"
	"github.com/stocktrack/stocktrack/internal/app/domain/supplier"
	"github.com/stocktrack/stocktrack/internal/app/storage/memory"
)

func TestComputeEmpty(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)

	summary, err := svc.Compute(context.Background())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if summary.TotalProducts != 0 || summary.TotalCategories != 0 || summary.TotalSuppliers != 0 || summary.LowStockProducts != 0 {
		t.Fatalf("expected zero counts, got %+v", summary)
	}
	if !summary.TotalStockValue.Equal(decimal.Zero) {
		t.Fatalf("expected zero stock value, got %s", summary.TotalStockValue)
	}
}

func TestCompute(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, category.Category{Name: "Electronics", Description: "desc"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	sup, err := store.CreateSupplier(ctx, supplier.Supplier{Name: "Acme", ContactEmail: "a@acme.example", PhoneNumber: "555-0100"})
	if err != nil {
		t.Fatalf("create supplier: %v", err)
	}

	// 10 * 999.99 + 2 * 5.50 = 10010.90; the second product is low stock.
	for _, p := range []product.Product{
		{Name: "Laptop", CategoryID: &cat.ID, SupplierID: &sup.ID, Quantity: 10, Price: decimal.NewFromFloat(999.99)},
		{Name: "Cable", CategoryID: &cat.ID, SupplierID: &sup.ID, Quantity: 2, Price: decimal.NewFromFloat(5.50)},
	} {
		if _, err := store.CreateProduct(ctx, p); err != nil {
			t.Fatalf("create product: %v", err)
		}
	}

	summary, err := svc.Compute(ctx)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if summary.TotalProducts != 2 || summary.TotalCategories != 1 || summary.TotalSuppliers != 1 {
		t.Fatalf("counts mismatch: %+v", summary)
	}
	if summary.LowStockProducts != 1 {
		t.Fatalf("low stock = %d, want 1", summary.LowStockProducts)
	}
	if !summary.TotalStockValue.Equal(decimal.NewFromFloat(10010.90)) {
		t.Fatalf("stock value = %s, want 10010.90", summary.TotalStockValue)
	}
}

func TestLowStockBoundary(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()

	// Exactly at the threshold is not low stock; one below is.
	for _, p := range []product.Product{
		{Name: "AtThreshold", Quantity: product.LowStockThreshold, Price: decimal.NewFromInt(1)},
		{Name: "BelowThreshold", Quantity: product.LowStockThreshold - 1, Price: decimal.NewFromInt(1)},
		{Name: "Empty", Quantity: 0, Price: decimal.NewFromInt(1)},
	} {
		if _, err := store.CreateProduct(ctx, p); err != nil {
			t.Fatalf("create product: %v", err)
		}
	}

	summary, err := svc.Compute(ctx)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if summary.LowStockProducts != 2 {
		t.Fatalf("low stock = %d, want 2", summary.LowStockProducts)
	}
}
