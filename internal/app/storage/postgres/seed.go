package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Seed inserts the demo user and starter categories and suppliers. The user
// insert is conflict-free; categories and suppliers are only seeded when
// their tables are empty.
func Seed(ctx context.Context, db *sql.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, full_name)
		VALUES ($1, 'demo', 'demo@example.com', $2, 'Demo User')
		ON CONFLICT (username) DO NOTHING
	`, uuid.NewString(), string(hash)); err != nil {
		return fmt.Errorf("seed demo user: %w", err)
	}

	var categoryCount int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&categoryCount); err != nil {
		return err
	}
	if categoryCount == 0 {
		seedCategories := []struct{ name, description string }{
			{"Electronics", "Electronic devices and components"},
			{"Furniture", "Office and home furniture items"},
			{"Stationery", "Office supplies and writing materials"},
			{"Books", "Educational and reference books"},
			{"Clothing", "Apparel and accessories"},
		}
		for _, c := range seedCategories {
			if _, err := db.ExecContext(ctx, `
				INSERT INTO categories (id, category_name, description) VALUES ($1, $2, $3)
			`, uuid.NewString(), c.name, c.description); err != nil {
				return fmt.Errorf("seed category %s: %w", c.name, err)
			}
		}
	}

	var supplierCount int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM suppliers`).Scan(&supplierCount); err != nil {
		return err
	}
	if supplierCount == 0 {
		seedSuppliers := []struct{ name, email, phone string }{
			{"TechWorld Inc", "orders@techworld.com", "+1-555-0101"},
			{"Office Pro Supply", "sales@officepro.com", "+1-555-0102"},
			{"BookMart Publishers", "contact@bookmart.com", "+1-555-0103"},
			{"Furniture Express", "info@furnitureexpress.com", "+1-555-0104"},
			{"Fashion Hub", "support@fashionhub.com", "+1-555-0105"},
		}
		for _, s := range seedSuppliers {
			if _, err := db.ExecContext(ctx, `
				INSERT INTO suppliers (id, supplier_name, contact_email, phone_number) VALUES ($1, $2, $3, $4)
			`, uuid.NewString(), s.name, s.email, s.phone); err != nil {
				return fmt.Errorf("seed supplier %s: %w", s.name, err)
			}
		}
	}

	return nil
}
