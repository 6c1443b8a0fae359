package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/stocktrack/stocktrack/internal/app/domain/category"
	"github.com/stocktrack/stocktrack/internal/app/domain/product"
	"github.com/stocktrack/stocktrack/internal/app/domain/session"
	"github.com/stocktrack/stocktrack/internal/app/domain/stats"
	"github.com/stocktrack/stocktrack/internal/app/domain/supplier"
	"github.com/stocktrack/stocktrack/internal/app/domain/user"
	"github.com/stocktrack/stocktrack/internal/app/storage"
)

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.SessionStore = (*Store)(nil)
var _ storage.CategoryStore = (*Store)(nil)
var _ storage.SupplierStore = (*Store)(nil)
var _ storage.ProductStore = (*Store)(nil)
var _ storage.StatsStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return storage.ErrNotFound
	case isUniqueViolation(err):
		return storage.ErrConflict
	case isForeignKeyViolation(err):
		return storage.ErrInvalidReference
	default:
		return err
	}
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, full_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.FullName, u.CreatedAt)
	if err != nil {
		return user.User{}, translate(err)
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, full_name, created_at
		FROM users
		WHERE id = $1
	`, id))
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, full_name, created_at
		FROM users
		WHERE username = $1
	`, username))
}

func (s *Store) scanUser(row *sql.Row) (user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.CreatedAt); err != nil {
		return user.User{}, translate(err)
	}
	return u, nil
}

// --- SessionStore -----------------------------------------------------------

func (s *Store) CreateSession(ctx context.Context, sess session.Session) (session.Session, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	sess.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, username, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, sess.ID, sess.UserID, sess.Username, sess.TokenHash, sess.ExpiresAt, sess.CreatedAt)
	if err != nil {
		return session.Session{}, translate(err)
	}
	return sess, nil
}

func (s *Store) GetSessionByTokenHash(ctx context.Context, tokenHash string) (session.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, username, token_hash, expires_at, created_at
		FROM sessions
		WHERE token_hash = $1
	`, tokenHash)

	var sess session.Session
	if err := row.Scan(&sess.ID, &sess.UserID, &sess.Username, &sess.TokenHash, &sess.ExpiresAt, &sess.CreatedAt); err != nil {
		return session.Session{}, translate(err)
	}
	return sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE token_hash = $1
	`, tokenHash)
	return translate(err)
}

// --- CategoryStore ----------------------------------------------------------

func (s *Store) CreateCategory(ctx context.Context, c category.Category) (category.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, category_name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return category.Category{}, translate(err)
	}
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c category.Category) (category.Category, error) {
	existing, err := s.GetCategory(ctx, c.ID)
	if err != nil {
		return category.Category{}, err
	}

	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET category_name = $2, description = $3, updated_at = $4
		WHERE id = $1
	`, c.ID, c.Name, c.Description, c.UpdatedAt)
	if err != nil {
		return category.Category{}, translate(err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return category.Category{}, storage.ErrNotFound
	}
	return c, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (category.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, category_name, description, created_at, updated_at
		FROM categories
		WHERE id = $1
	`, id)

	var c category.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return category.Category{}, translate(err)
	}
	return c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]category.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_name, description, created_at, updated_at
		FROM categories
		ORDER BY category_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []category.Category
	for rows.Next() {
		var c category.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM categories WHERE id = $1
	`, id)
	if err != nil {
		return translate(err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// --- SupplierStore ----------------------------------------------------------

func (s *Store) CreateSupplier(ctx context.Context, sup supplier.Supplier) (supplier.Supplier, error) {
	if sup.ID == "" {
		sup.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	sup.CreatedAt = now
	sup.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, supplier_name, contact_email, phone_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, sup.ID, sup.Name, sup.ContactEmail, sup.PhoneNumber, sup.CreatedAt, sup.UpdatedAt)
	if err != nil {
		return supplier.Supplier{}, translate(err)
	}
	return sup, nil
}

func (s *Store) UpdateSupplier(ctx context.Context, sup supplier.Supplier) (supplier.Supplier, error) {
	existing, err := s.GetSupplier(ctx, sup.ID)
	if err != nil {
		return supplier.Supplier{}, err
	}

	sup.CreatedAt = existing.CreatedAt
	sup.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE suppliers
		SET supplier_name = $2, contact_email = $3, phone_number = $4, updated_at = $5
		WHERE id = $1
	`, sup.ID, sup.Name, sup.ContactEmail, sup.PhoneNumber, sup.UpdatedAt)
	if err != nil {
		return supplier.Supplier{}, translate(err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return supplier.Supplier{}, storage.ErrNotFound
	}
	return sup, nil
}

func (s *Store) GetSupplier(ctx context.Context, id string) (supplier.Supplier, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, supplier_name, contact_email, phone_number, created_at, updated_at
		FROM suppliers
		WHERE id = $1
	`, id)

	var sup supplier.Supplier
	if err := row.Scan(&sup.ID, &sup.Name, &sup.ContactEmail, &sup.PhoneNumber, &sup.CreatedAt, &sup.UpdatedAt); err != nil {
		return supplier.Supplier{}, translate(err)
	}
	return sup, nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]supplier.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, supplier_name, contact_email, phone_number, created_at, updated_at
		FROM suppliers
		ORDER BY supplier_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []supplier.Supplier
	for rows.Next() {
		var sup supplier.Supplier
		if err := rows.Scan(&sup.ID, &sup.Name, &sup.ContactEmail, &sup.PhoneNumber, &sup.CreatedAt, &sup.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, sup)
	}
	return result, rows.Err()
}

func (s *Store) DeleteSupplier(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM suppliers WHERE id = $1
	`, id)
	if err != nil {
		return translate(err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// --- ProductStore -----------------------------------------------------------

const productJoinedSelect = `
	SELECT p.id, p.product_name, p.category_id, p.supplier_id, p.quantity, p.price,
	       p.date_added, p.created_at, p.updated_at, c.category_name, s.supplier_name
	FROM products p
	LEFT JOIN categories c ON p.category_id = c.id
	LEFT JOIN suppliers s ON p.supplier_id = s.id
`

// CreateProduct inserts the row and re-reads it joined with display names in
// a single transaction, so the read cannot race a concurrent category or
// supplier delete.
func (s *Store) CreateProduct(ctx context.Context, p product.Product) (product.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.DateAdded = now
	p.CreatedAt = now
	p.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return product.Product{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (id, product_name, category_id, supplier_id, quantity, price, date_added, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.Name, p.CategoryID, p.SupplierID, p.Quantity, p.Price, p.DateAdded, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return product.Product{}, translate(err)
	}

	joined, err := scanProduct(tx.QueryRowContext(ctx, productJoinedSelect+` WHERE p.id = $1`, p.ID))
	if err != nil {
		return product.Product{}, err
	}
	if err := tx.Commit(); err != nil {
		return product.Product{}, err
	}
	return joined, nil
}

// UpdateProduct full-replaces the mutable columns and returns the joined row,
// both inside one transaction.
func (s *Store) UpdateProduct(ctx context.Context, p product.Product) (product.Product, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return product.Product{}, err
	}
	defer tx.Rollback()

	p.UpdatedAt = time.Now().UTC()

	result, err := tx.ExecContext(ctx, `
		UPDATE products
		SET product_name = $2, category_id = $3, supplier_id = $4, quantity = $5, price = $6, updated_at = $7
		WHERE id = $1
	`, p.ID, p.Name, p.CategoryID, p.SupplierID, p.Quantity, p.Price, p.UpdatedAt)
	if err != nil {
		return product.Product{}, translate(err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return product.Product{}, storage.ErrNotFound
	}

	joined, err := scanProduct(tx.QueryRowContext(ctx, productJoinedSelect+` WHERE p.id = $1`, p.ID))
	if err != nil {
		return product.Product{}, err
	}
	if err := tx.Commit(); err != nil {
		return product.Product{}, err
	}
	return joined, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (product.Product, error) {
	return scanProduct(s.db.QueryRowContext(ctx, productJoinedSelect+` WHERE p.id = $1`, id))
}

func (s *Store) ListProducts(ctx context.Context, filter product.Filter) ([]product.Product, error) {
	query := productJoinedSelect
	var conditions []string
	var params []interface{}

	if filter.CategoryID != "" {
		params = append(params, filter.CategoryID)
		conditions = append(conditions, `p.category_id = $1`)
	}
	if filter.LowStock {
		conditions = append(conditions, `p.quantity < 5`)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY p.date_added DESC`

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []product.Product
	for rows.Next() {
		p, err := scanProductRows(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM products WHERE id = $1
	`, id)
	if err != nil {
		return translate(err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) CountProductsByCategory(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM products WHERE category_id = $1
	`, categoryID).Scan(&count)
	return count, err
}

func (s *Store) CountProductsBySupplier(ctx context.Context, supplierID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM products WHERE supplier_id = $1
	`, supplierID).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row *sql.Row) (product.Product, error) {
	p, err := scanProductRows(row)
	if err != nil {
		return product.Product{}, translate(err)
	}
	return p, nil
}

func scanProductRows(row rowScanner) (product.Product, error) {
	var (
		p            product.Product
		categoryName sql.NullString
		supplierName sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &p.CategoryID, &p.SupplierID, &p.Quantity, &p.Price,
		&p.DateAdded, &p.CreatedAt, &p.UpdatedAt, &categoryName, &supplierName); err != nil {
		return product.Product{}, err
	}
	if categoryName.Valid {
		p.CategoryName = &categoryName.String
	}
	if supplierName.Valid {
		p.SupplierName = &supplierName.String
	}
	return p, nil
}

// --- StatsStore -------------------------------------------------------------

func (s *Store) CollectStats(ctx context.Context) (stats.Summary, error) {
	var summary stats.Summary

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM products`, &summary.TotalProducts},
		{`SELECT COUNT(*) FROM categories`, &summary.TotalCategories},
		{`SELECT COUNT(*) FROM suppliers`, &summary.TotalSuppliers},
		{`SELECT COUNT(*) FROM products WHERE quantity < 5`, &summary.LowStockProducts},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return stats.Summary{}, err
		}
	}

	var total decimal.Decimal
	if err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(quantity * price), 0) FROM products
	`).Scan(&total); err != nil {
		return stats.Summary{}, err
	}
	summary.TotalStockValue = total.Round(2)

	return summary, nil
}
