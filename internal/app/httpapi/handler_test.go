package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	app "github.com/stocktrack/stocktrack/internal/app"
)

func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	application := app.New(app.Stores{}, nil)
	handler := NewHandler(application, Config{}, nil)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return server, &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func doJSONList(t *testing.T, client *http.Client, url string) []map[string]any {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	var list []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	return list
}

func register(t *testing.T, client *http.Client, base, username string) {
	t.Helper()
	resp, body := doJSON(t, client, http.MethodPost, base+"/api/auth/register", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
		"fullName": "Test User",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, body %v", resp.StatusCode, body)
	}
}

func TestAuthFlow(t *testing.T) {
	server, client := newTestServer(t)

	// Anonymous session probe never errors.
	resp, body := doJSON(t, client, http.MethodGet, server.URL+"/api/auth/me", nil)
	if resp.StatusCode != http.StatusOK || body["authenticated"] != false {
		t.Fatalf("anonymous me: status %d body %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, client, http.MethodPost, server.URL+"/api/auth/register", map[string]any{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
		"fullName": "Alice Smith",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, body %v", resp.StatusCode, body)
	}
	if body["message"] != "User registered successfully" {
		t.Fatalf("register message = %v", body["message"])
	}
	userBody, ok := body["user"].(map[string]any)
	if !ok || userBody["username"] != "alice" {
		t.Fatalf("register user payload = %v", body["user"])
	}
	if _, exposed := userBody["password_hash"]; exposed {
		t.Fatalf("password hash leaked in response")
	}

	resp, body = doJSON(t, client, http.MethodGet, server.URL+"/api/auth/me", nil)
	if body["authenticated"] != true || body["username"] != "alice" {
		t.Fatalf("me after register: status %d body %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, client, http.MethodPost, server.URL+"/api/auth/logout", nil)
	if resp.StatusCode != http.StatusOK || body["message"] != "Logout successful" {
		t.Fatalf("logout: status %d body %v", resp.StatusCode, body)
	}

	_, body = doJSON(t, client, http.MethodGet, server.URL+"/api/auth/me", nil)
	if body["authenticated"] != false {
		t.Fatalf("me after logout: %v", body)
	}

	resp, body = doJSON(t, client, http.MethodPost, server.URL+"/api/auth/login", map[string]any{
		"username": "alice",
		"password": "wrongpass",
	})
	if resp.StatusCode != http.StatusUnauthorized || body["error"] != "Invalid username or password" {
		t.Fatalf("bad login: status %d body %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, client, http.MethodPost, server.URL+"/api/auth/login", map[string]any{
		"username": "alice",
		"password": "secret123",
	})
	if resp.StatusCode != http.StatusOK || body["message"] != "Login successful" {
		t.Fatalf("login: status %d body %v", resp.StatusCode, body)
	}
}

func TestRegisterValidationErrors(t *testing.T) {
	server, client := newTestServer(t)

	resp, body := doJSON(t, client, http.MethodPost, server.URL+"/api/auth/register", map[string]any{
		"username": "alice",
	})
	if resp.StatusCode != http.StatusBadRequest || body["error"] != "All fields are required" {
		t.Fatalf("missing fields: status %d body %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, client, http.MethodPost, server.URL+"/api/auth/register", map[string]any{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "short",
		"fullName": "Alice Smith",
	})
	if resp.StatusCode != http.StatusBadRequest || body["error"] != "Password must be at least 6 characters long" {
		t.Fatalf("short password: status %d body %v", resp.StatusCode, body)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	server, client := newTestServer(t)

	for _, route := range []string{"/api/categories", "/api/suppliers", "/api/products", "/api/stats"} {
		resp, body := doJSON(t, client, http.MethodGet, server.URL+route, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("GET %s: status %d, want 401", route, resp.StatusCode)
		}
		if body["error"] != "Authentication required" {
			t.Fatalf("GET %s: error %v", route, body["error"])
		}
	}
}

func TestInventoryScenario(t *testing.T) {
	server, client := newTestServer(t)
	register(t, client, server.URL, "manager")

	// Category and supplier.
	resp, cat := doJSON(t, client, http.MethodPost, server.URL+"/api/categories", map[string]any{
		"categoryName": "Tools",
		"description":  "Hand tools",
	})
	if resp.StatusCode != http.StatusCreated || cat["category_name"] != "Tools" {
		t.Fatalf("create category: status %d body %v", resp.StatusCode, cat)
	}
	catID := cat["id"].(string)

	resp, sup := doJSON(t, client, http.MethodPost, server.URL+"/api/suppliers", map[string]any{
		"supplierName": "Hammer Co",
		"contactEmail": "sales@hammer.example",
		"phoneNumber":  "555-0100",
	})
	if resp.StatusCode != http.StatusCreated || sup["supplier_name"] != "Hammer Co" {
		t.Fatalf("create supplier: status %d body %v", resp.StatusCode, sup)
	}
	supID := sup["id"].(string)

	// Duplicate category name conflicts.
	resp, body := doJSON(t, client, http.MethodPost, server.URL+"/api/categories", map[string]any{
		"categoryName": "Tools",
		"description":  "Other",
	})
	if resp.StatusCode != http.StatusBadRequest || body["error"] != "Category name already exists" {
		t.Fatalf("duplicate category: status %d body %v", resp.StatusCode, body)
	}

	// Product with quantity 3 is low stock.
	resp, prod := doJSON(t, client, http.MethodPost, server.URL+"/api/products", map[string]any{
		"productName": "Hammer",
		"categoryId":  catID,
		"supplierId":  supID,
		"quantity":    3,
		"price":       9.99,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create product: status %d body %v", resp.StatusCode, prod)
	}
	prodID := prod["id"].(string)
	if prod["category_name"] != "Tools" || prod["supplier_name"] != "Hammer Co" {
		t.Fatalf("product join names missing: %v", prod)
	}

	low := doJSONList(t, client, server.URL+"/api/products?lowStock=true")
	if len(low) != 1 || low[0]["product_name"] != "Hammer" {
		t.Fatalf("low stock list = %v", low)
	}

	byCategory := doJSONList(t, client, server.URL+"/api/products?category="+catID)
	if len(byCategory) != 1 {
		t.Fatalf("category filter = %v", byCategory)
	}

	// Stats reflect the single low-stock product.
	resp, summary := doJSON(t, client, http.MethodGet, server.URL+"/api/stats", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats: status %d", resp.StatusCode)
	}
	if summary["totalProducts"] != float64(1) || summary["lowStockProducts"] != float64(1) {
		t.Fatalf("stats = %v", summary)
	}
	if fmt.Sprint(summary["totalStockValue"]) != "29.97" {
		t.Fatalf("totalStockValue = %v", summary["totalStockValue"])
	}

	// Deleting the category while the product references it fails.
	resp, body = doJSON(t, client, http.MethodDelete, server.URL+"/api/categories/"+catID, nil)
	if resp.StatusCode != http.StatusBadRequest || body["error"] != "Cannot delete category with existing products" {
		t.Fatalf("guarded delete: status %d body %v", resp.StatusCode, body)
	}

	// Update drops the quantity to a healthy level.
	resp, updated := doJSON(t, client, http.MethodPut, server.URL+"/api/products/"+prodID, map[string]any{
		"productName": "Hammer",
		"categoryId":  catID,
		"supplierId":  supID,
		"quantity":    20,
		"price":       9.99,
	})
	if resp.StatusCode != http.StatusOK || updated["quantity"] != float64(20) {
		t.Fatalf("update product: status %d body %v", resp.StatusCode, updated)
	}

	if low = doJSONList(t, client, server.URL+"/api/products?lowStock=true"); len(low) != 0 {
		t.Fatalf("low stock after restock = %v", low)
	}

	// Delete product, then the category and supplier release cleanly.
	resp, body = doJSON(t, client, http.MethodDelete, server.URL+"/api/products/"+prodID, nil)
	if resp.StatusCode != http.StatusOK || body["message"] != "Product deleted successfully" {
		t.Fatalf("delete product: status %d body %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, client, http.MethodDelete, server.URL+"/api/categories/"+catID, nil)
	if resp.StatusCode != http.StatusOK || body["message"] != "Category deleted successfully" {
		t.Fatalf("delete category: status %d body %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, client, http.MethodDelete, server.URL+"/api/suppliers/"+supID, nil)
	if resp.StatusCode != http.StatusOK || body["message"] != "Supplier deleted successfully" {
		t.Fatalf("delete supplier: status %d body %v", resp.StatusCode, body)
	}
}

func TestProductValidationOverHTTP(t *testing.T) {
	server, client := newTestServer(t)
	register(t, client, server.URL, "manager2")

	resp, body := doJSON(t, client, http.MethodPost, server.URL+"/api/products", map[string]any{
		"productName": "Hammer",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing refs: status %d body %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, client, http.MethodPut, server.URL+"/api/products/missing", map[string]any{
		"productName": "Hammer",
		"categoryId":  "c",
		"supplierId":  "s",
		"quantity":    1,
		"price":       1,
	})
	if resp.StatusCode != http.StatusNotFound || body["error"] != "Product not found" {
		t.Fatalf("update missing: status %d body %v", resp.StatusCode, body)
	}
}

func TestHealthz(t *testing.T) {
	server, client := newTestServer(t)

	resp, body := doJSON(t, client, http.MethodGet, server.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("healthz: status %d body %v", resp.StatusCode, body)
	}
}
