// Package httpapi exposes the inventory REST API.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	app "github.com/stocktrack/stocktrack/internal/app"
	"github.com/stocktrack/stocktrack/internal/app/domain/product"
	"github.com/stocktrack/stocktrack/internal/app/metrics"
	"github.com/stocktrack/stocktrack/internal/errors"
	"github.com/stocktrack/stocktrack/internal/middleware"
	"github.com/stocktrack/stocktrack/pkg/logger"
)

// Config tunes the HTTP layer.
type Config struct {
	// AllowedOrigins lists origins permitted to make credentialed
	// cross-origin requests.
	AllowedOrigins []string
	// SecureCookies marks session cookies Secure and SameSite=None, which
	// browsers require for cross-site cookie delivery over HTTPS.
	SecureCookies bool
	// AuthRatePerSecond throttles login and registration attempts per
	// client. Zero disables throttling.
	AuthRatePerSecond int
	AuthBurst         int
}

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app *app.Application
	cfg Config
	log *logger.Logger
}

// NewHandler returns the API router with CORS, metrics and session
// authentication wired in.
func NewHandler(application *app.Application, cfg Config, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	h := &handler{app: application, cfg: cfg, log: log}

	r := mux.NewRouter()

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	authRouter := r.PathPrefix("/api/auth").Subrouter()
	if cfg.AuthRatePerSecond > 0 {
		limiter := middleware.NewRateLimiter(cfg.AuthRatePerSecond, cfg.AuthBurst, log)
		limiter.StartCleanup(10 * time.Minute)
		authRouter.Use(limiter.Handler)
	}
	authRouter.HandleFunc("/register", h.register).Methods(http.MethodPost)
	authRouter.HandleFunc("/login", h.login).Methods(http.MethodPost)
	authRouter.HandleFunc("/logout", h.logout).Methods(http.MethodPost)
	authRouter.HandleFunc("/me", h.me).Methods(http.MethodGet)

	session := middleware.NewSessionAuth(application.Auth, log)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(session.Handler)

	api.HandleFunc("/categories", h.listCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.createCategory).Methods(http.MethodPost)
	api.HandleFunc("/categories/{id}", h.updateCategory).Methods(http.MethodPut)
	api.HandleFunc("/categories/{id}", h.deleteCategory).Methods(http.MethodDelete)

	api.HandleFunc("/suppliers", h.listSuppliers).Methods(http.MethodGet)
	api.HandleFunc("/suppliers", h.createSupplier).Methods(http.MethodPost)
	api.HandleFunc("/suppliers/{id}", h.updateSupplier).Methods(http.MethodPut)
	api.HandleFunc("/suppliers/{id}", h.deleteSupplier).Methods(http.MethodDelete)

	api.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	api.HandleFunc("/products", h.createProduct).Methods(http.MethodPost)
	api.HandleFunc("/products/{id}", h.updateProduct).Methods(http.MethodPut)
	api.HandleFunc("/products/{id}", h.deleteProduct).Methods(http.MethodDelete)

	api.HandleFunc("/stats", h.stats).Methods(http.MethodGet)

	cors := middleware.NewCORSMiddleware(cfg.AllowedOrigins)
	return metrics.InstrumentHandler(cors.Handler(r))
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---- auth ----

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"fullName"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.Validation("Invalid request body"))
		return
	}

	pub, token, err := h.app.Auth.Register(r.Context(), payload.Username, payload.Email, payload.Password, payload.FullName)
	metrics.RecordAuthAttempt("register", err == nil)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    pub,
	})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.Validation("Invalid request body"))
		return
	}

	pub, token, err := h.app.Auth.Login(r.Context(), payload.Username, payload.Password)
	metrics.RecordAuthAttempt("login", err == nil)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    pub,
	})
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		token = cookie.Value
	}

	if err := h.app.Auth.Logout(r.Context(), token); err != nil {
		writeError(w, errors.Internal("Could not log out", err))
		return
	}

	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// me reports session state. It never fails: an absent or expired session
// yields authenticated=false with a 200.
func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookie)
	if err != nil || cookie.Value == "" {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	sess, ok := h.app.Auth.Session(r.Context(), cookie.Value)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"userId":        sess.UserID,
		"username":      sess.Username,
	})
}

func (h *handler) setSessionCookie(w http.ResponseWriter, token string) {
	sameSite := http.SameSiteLaxMode
	if h.cfg.SecureCookies {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.app.Auth.TTL() / time.Second),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: sameSite,
	})
}

func (h *handler) clearSessionCookie(w http.ResponseWriter) {
	sameSite := http.SameSiteLaxMode
	if h.cfg.SecureCookies {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: sameSite,
	})
}

// ---- categories ----

type categoryPayload struct {
	CategoryName string `json:"categoryName"`
	Description  string `json:"description"`
}

func (h *handler) listCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Categories.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.Validation("Invalid request body"))
		return
	}

	created, err := h.app.Categories.Create(r.Context(), payload.CategoryName, payload.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.Validation("Invalid request body"))
		return
	}

	updated, err := h.app.Categories.Update(r.Context(), mux.Vars(r)["id"], payload.CategoryName, payload.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Categories.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}

// ---- suppliers ----

type supplierPayload struct {
	SupplierName string `json:"supplierName"`
	ContactEmail string `json:"contactEmail"`
	PhoneNumber  string `json:"phoneNumber"`
}

func (h *handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Suppliers.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var payload supplierPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.Validation("Invalid request body"))
		return
	}

	created, err := h.app.Suppliers.Create(r.Context(), payload.SupplierName, payload.ContactEmail, payload.PhoneNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	var payload supplierPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.Validation("Invalid request body"))
		return
	}

	updated, err := h.app.Suppliers.Update(r.Context(), mux.Vars(r)["id"], payload.SupplierName, payload.ContactEmail, payload.PhoneNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Suppliers.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Supplier deleted successfully"})
}

// ---- products ----

type productPayload struct {
	ProductName string          `json:"productName"`
	CategoryID  string          `json:"categoryId"`
	SupplierID  string          `json:"supplierId"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

func (h *handler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter := product.Filter{
		CategoryID: r.URL.Query().Get("category"),
		LowStock:   r.URL.Query().Get("lowStock") == "true",
	}

	list, err := h.app.Products.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.Validation("Invalid request body"))
		return
	}

	created, err := h.app.Products.Create(r.Context(), payload.ProductName, payload.CategoryID, payload.SupplierID, payload.Quantity, payload.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.Validation("Invalid request body"))
		return
	}

	updated, err := h.app.Products.Update(r.Context(), mux.Vars(r)["id"], payload.ProductName, payload.CategoryID, payload.SupplierID, payload.Quantity, payload.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Products.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// ---- stats ----

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	summary, err := h.app.Stats.Compute(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.RecordStatsComputation(time.Since(start))
	writeJSON(w, http.StatusOK, summary)
}

// ---- helpers ----

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	return json.NewDecoder(body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	serviceErr := errors.GetServiceError(err)
	if serviceErr == nil {
		serviceErr = errors.Internal("", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(serviceErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": serviceErr.Message})
}
