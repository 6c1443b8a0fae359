package app

import (
	"github.com/stocktrack/stocktrack/internal/app/services/auth"
	"github.com/stocktrack/stocktrack/internal/app/services/categories"
	"github.com/stocktrack/stocktrack/internal/app/services/products"
	statssvc "github.com/stocktrack/stocktrack/internal/app/services/stats"
	"github.com/stocktrack/stocktrack/internal/app/services/suppliers"
	"github.com/stocktrack/stocktrack/internal/app/storage"
	"github.com/stocktrack/stocktrack/internal/app/storage/memory"
	"github.com/stocktrack/stocktrack/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Users      storage.UserStore
	Sessions   storage.SessionStore
	Categories storage.CategoryStore
	Suppliers  storage.SupplierStore
	Products   storage.ProductStore
	Stats      storage.StatsStore
}

// Application ties the domain services together.
type Application struct {
	log *logger.Logger

	Auth       *auth.Service
	Categories *categories.Service
	Suppliers  *suppliers.Service
	Products   *products.Service
	Stats      *statssvc.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, log *logger.Logger) *Application {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Users == nil {
		stores.Users = mem
	}
	if stores.Sessions == nil {
		stores.Sessions = mem
	}
	if stores.Categories == nil {
		stores.Categories = mem
	}
	if stores.Suppliers == nil {
		stores.Suppliers = mem
	}
	if stores.Products == nil {
		stores.Products = mem
	}
	if stores.Stats == nil {
		stores.Stats = mem
	}

	return &Application{
		log:        log,
		Auth:       auth.New(stores.Users, stores.Sessions, log),
		Categories: categories.New(stores.Categories, stores.Products, log),
		Suppliers:  suppliers.New(stores.Suppliers, stores.Products, log),
		Products:   products.New(stores.Products, log),
		Stats:      statssvc.New(stores.Stats, log),
	}
}
