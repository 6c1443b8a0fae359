// Package app composes the inventory services into a running application.
//
// # Package Structure
//
//	internal/app/
//	├── application.go      # Application struct and service wiring
//	├── domain/             # Domain models (pure data structures)
//	│   ├── user/           # Registered users
//	│   ├── session/        # Server-side login sessions
//	│   ├── category/       # Product categories
//	│   ├── supplier/       # Suppliers
//	│   ├── product/        # Products with joined display names
//	│   └── stats/          # Derived inventory aggregates
//	├── storage/            # Store interfaces and implementations
//	│   ├── interfaces.go   # UserStore, CategoryStore, ProductStore, ...
//	│   ├── memory/         # In-memory implementation for tests and dev
//	│   └── postgres/       # PostgreSQL implementation for production
//	├── services/           # Business logic per entity
//	├── httpapi/            # REST handlers, routing and middleware wiring
//	└── metrics/            # Prometheus collectors
//
// Services validate input, enforce referential guards and translate storage
// sentinels into the service error taxonomy. Stores own persistence details
// such as ID generation and timestamps.
package app
