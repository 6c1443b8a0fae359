package supplier

import "time"

// Supplier is a source of products. Names are not unique.
type Supplier struct {
	ID           string    `json:"id"`
	Name         string    `json:"supplier_name"`
	ContactEmail string    `json:"contact_email"`
	PhoneNumber  string    `json:"phone_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
