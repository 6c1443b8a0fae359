package category

import "time"

// Category groups products. Names are globally unique.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"category_name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
