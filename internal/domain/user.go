package domain

import (
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// CartItem is a product reference with a quantity of at least 1.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// User represents a dashboard or storefront user. PasswordHash is never
// serialized; read paths return users through sanitized views.
type User struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Email        string      `json:"email" db:"email"`
	PasswordHash string      `json:"-" db:"password_hash"`
	Role         string      `json:"role" db:"role"`
	ImageURL     string      `json:"image_url,omitempty" db:"image_url"`
	Cart         []CartItem  `json:"cart,omitempty" db:"cart"`
	OrderIDs     []uuid.UUID `json:"order_ids,omitempty" db:"order_ids"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}
