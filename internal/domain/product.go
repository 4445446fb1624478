package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProductStatus is the stock-derived availability label.
type ProductStatus string

const (
	StatusInStock    ProductStatus = "in-stock"
	StatusLowStock   ProductStatus = "low-stock"
	StatusOutOfStock ProductStatus = "out-of-stock"
)

const lowStockThreshold = 5

// StatusForStock maps a stock quantity to its availability status.
// The result is authoritative: every write path that changes stock
// overwrites any client-supplied status with this value.
func StatusForStock(stock int) ProductStatus {
	switch {
	case stock <= 0:
		return StatusOutOfStock
	case stock <= lowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Product represents a product in the catalog
type Product struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	Name         string        `json:"name" db:"name"`
	Description  string        `json:"description" db:"description"`
	Price        float64       `json:"price" db:"price"`
	ComparePrice *float64      `json:"compare_price,omitempty" db:"compare_price"`
	SKU          string        `json:"sku" db:"sku"`
	CategoryID   uuid.UUID     `json:"category_id" db:"category_id"`
	Stock        int           `json:"stock" db:"stock"`
	Status       ProductStatus `json:"status" db:"status"`
	Featured     bool          `json:"featured" db:"featured"`
	ImageURLs    []string      `json:"image_urls" db:"image_urls"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}
