package repository

import (
	"fmt"
	"strings"

	"shop-admin/internal/domain"

	"github.com/google/uuid"
)

// ProductFilter holds the optional list filters for products. Zero values
// impose no constraint for their dimension.
type ProductFilter struct {
	CategoryID *uuid.UUID
	Status     domain.ProductStatus
	Featured   *bool
	Search     string
}

// UserFilter holds the optional list filters for users.
type UserFilter struct {
	Role   string
	Search string
}

// OrderFilter holds the optional list filters for orders.
type OrderFilter struct {
	UserID        *uuid.UUID
	OrderStatus   domain.OrderStatus
	PaymentStatus domain.PaymentStatus
}

// likeEscaper neutralizes LIKE metacharacters so a search term matches
// literally. Postgres treats backslash as the default escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// whereClause builds an AND-composed WHERE clause with positional
// arguments. Absent filters contribute nothing; the search term matches
// name or description case-insensitively.
func (f ProductFilter) whereClause() (string, []any) {
	conditions := []string{}
	args := []any{}

	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Featured != nil {
		args = append(args, *f.Featured)
		conditions = append(conditions, fmt.Sprintf("featured = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, likePattern(s))
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	return joinConditions(conditions), args
}

func (f UserFilter) whereClause() (string, []any) {
	conditions := []string{}
	args := []any{}

	if f.Role != "" {
		args = append(args, f.Role)
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, likePattern(s))
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}

	return joinConditions(conditions), args
}

func (f OrderFilter) whereClause() (string, []any) {
	conditions := []string{}
	args := []any{}

	if f.UserID != nil {
		args = append(args, *f.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.OrderStatus != "" {
		args = append(args, string(f.OrderStatus))
		conditions = append(conditions, fmt.Sprintf("order_status = $%d", len(args)))
	}
	if f.PaymentStatus != "" {
		args = append(args, string(f.PaymentStatus))
		conditions = append(conditions, fmt.Sprintf("payment_status = $%d", len(args)))
	}

	return joinConditions(conditions), args
}

func joinConditions(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conditions, " AND ")
}
