package service

import (
	"context"
	"fmt"
	"time"

	"shop-admin/internal/domain"
	"shop-admin/internal/repository"

	"github.com/google/uuid"
)

// OrderItemInput references a product and a quantity of at least 1. The
// name, price and image snapshot are taken from the current product.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput carries the fields for a new order.
type CreateOrderInput struct {
	UserID          uuid.UUID
	Items           []OrderItemInput
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
	Notes           string
}

// OrderService defines the interface for order business logic
type OrderService interface {
	Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, filter repository.OrderFilter, page domain.Page) ([]*domain.Order, domain.Pagination, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
}

// Create builds an order from the referenced products, snapshotting each
// item's name and price, computing the total, and assigning the next
// day-sequential order number.
func (s *orderService) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if _, err := s.userRepo.FindByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	now := s.now()

	items := make([]domain.OrderItem, 0, len(input.Items))
	var total float64
	for _, in := range input.Items {
		product, err := s.productRepo.FindByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}

		imageURL := ""
		if len(product.ImageURLs) > 0 {
			imageURL = product.ImageURLs[0]
		}

		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  in.Quantity,
			ImageURL:  imageURL,
		})
		total += product.Price * float64(in.Quantity)
	}

	number, err := s.nextOrderNumber(ctx, now)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:              uuid.New(),
		OrderNumber:     number,
		UserID:          input.UserID,
		Items:           items,
		TotalAmount:     total,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   domain.PaymentPending,
		OrderStatus:     domain.OrderPending,
		Notes:           input.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// GetByID retrieves an order by ID
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

// List returns a filtered order page with its pagination block.
func (s *orderService) List(ctx context.Context, filter repository.OrderFilter, page domain.Page) ([]*domain.Order, domain.Pagination, error) {
	orders, total, err := s.orderRepo.List(ctx, filter, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	return orders, domain.PageOf(total, page), nil
}

// nextOrderNumber builds ORD-YYYYMMDD-NNNN from the count of today's
// orders. Best-effort sequential; the unique index rejects the rare race.
func (s *orderService) nextOrderNumber(ctx context.Context, now time.Time) (string, error) {
	count, err := s.orderRepo.CountForDay(ctx, now)
	if err != nil {
		return "", fmt.Errorf("failed to generate order number: %w", err)
	}

	return fmt.Sprintf("ORD-%s-%04d", now.Format("20060102"), count+1), nil
}
