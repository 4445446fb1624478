package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shop-admin/internal/domain"
	"shop-admin/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing
const BcryptCost = 10

var ErrInvalidRole = errors.New("role must be user or admin")

// CreateUserInput carries the fields for a new user. Password arrives in
// plaintext and is hashed before storage; it is never stored or returned
// as supplied.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	ImageURL string
}

// UserPatch is a partial update: only non-nil fields change. A nil or
// empty Password leaves the stored hash untouched.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
	ImageURL *string
	Cart     *[]domain.CartItem
}

// UserService defines the interface for user business logic
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, patch UserPatch) (*domain.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, filter repository.UserFilter, page domain.Page) ([]*domain.User, domain.Pagination, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Create persists a new user with a hashed password. Emails are stored
// lowercased; the collision check is case-insensitive.
func (s *userService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, repository.ErrUserAlreadyExists
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, ErrInvalidRole
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		ImageURL:     input.ImageURL,
		Cart:         []domain.CartItem{},
		OrderIDs:     []uuid.UUID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Update merges the patch into the stored user. Email changes re-run the
// uniqueness check excluding this user; an empty password is ignored so
// the stored hash is never overwritten by accident.
func (s *userService) Update(ctx context.Context, id uuid.UUID, patch UserPatch) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if email != user.Email {
			existing, err := s.userRepo.FindByEmail(ctx, email)
			if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
				return nil, fmt.Errorf("failed to check existing user: %w", err)
			}
			if existing != nil && existing.ID != id {
				return nil, repository.ErrUserAlreadyExists
			}
			user.Email = email
		}
	}
	if patch.Password != nil && *patch.Password != "" {
		hash, err := hashPassword(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Role != nil {
		if *patch.Role != domain.RoleUser && *patch.Role != domain.RoleAdmin {
			return nil, ErrInvalidRole
		}
		user.Role = *patch.Role
	}
	if patch.ImageURL != nil {
		user.ImageURL = *patch.ImageURL
	}
	if patch.Cart != nil {
		user.Cart = *patch.Cart
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateRole changes only the user's role.
func (s *userService) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*domain.User, error) {
	return s.Update(ctx, id, UserPatch{Role: &role})
}

// Delete removes a user
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.userRepo.Delete(ctx, id)
}

// GetByID retrieves a user by ID
func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// List returns a filtered user page with its pagination block.
func (s *userService) List(ctx context.Context, filter repository.UserFilter, page domain.Page) ([]*domain.User, domain.Pagination, error) {
	users, total, err := s.userRepo.List(ctx, filter, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	return users, domain.PageOf(total, page), nil
}

func hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}
