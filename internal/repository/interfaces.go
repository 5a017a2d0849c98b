package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/installment-engine/internal/domain"
)

// CardRepository defines the interface for credit card data operations
type CardRepository interface {
	// Create creates a new card
	Create(ctx context.Context, card *domain.CreditCard) error

	// GetByID retrieves a card by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CreditCard, error)

	// List returns all cards ordered by name
	List(ctx context.Context) ([]*domain.CreditCard, error)

	// Update updates a card's billing configuration
	Update(ctx context.Context, card *domain.CreditCard) error

	// Delete removes a card and, by cascade, its purchases
	Delete(ctx context.Context, id uuid.UUID) error
}

// PurchaseRepository defines the interface for purchase data operations
type PurchaseRepository interface {
	// Create creates a new purchase
	Create(ctx context.Context, purchase *domain.Purchase) error

	// GetByID retrieves a purchase by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error)

	// ListByCard retrieves all purchases of a card ordered by purchase date
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.Purchase, error)

	// UpdateInstallmentState replaces the explicit paid and unpaid sets
	UpdateInstallmentState(ctx context.Context, id uuid.UUID, paid, unpaid []int64) (time.Time, error)

	// Delete removes a purchase
	Delete(ctx context.Context, id uuid.UUID) error
}

// InvoiceCache stores serialized invoice views keyed by string
type InvoiceCache interface {
	// Get returns the cached value and whether it was found
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value for ttl; zero ttl means no expiry
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
