package repository

import (
	"context"
	"time"

	"github.com/segyhp/installment-engine/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type purchaseRepository struct {
	db *sqlx.DB
}

func NewPurchaseRepository(db *sqlx.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

const purchaseColumns = `id, card_id, description, category, amount, purchase_date, installment_count,
	paid_installments, unpaid_installments, created_at, updated_at`

func (r *purchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) error {
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		purchase.ID,
		purchase.CardID,
		purchase.Description,
		purchase.Category,
		purchase.Amount,
		purchase.Date,
		purchase.InstallmentCount,
		nonNil(purchase.PaidInstallments),
		nonNil(purchase.UnpaidInstallments),
		purchase.CreatedAt,
		purchase.UpdatedAt,
	)

	return err
}

func (r *purchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`

	var purchase domain.Purchase
	if err := r.db.GetContext(ctx, &purchase, query, id); err != nil {
		return nil, err
	}

	return &purchase, nil
}

func (r *purchaseRepository) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE card_id = $1 ORDER BY purchase_date, created_at`

	var purchases []*domain.Purchase
	if err := r.db.SelectContext(ctx, &purchases, query, cardID); err != nil {
		return nil, err
	}

	return purchases, nil
}

func (r *purchaseRepository) UpdateInstallmentState(ctx context.Context, id uuid.UUID, paid, unpaid []int64) (time.Time, error) {
	query := `
		UPDATE purchases
		SET paid_installments = $2, unpaid_installments = $3, updated_at = $4
		WHERE id = $1
	`

	updatedAt := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query, id, nonNil(paid), nonNil(unpaid), updatedAt)
	if err != nil {
		return time.Time{}, err
	}
	if err := requireAffected(result); err != nil {
		return time.Time{}, err
	}

	return updatedAt, nil
}

func (r *purchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return requireAffected(result)
}

// nonNil keeps the NOT NULL array columns as '{}' instead of NULL.
func nonNil(values []int64) pq.Int64Array {
	if values == nil {
		return pq.Int64Array{}
	}
	return pq.Int64Array(values)
}
