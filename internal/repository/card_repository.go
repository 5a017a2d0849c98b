package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/segyhp/installment-engine/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type cardRepository struct {
	db *sqlx.DB
}

func NewCardRepository(db *sqlx.DB) CardRepository {
	return &cardRepository{db: db}
}

const cardColumns = `id, name, last_four_digits, closing_day, due_day, credit_limit, created_at, updated_at`

func (r *cardRepository) Create(ctx context.Context, card *domain.CreditCard) error {
	query := `
		INSERT INTO credit_cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		card.ID,
		card.Name,
		card.LastFourDigits,
		card.ClosingDay,
		card.DueDay,
		card.CreditLimit,
		card.CreatedAt,
		card.UpdatedAt,
	)

	return err
}

func (r *cardRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CreditCard, error) {
	query := `SELECT ` + cardColumns + ` FROM credit_cards WHERE id = $1`

	var card domain.CreditCard
	if err := r.db.GetContext(ctx, &card, query, id); err != nil {
		return nil, err
	}

	return &card, nil
}

func (r *cardRepository) List(ctx context.Context) ([]*domain.CreditCard, error) {
	query := `SELECT ` + cardColumns + ` FROM credit_cards ORDER BY name, created_at`

	var cards []*domain.CreditCard
	if err := r.db.SelectContext(ctx, &cards, query); err != nil {
		return nil, err
	}

	return cards, nil
}

func (r *cardRepository) Update(ctx context.Context, card *domain.CreditCard) error {
	query := `
		UPDATE credit_cards
		SET name = $2, last_four_digits = $3, closing_day = $4, due_day = $5, credit_limit = $6, updated_at = $7
		WHERE id = $1
	`

	card.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		card.ID,
		card.Name,
		card.LastFourDigits,
		card.ClosingDay,
		card.DueDay,
		card.CreditLimit,
		card.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return requireAffected(result)
}

func (r *cardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM credit_cards WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return requireAffected(result)
}

// requireAffected turns a write that matched no row into sql.ErrNoRows.
func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
