package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/segyhp/installment-engine/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

var purchaseColumnNames = []string{
	"id", "card_id", "description", "category", "amount", "purchase_date", "installment_count",
	"paid_installments", "unpaid_installments", "created_at", "updated_at",
}

func TestCardRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCardRepository(db)

	card := &domain.CreditCard{
		ID:          uuid.New(),
		Name:        "Nubank",
		ClosingDay:  3,
		DueDay:      10,
		CreditLimit: decimal.NewNullDecimal(decimal.RequireFromString("5000")),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO credit_cards")).
		WithArgs(card.ID, "Nubank", "", 3, 10, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), card))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCardRepository(db)
	id := uuid.New()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "last_four_digits", "closing_day", "due_day", "credit_limit", "created_at", "updated_at"}).
			AddRow(id.String(), "Inter", "1234", 25, 5, nil, now, now)
		mock.ExpectQuery(regexp.QuoteMeta("FROM credit_cards WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(rows)

		card, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, card.ID)
		assert.Equal(t, "1234", card.LastFourDigits)
		assert.Equal(t, 25, card.ClosingDay)
		assert.Equal(t, 5, card.DueDay)
		assert.False(t, card.CreditLimit.Valid)
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM credit_cards WHERE id = $1")).
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_DeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCardRepository(db)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM credit_cards WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), id)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepository_GetByIDScansArrays(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPurchaseRepository(db)
	id, cardID := uuid.New(), uuid.New()
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(purchaseColumnNames).
		AddRow(id.String(), cardID.String(), "Notebook", "electronics", "1200.00", date, 12, "{1,2}", "{3}", date, date)
	mock.ExpectQuery(regexp.QuoteMeta("FROM purchases WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(rows)

	p, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, cardID, p.CardID)
	assert.True(t, decimal.RequireFromString("1200").Equal(p.Amount))
	assert.Equal(t, pq.Int64Array{1, 2}, p.PaidInstallments)
	assert.Equal(t, pq.Int64Array{3}, p.UnpaidInstallments)
	assert.True(t, p.MarkedPaid(2))
	assert.True(t, p.MarkedUnpaid(3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepository_ListByCard(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPurchaseRepository(db)
	cardID := uuid.New()
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(purchaseColumnNames).
		AddRow(uuid.NewString(), cardID.String(), "A", "", "100", date, 1, "{}", "{}", date, date).
		AddRow(uuid.NewString(), cardID.String(), "B", "", "300", date, 3, "{}", "{}", date, date)
	mock.ExpectQuery(regexp.QuoteMeta("FROM purchases WHERE card_id = $1 ORDER BY purchase_date")).
		WithArgs(cardID).
		WillReturnRows(rows)

	purchases, err := repo.ListByCard(context.Background(), cardID)
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.Equal(t, "B", purchases[1].Description)
	assert.Empty(t, purchases[0].PaidInstallments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepository_UpdateInstallmentState(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "updated", affected: 1},
		{name: "missing purchase", affected: 0, wantErr: sql.ErrNoRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewPurchaseRepository(db)

			mock.ExpectExec(regexp.QuoteMeta("UPDATE purchases")).
				WithArgs(id, "{1,2}", "{}", sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			updatedAt, err := repo.UpdateInstallmentState(context.Background(), id, []int64{1, 2}, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, updatedAt.IsZero())
			} else {
				require.NoError(t, err)
				assert.False(t, updatedAt.IsZero())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, pq.Int64Array{}, nonNil(nil))
	assert.Equal(t, pq.Int64Array{4}, nonNil([]int64{4}))
}

func TestCardRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCardRepository(db)
	card := &domain.CreditCard{ID: uuid.New(), Name: "Inter", ClosingDay: 28, DueDay: 5}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE credit_cards")).
		WithArgs(card.ID, "Inter", "", 28, 5, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), card))
	assert.False(t, card.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
