package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/segyhp/installment-engine/internal/billing"
	"github.com/segyhp/installment-engine/internal/config"
	"github.com/segyhp/installment-engine/internal/domain"
	"github.com/segyhp/installment-engine/internal/repository"
	customError "github.com/segyhp/installment-engine/pkg/errors"
	"github.com/segyhp/installment-engine/pkg/utils"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type BillingService struct {
	CardRepo     repository.CardRepository
	PurchaseRepo repository.PurchaseRepository
	cache        repository.InvoiceCache
	log          *logrus.Logger
	location     *time.Location
	cacheTTL     time.Duration
	projection   int
	now          func() time.Time
}

// NewBillingService wires the service. cache may be nil, in which case
// invoice views are always computed.
func NewBillingService(
	cardRepo repository.CardRepository,
	purchaseRepo repository.PurchaseRepository,
	cache repository.InvoiceCache,
	cfg *config.Config,
	log *logrus.Logger,
) *BillingService {
	return &BillingService{
		CardRepo:     cardRepo,
		PurchaseRepo: purchaseRepo,
		cache:        cache,
		log:          log,
		location:     cfg.Billing.Location(),
		cacheTTL:     cfg.Billing.InvoiceCacheTTL,
		projection:   cfg.Billing.ProjectionMonths,
		now:          time.Now,
	}
}

// Location is the zone calendar dates are interpreted in.
func (s *BillingService) Location() *time.Location {
	return s.location
}

// Today returns the current calendar date in the service location.
func (s *BillingService) Today() time.Time {
	return utils.Normalize(s.now().In(s.location))
}

// reference resolves the date a read is evaluated on; zero means today.
func (s *BillingService) reference(ref time.Time) time.Time {
	if ref.IsZero() {
		return s.Today()
	}
	return utils.Normalize(ref.In(s.location))
}

// CreateCard validates and stores a new card
func (s *BillingService) CreateCard(ctx context.Context, request *domain.CreateCardRequest) (*domain.CreditCard, error) {
	if err := billing.ValidateDay("closing day", request.ClosingDay); err != nil {
		return nil, err
	}
	if err := billing.ValidateDay("due day", request.DueDay); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	card := &domain.CreditCard{
		ID:             uuid.New(),
		Name:           request.Name,
		LastFourDigits: request.LastFourDigits,
		ClosingDay:     request.ClosingDay,
		DueDay:         request.DueDay,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if request.CreditLimit != nil {
		if request.CreditLimit.IsNegative() {
			return nil, customError.WrapInvalidAmount(request.CreditLimit.String())
		}
		card.CreditLimit = decimal.NewNullDecimal(*request.CreditLimit)
	}

	if err := s.CardRepo.Create(ctx, card); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.log.WithFields(logrus.Fields{
		"card_id":     card.ID,
		"closing_day": card.ClosingDay,
		"due_day":     card.DueDay,
	}).Info("credit card created")

	return card, nil
}

// GetCard returns a card or CARD_NOT_FOUND
func (s *BillingService) GetCard(ctx context.Context, cardID uuid.UUID) (*domain.CreditCard, error) {
	card, err := s.CardRepo.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapCardNotFound(cardID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return card, nil
}

func (s *BillingService) ListCards(ctx context.Context) ([]*domain.CreditCard, error) {
	cards, err := s.CardRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if cards == nil {
		cards = []*domain.CreditCard{}
	}
	return cards, nil
}

// UpdateCard replaces a card's name and billing configuration
func (s *BillingService) UpdateCard(ctx context.Context, cardID uuid.UUID, request *domain.CreateCardRequest) (*domain.CreditCard, error) {
	card, err := s.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := billing.ValidateDay("closing day", request.ClosingDay); err != nil {
		return nil, err
	}
	if err := billing.ValidateDay("due day", request.DueDay); err != nil {
		return nil, err
	}

	card.Name = request.Name
	card.LastFourDigits = request.LastFourDigits
	card.ClosingDay = request.ClosingDay
	card.DueDay = request.DueDay
	card.CreditLimit = decimal.NullDecimal{}
	if request.CreditLimit != nil {
		if request.CreditLimit.IsNegative() {
			return nil, customError.WrapInvalidAmount(request.CreditLimit.String())
		}
		card.CreditLimit = decimal.NewNullDecimal(*request.CreditLimit)
	}

	if err := s.CardRepo.Update(ctx, card); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapCardNotFound(cardID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return card, nil
}

func (s *BillingService) DeleteCard(ctx context.Context, cardID uuid.UUID) error {
	if err := s.CardRepo.Delete(ctx, cardID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapCardNotFound(cardID.String())
		}
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// CreatePurchase validates the purchase terms against its card and stores it
func (s *BillingService) CreatePurchase(ctx context.Context, request *domain.CreatePurchaseRequest) (*domain.Purchase, error) {
	cardID, err := uuid.Parse(request.CardID)
	if err != nil {
		return nil, customError.WrapCardNotFound(request.CardID)
	}
	if _, err := s.GetCard(ctx, cardID); err != nil {
		return nil, err
	}

	date, err := utils.ParseDate(request.Date, s.location)
	if err != nil {
		return nil, customError.WrapInvalidDate(request.Date, err)
	}

	now := s.now().UTC()
	purchase := &domain.Purchase{
		ID:                 uuid.New(),
		CardID:             cardID,
		Description:        request.Description,
		Category:           request.Category,
		Amount:             request.Amount,
		Date:               date,
		InstallmentCount:   request.InstallmentCount,
		PaidInstallments:   toInt64Array(request.PaidInstallments),
		UnpaidInstallments: toInt64Array(request.UnpaidInstallments),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := billing.ValidatePurchase(purchase); err != nil {
		return nil, err
	}
	for _, n := range slices.Concat(request.PaidInstallments, request.UnpaidInstallments) {
		if n < 1 || n > purchase.InstallmentCount {
			return nil, customError.WrapInvalidInstallmentNumber(n, purchase.InstallmentCount)
		}
	}
	s.warnConflicts(purchase)

	if err := s.PurchaseRepo.Create(ctx, purchase); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.log.WithFields(logrus.Fields{
		"purchase_id":  purchase.ID,
		"card_id":      purchase.CardID,
		"installments": purchase.InstallmentCount,
	}).Info("purchase created")

	return purchase, nil
}

// GetPurchase returns a purchase or PURCHASE_NOT_FOUND
func (s *BillingService) GetPurchase(ctx context.Context, purchaseID uuid.UUID) (*domain.Purchase, error) {
	purchase, err := s.PurchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapPurchaseNotFound(purchaseID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return purchase, nil
}

func (s *BillingService) DeletePurchase(ctx context.Context, purchaseID uuid.UUID) error {
	if err := s.PurchaseRepo.Delete(ctx, purchaseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapPurchaseNotFound(purchaseID.String())
		}
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// GetSchedule returns every installment of a purchase with its paid status on ref
func (s *BillingService) GetSchedule(ctx context.Context, purchaseID uuid.UUID, ref time.Time) ([]domain.Installment, error) {
	purchase, _, calc, err := s.purchaseWithCalculator(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	return calc.Installments(purchase, s.reference(ref))
}

// GetInvoiceInfo returns the invoice view of a purchase on ref. Views are
// cached per purchase version, card due day and reference date.
func (s *BillingService) GetInvoiceInfo(ctx context.Context, purchaseID uuid.UUID, ref time.Time) (*domain.InvoiceInfo, error) {
	purchase, card, calc, err := s.purchaseWithCalculator(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	ref = s.reference(ref)
	key := invoiceCacheKey(card, purchase, ref)

	if cached, ok := s.cachedInvoice(ctx, key); ok {
		return cached, nil
	}

	info, err := calc.Info(ref, purchase)
	if err != nil {
		return nil, err
	}
	s.storeInvoice(ctx, key, info)

	return info, nil
}

// ToggleInstallment moves installment number through paid, explicitly
// unpaid and inferred, in that order.
func (s *BillingService) ToggleInstallment(ctx context.Context, purchaseID uuid.UUID, number int) (*domain.Purchase, error) {
	purchase, err := s.GetPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if number < 1 || number > purchase.InstallmentCount {
		return nil, customError.WrapInvalidInstallmentNumber(number, purchase.InstallmentCount)
	}

	paid, unpaid := billing.ToggleInstallment(purchase, number)
	updatedAt, err := s.PurchaseRepo.UpdateInstallmentState(ctx, purchase.ID, paid, unpaid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapPurchaseNotFound(purchaseID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	purchase.PaidInstallments = paid
	purchase.UnpaidInstallments = unpaid
	purchase.UpdatedAt = updatedAt

	s.log.WithFields(logrus.Fields{
		"purchase_id": purchase.ID,
		"installment": number,
		"paid":        purchase.MarkedPaid(number),
		"unpaid":      purchase.MarkedUnpaid(number),
	}).Info("installment state toggled")

	return purchase, nil
}

func (s *BillingService) purchaseWithCalculator(ctx context.Context, purchaseID uuid.UUID) (*domain.Purchase, *domain.CreditCard, *billing.InvoiceCalculator, error) {
	purchase, err := s.GetPurchase(ctx, purchaseID)
	if err != nil {
		return nil, nil, nil, err
	}
	card, err := s.GetCard(ctx, purchase.CardID)
	if err != nil {
		return nil, nil, nil, err
	}
	calc, err := billing.NewInvoiceCalculator(card.DueDay)
	if err != nil {
		return nil, nil, nil, err
	}
	s.warnConflicts(purchase)
	return s.inLocation(purchase), card, calc, nil
}

// inLocation returns a copy of p whose purchase date carries the service zone.
func (s *BillingService) inLocation(p *domain.Purchase) *domain.Purchase {
	c := *p
	y, m, d := p.Date.Date()
	c.Date = time.Date(y, m, d, 0, 0, 0, 0, s.location)
	return &c
}

func (s *BillingService) warnConflicts(p *domain.Purchase) {
	if conflicts := billing.ConflictingInstallments(p); len(conflicts) > 0 {
		s.log.WithFields(logrus.Fields{
			"purchase_id":  p.ID,
			"installments": conflicts,
		}).Warn("installments marked both paid and unpaid; unpaid wins")
	}
}

// invoiceCacheKey covers every input of the invoice view: the purchase
// version, the card's due day and the reference date.
func invoiceCacheKey(card *domain.CreditCard, p *domain.Purchase, ref time.Time) string {
	return fmt.Sprintf("invoice:%s:%d:due%d:%s", p.ID, p.UpdatedAt.UnixNano(), card.DueDay, utils.FormatDate(ref))
}

func (s *BillingService) cachedInvoice(ctx context.Context, key string) (*domain.InvoiceInfo, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.WithError(customError.WrapCacheError(err)).Warn("invoice cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var info domain.InvoiceInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("discarding unreadable invoice cache entry")
		return nil, false
	}
	if info.PaidInstallments == nil {
		info.PaidInstallments = []int{}
	}
	return &info, true
}

func (s *BillingService) storeInvoice(ctx context.Context, key string, info *domain.InvoiceInfo) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(info)
	if err != nil {
		s.log.WithError(err).Warn("encoding invoice for cache failed")
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		s.log.WithError(customError.WrapCacheError(err)).Warn("invoice cache write failed")
	}
}

func toInt64Array(values []int) pq.Int64Array {
	out := make(pq.Int64Array, 0, len(values))
	for _, v := range values {
		out = append(out, int64(v))
	}
	return out
}
