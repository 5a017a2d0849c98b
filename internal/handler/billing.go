package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/segyhp/installment-engine/internal/config"
	"github.com/segyhp/installment-engine/internal/domain"
	"github.com/segyhp/installment-engine/internal/service"
	customError "github.com/segyhp/installment-engine/pkg/errors"
	"github.com/segyhp/installment-engine/pkg/response"
	"github.com/segyhp/installment-engine/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type BillingHandler struct {
	service      *service.BillingService
	validator    *validator.Validate
	log          *logrus.Logger
	reminderDays int
}

func NewBillingHandler(service *service.BillingService, cfg *config.Config, log *logrus.Logger) *BillingHandler {
	return &BillingHandler{
		service:      service,
		validator:    newValidator(),
		log:          log,
		reminderDays: cfg.Billing.ReminderDaysAhead,
	}
}

// newValidator registers "isodate" for YYYY-MM-DD or RFC3339 strings.
func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("isodate", isoDate); err != nil {
		panic(err)
	}
	return v
}

func isoDate(fl validator.FieldLevel) bool {
	_, err := utils.ParseDate(fl.Field().String(), time.UTC)
	return err == nil
}

// CreateCard handles POST /cards
func (h *BillingHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateCardRequest
	if !h.decode(w, r, &request) {
		return
	}

	card, err := h.service.CreateCard(r.Context(), &request)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Created(w, card)
}

// ListCards handles GET /cards
func (h *BillingHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.ListCards(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, cards)
}

// GetCard handles GET /cards/{cardId}
func (h *BillingHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := pathUUID(w, r, "cardId")
	if !ok {
		return
	}

	card, err := h.service.GetCard(r.Context(), cardID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, card)
}

// UpdateCard handles PUT /cards/{cardId}
func (h *BillingHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := pathUUID(w, r, "cardId")
	if !ok {
		return
	}
	var request domain.CreateCardRequest
	if !h.decode(w, r, &request) {
		return
	}

	card, err := h.service.UpdateCard(r.Context(), cardID, &request)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, card)
}

// DeleteCard handles DELETE /cards/{cardId}
func (h *BillingHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := pathUUID(w, r, "cardId")
	if !ok {
		return
	}

	if err := h.service.DeleteCard(r.Context(), cardID); err != nil {
		h.fail(w, r, err)
		return
	}

	response.NoContent(w)
}

// GetCardCycle handles GET /cards/{cardId}/cycle
func (h *BillingHandler) GetCardCycle(w http.ResponseWriter, r *http.Request) {
	cardID, ok := pathUUID(w, r, "cardId")
	if !ok {
		return
	}
	ref, ok := h.reference(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GetCardCycle(r.Context(), cardID, ref)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, summary)
}

// IsInCurrentCycle handles GET /cards/{cardId}/cycle/contains?date=
func (h *BillingHandler) IsInCurrentCycle(w http.ResponseWriter, r *http.Request) {
	cardID, ok := pathUUID(w, r, "cardId")
	if !ok {
		return
	}
	ref, ok := h.reference(w, r)
	if !ok {
		return
	}

	raw := r.URL.Query().Get("date")
	date, err := utils.ParseDate(raw, h.service.Location())
	if err != nil {
		response.FromError(w, customError.WrapInvalidDate(raw, err))
		return
	}

	inside, err := h.service.IsInCurrentCycle(r.Context(), cardID, date, ref)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"card_id":          cardID,
		"date":             utils.FormatDate(date),
		"in_current_cycle": inside,
	})
}

// ProjectCardExpenses handles GET /cards/{cardId}/projection?months=
func (h *BillingHandler) ProjectCardExpenses(w http.ResponseWriter, r *http.Request) {
	cardID, ok := pathUUID(w, r, "cardId")
	if !ok {
		return
	}
	ref, ok := h.reference(w, r)
	if !ok {
		return
	}
	months, ok := queryInt(w, r, "months", 0)
	if !ok {
		return
	}

	projection, err := h.service.ProjectCardExpenses(r.Context(), cardID, ref, months)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, projection)
}

// CreatePurchase handles POST /purchases
func (h *BillingHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var request domain.CreatePurchaseRequest
	if !h.decode(w, r, &request) {
		return
	}

	purchase, err := h.service.CreatePurchase(r.Context(), &request)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Created(w, purchase)
}

// GetPurchase handles GET /purchases/{purchaseId}
func (h *BillingHandler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	purchaseID, ok := pathUUID(w, r, "purchaseId")
	if !ok {
		return
	}

	purchase, err := h.service.GetPurchase(r.Context(), purchaseID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, purchase)
}

// DeletePurchase handles DELETE /purchases/{purchaseId}
func (h *BillingHandler) DeletePurchase(w http.ResponseWriter, r *http.Request) {
	purchaseID, ok := pathUUID(w, r, "purchaseId")
	if !ok {
		return
	}

	if err := h.service.DeletePurchase(r.Context(), purchaseID); err != nil {
		h.fail(w, r, err)
		return
	}

	response.NoContent(w)
}

// GetSchedule handles GET /purchases/{purchaseId}/schedule
func (h *BillingHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	purchaseID, ok := pathUUID(w, r, "purchaseId")
	if !ok {
		return
	}
	ref, ok := h.reference(w, r)
	if !ok {
		return
	}

	schedule, err := h.service.GetSchedule(r.Context(), purchaseID, ref)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, schedule)
}

// GetInvoiceInfo handles GET /purchases/{purchaseId}/invoice
func (h *BillingHandler) GetInvoiceInfo(w http.ResponseWriter, r *http.Request) {
	purchaseID, ok := pathUUID(w, r, "purchaseId")
	if !ok {
		return
	}
	ref, ok := h.reference(w, r)
	if !ok {
		return
	}

	info, err := h.service.GetInvoiceInfo(r.Context(), purchaseID, ref)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, info)
}

// ToggleInstallment handles POST /purchases/{purchaseId}/installments/{number}/toggle
func (h *BillingHandler) ToggleInstallment(w http.ResponseWriter, r *http.Request) {
	purchaseID, ok := pathUUID(w, r, "purchaseId")
	if !ok {
		return
	}
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		response.BadRequest(w, "Installment number must be an integer", err)
		return
	}

	purchase, err := h.service.ToggleInstallment(r.Context(), purchaseID, number)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, purchase)
}

// UpcomingInstallments handles GET /installments/upcoming?days=
func (h *BillingHandler) UpcomingInstallments(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.reference(w, r)
	if !ok {
		return
	}
	days, ok := queryInt(w, r, "days", h.reminderDays)
	if !ok {
		return
	}

	upcoming, err := h.service.UpcomingInstallments(r.Context(), ref, days)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, upcoming)
}

func (h *BillingHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return false
	}
	return true
}

// reference reads the optional ?reference= date; zero means "today".
func (h *BillingHandler) reference(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("reference")
	if raw == "" {
		return time.Time{}, true
	}
	ref, err := utils.ParseDate(raw, h.service.Location())
	if err != nil {
		response.FromError(w, customError.WrapInvalidDate(raw, err))
		return time.Time{}, false
	}
	return ref, true
}

func (h *BillingHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if customError.StatusCode(err) >= http.StatusInternalServerError {
		h.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}
	response.FromError(w, err)
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "Invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		response.BadRequest(w, "Query parameter "+name+" must be a non-negative integer", err)
		return 0, false
	}
	return n, true
}
