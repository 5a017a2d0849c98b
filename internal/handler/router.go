package handler

import (
	"github.com/segyhp/installment-engine/pkg/response"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func NewRouter(billingHandler *BillingHandler, healthHandler *HealthHandler, log logrus.FieldLogger) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(log), response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/cards", billingHandler.CreateCard).Methods("POST")
	api.HandleFunc("/cards", billingHandler.ListCards).Methods("GET")
	api.HandleFunc("/cards/{cardId}", billingHandler.GetCard).Methods("GET")
	api.HandleFunc("/cards/{cardId}", billingHandler.UpdateCard).Methods("PUT")
	api.HandleFunc("/cards/{cardId}", billingHandler.DeleteCard).Methods("DELETE")
	api.HandleFunc("/cards/{cardId}/cycle", billingHandler.GetCardCycle).Methods("GET")
	api.HandleFunc("/cards/{cardId}/cycle/contains", billingHandler.IsInCurrentCycle).Methods("GET")
	api.HandleFunc("/cards/{cardId}/projection", billingHandler.ProjectCardExpenses).Methods("GET")

	api.HandleFunc("/purchases", billingHandler.CreatePurchase).Methods("POST")
	api.HandleFunc("/purchases/{purchaseId}", billingHandler.GetPurchase).Methods("GET")
	api.HandleFunc("/purchases/{purchaseId}", billingHandler.DeletePurchase).Methods("DELETE")
	api.HandleFunc("/purchases/{purchaseId}/schedule", billingHandler.GetSchedule).Methods("GET")
	api.HandleFunc("/purchases/{purchaseId}/invoice", billingHandler.GetInvoiceInfo).Methods("GET")
	api.HandleFunc("/purchases/{purchaseId}/installments/{number}/toggle", billingHandler.ToggleInstallment).Methods("POST")

	api.HandleFunc("/installments/upcoming", billingHandler.UpcomingInstallments).Methods("GET")

	return router
}
