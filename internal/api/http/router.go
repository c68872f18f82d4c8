package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/assignon/verzendconnect/internal/service"
)

// NewRouter wires all HTTP endpoints
func NewRouter(itemSvc service.ItemService, rentalSvc service.RentalService, noteSvc service.NotificationService) *mux.Router {
	itemHandler := NewItemHandler(itemSvc)
	rentalHandler := NewRentalHandler(rentalSvc)
	noteHandler := NewNotificationHandler(noteSvc)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/items", itemHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/items", itemHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}", itemHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}", itemHandler.Update).Methods(http.MethodPatch)
	api.HandleFunc("/items/{id}", itemHandler.Deactivate).Methods(http.MethodDelete)
	api.HandleFunc("/items/{id}/stock", itemHandler.AdjustStock).Methods(http.MethodPost)
	api.HandleFunc("/items/{id}/movements", itemHandler.ListMovements).Methods(http.MethodGet)

	api.HandleFunc("/items/{id}/availability", rentalHandler.CheckAvailability).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}/allocations", rentalHandler.ListByItem).Methods(http.MethodGet)
	api.HandleFunc("/allocations", rentalHandler.Allocate).Methods(http.MethodPost)
	api.HandleFunc("/allocations/overdue", rentalHandler.ListOverdue).Methods(http.MethodGet)
	api.HandleFunc("/allocations/{reference}", rentalHandler.GetRecord).Methods(http.MethodGet)
	api.HandleFunc("/allocations/{reference}/return", rentalHandler.MarkReturned).Methods(http.MethodPost)

	api.HandleFunc("/notifications", noteHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", noteHandler.MarkAsRead).Methods(http.MethodPost)

	return r
}
