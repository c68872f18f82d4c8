package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/assignon/verzendconnect/internal/domain"
	"github.com/assignon/verzendconnect/internal/service"
)

// RentalHandler serves availability checks and the allocation lifecycle
type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

// CheckAvailability answers GET /items/{id}/availability?start=&end=&quantity=
func (h *RentalHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	start, err := parseDate(q.Get("start"), "start date")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDate(q.Get("end"), "end date")
	if err != nil {
		writeError(w, err)
		return
	}
	quantity := int64(1)
	if raw := q.Get("quantity"); raw != "" {
		quantity, err = strconv.ParseInt(raw, 10, 32)
		if err != nil || quantity < 1 {
			writeError(w, domain.NewValidationError("invalid quantity"))
			return
		}
	}

	result, err := h.rentalSvc.CheckAvailability(r.Context(), itemID, start, end, int32(quantity))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type allocationRequest struct {
	ItemID        int32  `json:"item_id"`
	StartDate     string `json:"start_date"`
	ReturnDate    string `json:"return_date"`
	Quantity      int32  `json:"quantity"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

func (h *RentalHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req allocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("invalid request body"))
		return
	}

	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDate(req.ReturnDate, "return_date")
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := h.rentalSvc.Allocate(r.Context(), service.AllocationRequest{
		ItemID:        req.ItemID,
		StartDate:     start,
		ReturnDate:    end,
		Quantity:      req.Quantity,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

type returnResponse struct {
	Record          *domain.RentalRecord `json:"record"`
	AlreadyReturned bool                 `json:"already_returned"`
}

func (h *RentalHandler) MarkReturned(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]

	record, alreadyReturned, err := h.rentalSvc.MarkReturned(r.Context(), reference)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, returnResponse{
		Record:          record,
		AlreadyReturned: alreadyReturned,
	})
}

func (h *RentalHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]

	record, err := h.rentalSvc.GetRecord(r.Context(), reference)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *RentalHandler) ListByItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	page, pageSize := pagination(r)
	openOnly := r.URL.Query().Get("open") == "true"
	records, total, err := h.rentalSvc.ListRecords(r.Context(), itemID, openOnly, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"total":   total,
	})
}

func (h *RentalHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	overdue, err := h.rentalSvc.ListOverdue(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"overdue": overdue,
	})
}
