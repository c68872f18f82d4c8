package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/assignon/verzendconnect/internal/domain"
	"github.com/assignon/verzendconnect/internal/service"
)

// ItemHandler serves the rental item catalog endpoints
type ItemHandler struct {
	itemSvc service.ItemService
}

func NewItemHandler(itemSvc service.ItemService) *ItemHandler {
	return &ItemHandler{itemSvc: itemSvc}
}

type itemRequest struct {
	Name                 string  `json:"name"`
	SKU                  string  `json:"sku"`
	Kind                 string  `json:"kind"`
	OnHandStock          int32   `json:"on_hand_stock"`
	MinLeadDays          *int32  `json:"min_lead_days"`
	EarliestRentableDate *string `json:"earliest_rentable_date"`
	LatestReturnableDate *string `json:"latest_returnable_date"`
}

func (req *itemRequest) toDomain() (*domain.RentalItem, error) {
	item := &domain.RentalItem{
		Name:        req.Name,
		SKU:         req.SKU,
		Kind:        domain.ItemKind(req.Kind),
		OnHandStock: req.OnHandStock,
		MinLeadDays: req.MinLeadDays,
	}
	if req.EarliestRentableDate != nil {
		d, err := parseDate(*req.EarliestRentableDate, "earliest_rentable_date")
		if err != nil {
			return nil, err
		}
		item.EarliestRentableDate = &d
	}
	if req.LatestReturnableDate != nil {
		d, err := parseDate(*req.LatestReturnableDate, "latest_returnable_date")
		if err != nil {
			return nil, err
		}
		item.LatestReturnableDate = &d
	}
	return item, nil
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("invalid request body"))
		return
	}

	item, err := req.toDomain()
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.itemSvc.AddItem(r.Context(), item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	item, err := h.itemSvc.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type updateItemRequest struct {
	Name                 *string `json:"name"`
	SKU                  *string `json:"sku"`
	Kind                 *string `json:"kind"`
	MinLeadDays          *int32  `json:"min_lead_days"`
	EarliestRentableDate *string `json:"earliest_rentable_date"`
	LatestReturnableDate *string `json:"latest_returnable_date"`
}

// Update applies a partial update: only the fields present in the request
// body change, everything else keeps its stored value. Activation state is
// owned by Deactivate and never touched here.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("invalid request body"))
		return
	}

	item, err := h.itemSvc.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.SKU != nil {
		item.SKU = *req.SKU
	}
	if req.Kind != nil {
		item.Kind = domain.ItemKind(*req.Kind)
	}
	if req.MinLeadDays != nil {
		item.MinLeadDays = req.MinLeadDays
	}
	if req.EarliestRentableDate != nil {
		d, err := parseDate(*req.EarliestRentableDate, "earliest_rentable_date")
		if err != nil {
			writeError(w, err)
			return
		}
		item.EarliestRentableDate = &d
	}
	if req.LatestReturnableDate != nil {
		d, err := parseDate(*req.LatestReturnableDate, "latest_returnable_date")
		if err != nil {
			writeError(w, err)
			return
		}
		item.LatestReturnableDate = &d
	}

	if err := h.itemSvc.UpdateItem(r.Context(), item); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.itemSvc.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ItemHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.itemSvc.DeactivateItem(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	items, total, err := h.itemSvc.ListItems(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
	})
}

type adjustStockRequest struct {
	Delta int32  `json:"delta"`
	Note  string `json:"note"`
}

func (h *ItemHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("invalid request body"))
		return
	}

	item, err := h.itemSvc.ProvisionStock(r.Context(), id, req.Delta, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	page, pageSize := pagination(r)
	movements, total, err := h.itemSvc.ListStockMovements(r.Context(), id, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"movements": movements,
		"total":     total,
	})
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id < 1 {
		return 0, domain.NewValidationError("invalid " + name)
	}
	return int32(id), nil
}

func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 {
			page = int32(v)
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 {
			pageSize = int32(v)
		}
	}
	return page, pageSize
}
