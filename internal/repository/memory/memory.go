// Package memory provides a mutex-guarded in-memory implementation of the
// repository interfaces. It backs local development without a database and
// the concurrency tests for the allocation invariants.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/assignon/verzendconnect/internal/domain"
	"github.com/assignon/verzendconnect/internal/repository"
)

// Store bundles the in-memory repositories the same way the postgres store
// does, all backed by one locked state.
type Store struct {
	repository.ItemRepository
	repository.RecordRepository
	repository.MovementRepository
	repository.NotificationRepository
}

func NewStore() *Store {
	st := &state{
		items:   make(map[int32]*domain.RentalItem),
		records: make(map[int32]*domain.RentalRecord),
	}
	return &Store{
		ItemRepository:         &itemRepository{st},
		RecordRepository:       &recordRepository{st},
		MovementRepository:     &movementRepository{st},
		NotificationRepository: &notificationRepository{st},
	}
}

type state struct {
	mu sync.Mutex

	items         map[int32]*domain.RentalItem
	records       map[int32]*domain.RentalRecord
	movements     []domain.StockMovement
	notifications []domain.Notification

	nextItemID     int32
	nextRecordID   int32
	nextMovementID int32
	nextNoteID     int32
}

func (st *state) openByItemLocked(itemID int32) []domain.RentalRecord {
	var open []domain.RentalRecord
	for _, rec := range st.records {
		if rec.ItemID == itemID && !rec.IsReturned {
			open = append(open, *rec)
		}
	}
	return open
}

func (st *state) appendMovementLocked(itemID, delta int32, movementType domain.MovementType, recordID *int32, note string) {
	st.nextMovementID++
	st.movements = append(st.movements, domain.StockMovement{
		ID:              st.nextMovementID,
		ItemID:          itemID,
		Quantity:        delta,
		Type:            movementType,
		RelatedRecordID: recordID,
		Note:            note,
		CreatedOn:       time.Now(),
	})
}

func cloneItem(item *domain.RentalItem) *domain.RentalItem {
	c := *item
	return &c
}

func cloneRecord(rec *domain.RentalRecord) *domain.RentalRecord {
	c := *rec
	return &c
}

type itemRepository struct {
	st *state
}

func (r *itemRepository) Create(ctx context.Context, item *domain.RentalItem) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	r.st.nextItemID++
	item.ID = r.st.nextItemID
	now := time.Now()
	item.CreatedOn = now
	item.UpdatedOn = now
	r.st.items[item.ID] = cloneItem(item)
	return nil
}

func (r *itemRepository) GetByID(ctx context.Context, id int32) (*domain.RentalItem, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	item, ok := r.st.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneItem(item), nil
}

func (r *itemRepository) Update(ctx context.Context, item *domain.RentalItem) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	existing, ok := r.st.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	// Stock only moves through AdjustStock, Allocate and MarkReturned.
	updated := cloneItem(item)
	updated.OnHandStock = existing.OnHandStock
	updated.CreatedOn = existing.CreatedOn
	updated.UpdatedOn = time.Now()
	r.st.items[item.ID] = updated
	return nil
}

func (r *itemRepository) Deactivate(ctx context.Context, id int32) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	item, ok := r.st.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	item.IsActive = false
	item.UpdatedOn = time.Now()
	return nil
}

func (r *itemRepository) List(ctx context.Context, page, pageSize int32) ([]domain.RentalItem, int32, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	all := make([]domain.RentalItem, 0, len(r.st.items))
	for _, item := range r.st.items {
		all = append(all, *item)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	return paginate(all, page, pageSize), int32(len(all)), nil
}

func (r *itemRepository) AdjustStock(ctx context.Context, itemID, delta int32, movementType domain.MovementType, note string) (*domain.RentalItem, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	item, ok := r.st.items[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if item.OnHandStock+delta < 0 {
		return nil, domain.NewValidationError(fmt.Sprintf("adjustment of %d would make stock negative", delta))
	}
	item.OnHandStock += delta
	item.UpdatedOn = time.Now()
	r.st.appendMovementLocked(itemID, delta, movementType, nil, note)
	return cloneItem(item), nil
}

type recordRepository struct {
	st *state
}

func (r *recordRepository) GetByID(ctx context.Context, id int32) (*domain.RentalRecord, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	rec, ok := r.st.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (r *recordRepository) GetByReference(ctx context.Context, reference string) (*domain.RentalRecord, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for _, rec := range r.st.records {
		if rec.Reference == reference {
			return cloneRecord(rec), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *recordRepository) ListOpenByItem(ctx context.Context, itemID int32) ([]domain.RentalRecord, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return r.st.openByItemLocked(itemID), nil
}

func (r *recordRepository) ListByItem(ctx context.Context, itemID int32, openOnly bool, page, pageSize int32) ([]domain.RentalRecord, int32, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var all []domain.RentalRecord
	for _, rec := range r.st.records {
		if rec.ItemID != itemID {
			continue
		}
		if openOnly && rec.IsReturned {
			continue
		}
		all = append(all, *rec)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	return paginate(all, page, pageSize), int32(len(all)), nil
}

func (r *recordRepository) ListOverdue(ctx context.Context, today time.Time) ([]domain.RentalRecord, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var overdue []domain.RentalRecord
	for _, rec := range r.st.records {
		if rec.IsOverdue(today) {
			overdue = append(overdue, *rec)
		}
	}
	sort.Slice(overdue, func(i, j int) bool { return overdue[i].ReturnDate.Before(overdue[j].ReturnDate) })
	return overdue, nil
}

func (r *recordRepository) Allocate(ctx context.Context, rec *domain.RentalRecord) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	item, ok := r.st.items[rec.ItemID]
	if !ok {
		return domain.ErrNotFound
	}

	// On-hand is the binding check: due-back units relax the quote, never
	// the physical decrement.
	if rec.Quantity > item.OnHandStock {
		return domain.ErrInsufficientStock
	}

	item.OnHandStock -= rec.Quantity
	item.UpdatedOn = time.Now()

	r.st.nextRecordID++
	rec.ID = r.st.nextRecordID
	rec.IsReturned = false
	rec.CreatedOn = time.Now()
	r.st.records[rec.ID] = cloneRecord(rec)

	recordID := rec.ID
	r.st.appendMovementLocked(rec.ItemID, -rec.Quantity, domain.MovementTypeAllocate, &recordID,
		fmt.Sprintf("allocation %s", rec.Reference))
	return nil
}

func (r *recordRepository) MarkReturned(ctx context.Context, recordID int32, returnedAt time.Time) (*domain.RentalRecord, bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	rec, ok := r.st.records[recordID]
	if !ok {
		return nil, false, domain.ErrNotFound
	}
	if rec.IsReturned {
		return cloneRecord(rec), true, nil
	}

	item, ok := r.st.items[rec.ItemID]
	if !ok {
		return nil, false, domain.ErrNotFound
	}
	item.OnHandStock += rec.Quantity
	item.UpdatedOn = time.Now()

	rec.IsReturned = true
	rec.ReturnedAt = &returnedAt

	recordID = rec.ID
	r.st.appendMovementLocked(rec.ItemID, rec.Quantity, domain.MovementTypeReturn, &recordID,
		fmt.Sprintf("return of allocation %s", rec.Reference))
	return cloneRecord(rec), false, nil
}

type movementRepository struct {
	st *state
}

func (r *movementRepository) ListByItem(ctx context.Context, itemID int32, page, pageSize int32) ([]domain.StockMovement, int32, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var all []domain.StockMovement
	for _, m := range r.st.movements {
		if m.ItemID == itemID {
			all = append(all, m)
		}
	}
	return paginate(all, page, pageSize), int32(len(all)), nil
}

type notificationRepository struct {
	st *state
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	r.st.nextNoteID++
	n.ID = r.st.nextNoteID
	n.CreatedOn = time.Now()
	r.st.notifications = append(r.st.notifications, *n)
	return nil
}

func (r *notificationRepository) List(ctx context.Context, limit, offset int32) ([]domain.Notification, int32, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	total := int32(len(r.st.notifications))
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := make([]domain.Notification, end-offset)
	copy(out, r.st.notifications[offset:end])
	return out, total, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id int32) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for i := range r.st.notifications {
		if r.st.notifications[i].ID == id {
			r.st.notifications[i].IsRead = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func paginate[T any](all []T, page, pageSize int32) []T {
	if pageSize <= 0 {
		return all
	}
	start := (page - 1) * pageSize
	if start < 0 || start >= int32(len(all)) {
		return nil
	}
	end := start + pageSize
	if end > int32(len(all)) {
		end = int32(len(all))
	}
	out := make([]T, end-start)
	copy(out, all[start:end])
	return out
}
