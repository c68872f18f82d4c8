package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/assignon/verzendconnect/internal/domain"
	"github.com/assignon/verzendconnect/internal/repository"
)

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

const itemColumns = `id, name, sku, kind, on_hand_stock, min_lead_days, earliest_rentable_date, latest_returnable_date, is_active, created_on, updated_on`

func scanItem(row interface{ Scan(...interface{}) error }) (*domain.RentalItem, error) {
	item := &domain.RentalItem{}
	err := row.Scan(&item.ID, &item.Name, &item.SKU, &item.Kind, &item.OnHandStock,
		&item.MinLeadDays, &item.EarliestRentableDate, &item.LatestReturnableDate,
		&item.IsActive, &item.CreatedOn, &item.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepository) Create(ctx context.Context, item *domain.RentalItem) error {
	query := `INSERT INTO rental_items (name, sku, kind, on_hand_stock, min_lead_days, earliest_rentable_date, latest_returnable_date, is_active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_on, updated_on`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		item.Name, item.SKU, item.Kind, item.OnHandStock, item.MinLeadDays,
		item.EarliestRentableDate, item.LatestReturnableDate, item.IsActive, now, now,
	).Scan(&item.ID, &item.CreatedOn, &item.UpdatedOn)
}

func (r *itemRepository) GetByID(ctx context.Context, id int32) (*domain.RentalItem, error) {
	query := `SELECT ` + itemColumns + ` FROM rental_items WHERE id = $1`
	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return item, err
}

func (r *itemRepository) Update(ctx context.Context, item *domain.RentalItem) error {
	// On-hand stock is deliberately excluded: it only moves through
	// AdjustStock, Allocate and MarkReturned so every change leaves a
	// stock movement behind.
	query := `UPDATE rental_items
	          SET name=$1, sku=$2, kind=$3, min_lead_days=$4, earliest_rentable_date=$5, latest_returnable_date=$6, is_active=$7, updated_on=$8
	          WHERE id=$9`
	res, err := r.db.ExecContext(ctx, query,
		item.Name, item.SKU, item.Kind, item.MinLeadDays,
		item.EarliestRentableDate, item.LatestReturnableDate, item.IsActive, time.Now(), item.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *itemRepository) Deactivate(ctx context.Context, id int32) error {
	query := `UPDATE rental_items SET is_active = FALSE, updated_on = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *itemRepository) List(ctx context.Context, page, pageSize int32) ([]domain.RentalItem, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM rental_items`).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + itemColumns + ` FROM rental_items ORDER BY created_on DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.RentalItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
	}
	return items, count, rows.Err()
}

func (r *itemRepository) AdjustStock(ctx context.Context, itemID, delta int32, movementType domain.MovementType, note string) (*domain.RentalItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Guarded update: the WHERE clause rejects any delta that would take
	// stock below zero, so the invariant holds even under concurrent
	// adjustments.
	query := `UPDATE rental_items
	          SET on_hand_stock = on_hand_stock + $1, updated_on = $2
	          WHERE id = $3 AND on_hand_stock + $1 >= 0
	          RETURNING ` + itemColumns
	item, err := scanItem(tx.QueryRowContext(ctx, query, delta, time.Now(), itemID))
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM rental_items WHERE id = $1)`, itemID).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewValidationError(fmt.Sprintf("adjustment of %d would make stock negative", delta))
	}
	if err != nil {
		return nil, err
	}

	movementQuery := `INSERT INTO stock_movements (item_id, quantity, type, related_record_id, note, created_on)
	                  VALUES ($1, $2, $3, NULL, $4, $5)`
	if _, err := tx.ExecContext(ctx, movementQuery, itemID, delta, movementType, note, time.Now()); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return item, nil
}
