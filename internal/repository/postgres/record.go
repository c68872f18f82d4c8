package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/assignon/verzendconnect/internal/domain"
	"github.com/assignon/verzendconnect/internal/logger"
	"github.com/assignon/verzendconnect/internal/repository"
)

type recordRepository struct {
	db *sql.DB
}

func NewRecordRepository(db *sql.DB) repository.RecordRepository {
	return &recordRepository{db: db}
}

const recordColumns = `id, reference, item_id, quantity, start_date, return_date, customer_name, customer_email, is_returned, returned_at, created_on`

func scanRecord(row interface{ Scan(...interface{}) error }) (*domain.RentalRecord, error) {
	rec := &domain.RentalRecord{}
	err := row.Scan(&rec.ID, &rec.Reference, &rec.ItemID, &rec.Quantity,
		&rec.StartDate, &rec.ReturnDate, &rec.CustomerName, &rec.CustomerEmail,
		&rec.IsReturned, &rec.ReturnedAt, &rec.CreatedOn)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *recordRepository) GetByID(ctx context.Context, id int32) (*domain.RentalRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM rental_records WHERE id = $1`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rec, err
}

func (r *recordRepository) GetByReference(ctx context.Context, reference string) (*domain.RentalRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM rental_records WHERE reference = $1`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, reference))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rec, err
}

func (r *recordRepository) ListOpenByItem(ctx context.Context, itemID int32) ([]domain.RentalRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM rental_records
	          WHERE item_id = $1 AND is_returned = FALSE ORDER BY return_date ASC`
	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (r *recordRepository) ListByItem(ctx context.Context, itemID int32, openOnly bool, page, pageSize int32) ([]domain.RentalRecord, int32, error) {
	where := `WHERE item_id = $1`
	if openOnly {
		where += ` AND is_returned = FALSE`
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM rental_records `+where, itemID).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf(`SELECT %s FROM rental_records %s ORDER BY created_on DESC LIMIT $2 OFFSET $3`, recordColumns, where)
	rows, err := r.db.QueryContext(ctx, query, itemID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records, err := collectRecords(rows)
	return records, count, err
}

func (r *recordRepository) ListOverdue(ctx context.Context, today time.Time) ([]domain.RentalRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM rental_records
	          WHERE is_returned = FALSE AND return_date < $1 ORDER BY return_date ASC`
	rows, err := r.db.QueryContext(ctx, query, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// Allocate commits one allocation: it locks the item row, re-validates the
// quantity against on-hand stock as seen inside the transaction, decrements
// on-hand stock and inserts the record plus its ALLOCATE movement. Two
// concurrent allocations against the same item serialize on the row lock, so
// at most one of two conflicting requests for the last unit can commit.
func (r *recordRepository) Allocate(ctx context.Context, rec *domain.RentalRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var onHand int32
	err = tx.QueryRowContext(ctx, `SELECT on_hand_stock FROM rental_items WHERE id = $1 FOR UPDATE`, rec.ItemID).Scan(&onHand)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}

	// Units promised to rentals due back before this one starts count
	// toward the availability quote, but the physical decrement below comes
	// out of on-hand stock, so on-hand alone is the binding check here: any
	// quantity it admits also passes the availability sum.
	if rec.Quantity > onHand {
		logger.Warn("Allocation lost the re-validation race",
			"item_id", rec.ItemID, "requested", rec.Quantity, "on_hand", onHand)
		return domain.ErrInsufficientStock
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE rental_items SET on_hand_stock = on_hand_stock - $1, updated_on = $2 WHERE id = $3`,
		rec.Quantity, time.Now(), rec.ItemID)
	if err != nil {
		return err
	}

	insert := `INSERT INTO rental_records (reference, item_id, quantity, start_date, return_date, customer_name, customer_email, is_returned, created_on)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8) RETURNING id, created_on`
	err = tx.QueryRowContext(ctx, insert,
		rec.Reference, rec.ItemID, rec.Quantity, rec.StartDate, rec.ReturnDate,
		rec.CustomerName, rec.CustomerEmail, time.Now(),
	).Scan(&rec.ID, &rec.CreatedOn)
	if err != nil {
		return err
	}

	movement := `INSERT INTO stock_movements (item_id, quantity, type, related_record_id, note, created_on)
	             VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = tx.ExecContext(ctx, movement,
		rec.ItemID, -rec.Quantity, domain.MovementTypeAllocate, rec.ID,
		fmt.Sprintf("allocation %s", rec.Reference), time.Now())
	if err != nil {
		return err
	}

	return tx.Commit()
}

// MarkReturned closes a record and restores its quantity to on-hand stock.
// A second call for the same record commits nothing and reports
// alreadyReturned, so duplicate return requests never double-increment.
func (r *recordRepository) MarkReturned(ctx context.Context, recordID int32, returnedAt time.Time) (*domain.RentalRecord, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	query := `SELECT ` + recordColumns + ` FROM rental_records WHERE id = $1 FOR UPDATE`
	rec, err := scanRecord(tx.QueryRowContext(ctx, query, recordID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, domain.ErrNotFound
	}
	if err != nil {
		return nil, false, err
	}

	if rec.IsReturned {
		return rec, true, tx.Commit()
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE rental_items SET on_hand_stock = on_hand_stock + $1, updated_on = $2 WHERE id = $3`,
		rec.Quantity, time.Now(), rec.ItemID)
	if err != nil {
		return nil, false, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE rental_records SET is_returned = TRUE, returned_at = $1 WHERE id = $2`,
		returnedAt, rec.ID)
	if err != nil {
		return nil, false, err
	}

	movement := `INSERT INTO stock_movements (item_id, quantity, type, related_record_id, note, created_on)
	             VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = tx.ExecContext(ctx, movement,
		rec.ItemID, rec.Quantity, domain.MovementTypeReturn, rec.ID,
		fmt.Sprintf("return of allocation %s", rec.Reference), time.Now())
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	rec.IsReturned = true
	rec.ReturnedAt = &returnedAt
	return rec, false, nil
}

func collectRecords(rows *sql.Rows) ([]domain.RentalRecord, error) {
	var records []domain.RentalRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}
