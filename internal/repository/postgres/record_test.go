package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assignon/verzendconnect/internal/domain"
)

var recordCols = []string{
	"id", "reference", "item_id", "quantity", "start_date", "return_date",
	"customer_name", "customer_email", "is_returned", "returned_at", "created_on",
}

var (
	allocStart  = time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC)
	allocReturn = time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC)
)

func openRecordRow(id int32, quantity int32) *sqlmock.Rows {
	return sqlmock.NewRows(recordCols).
		AddRow(id, "ref-1", 7, quantity, allocStart, allocReturn, "Ada Lovelace", "ada@example.com", false, nil, time.Now())
}

func pendingAllocation(quantity int32) *domain.RentalRecord {
	return &domain.RentalRecord{
		Reference:     "ref-1",
		ItemID:        7,
		Quantity:      quantity,
		StartDate:     allocStart,
		ReturnDate:    allocReturn,
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
	}
}

func TestRecordRepository_Allocate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT on_hand_stock FROM rental_items").
		WithArgs(int32(7)).
		WillReturnRows(sqlmock.NewRows([]string{"on_hand_stock"}).AddRow(5))
	mock.ExpectExec("UPDATE rental_items SET on_hand_stock = on_hand_stock -").
		WithArgs(int32(2), sqlmock.AnyArg(), int32(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO rental_records").
		WithArgs("ref-1", int32(7), int32(2), allocStart, allocReturn, "Ada Lovelace", "ada@example.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_on"}).AddRow(42, time.Now()))
	mock.ExpectExec("INSERT INTO stock_movements").
		WithArgs(int32(7), int32(-2), domain.MovementTypeAllocate, int32(42), "allocation ref-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewRecordRepository(db)
	rec := pendingAllocation(2)
	err = repo.Allocate(context.Background(), rec)

	require.NoError(t, err)
	assert.Equal(t, int32(42), rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A request can pass the service-level availability check and still lose the
// race inside the transaction; nothing may be written in that case.
func TestRecordRepository_Allocate_LosesRevalidation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT on_hand_stock FROM rental_items").
		WithArgs(int32(7)).
		WillReturnRows(sqlmock.NewRows([]string{"on_hand_stock"}).AddRow(1))
	mock.ExpectRollback()

	repo := NewRecordRepository(db)
	err = repo.Allocate(context.Background(), pendingAllocation(2))

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_Allocate_UnknownItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT on_hand_stock FROM rental_items").
		WithArgs(int32(7)).
		WillReturnRows(sqlmock.NewRows([]string{"on_hand_stock"}))
	mock.ExpectRollback()

	repo := NewRecordRepository(db)
	err = repo.Allocate(context.Background(), pendingAllocation(1))

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_MarkReturned(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	returnedAt := time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM rental_records WHERE id").
		WithArgs(int32(42)).
		WillReturnRows(openRecordRow(42, 2))
	mock.ExpectExec("UPDATE rental_items SET on_hand_stock = on_hand_stock \\+").
		WithArgs(int32(2), sqlmock.AnyArg(), int32(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE rental_records SET is_returned").
		WithArgs(returnedAt, int32(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO stock_movements").
		WithArgs(int32(7), int32(2), domain.MovementTypeReturn, int32(42), "return of allocation ref-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewRecordRepository(db)
	rec, alreadyReturned, err := repo.MarkReturned(context.Background(), 42, returnedAt)

	require.NoError(t, err)
	assert.False(t, alreadyReturned)
	assert.True(t, rec.IsReturned)
	require.NotNil(t, rec.ReturnedAt)
	assert.True(t, returnedAt.Equal(*rec.ReturnedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_MarkReturned_AlreadyReturned(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	previouslyReturned := time.Date(2026, 6, 6, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(recordCols).
		AddRow(42, "ref-1", 7, 2, allocStart, allocReturn, "Ada Lovelace", "ada@example.com", true, previouslyReturned, time.Now())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM rental_records WHERE id").
		WithArgs(int32(42)).
		WillReturnRows(rows)
	mock.ExpectCommit()

	repo := NewRecordRepository(db)
	rec, alreadyReturned, err := repo.MarkReturned(context.Background(), 42, time.Now())

	require.NoError(t, err)
	assert.True(t, alreadyReturned)
	require.NotNil(t, rec.ReturnedAt)
	assert.True(t, previouslyReturned.Equal(*rec.ReturnedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_MarkReturned_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM rental_records WHERE id").
		WithArgs(int32(99)).
		WillReturnRows(sqlmock.NewRows(recordCols))
	mock.ExpectRollback()

	repo := NewRecordRepository(db)
	_, _, err = repo.MarkReturned(context.Background(), 99, time.Now())

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_GetByReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM rental_records WHERE reference").
		WithArgs("ref-1").
		WillReturnRows(openRecordRow(42, 2))

	repo := NewRecordRepository(db)
	rec, err := repo.GetByReference(context.Background(), "ref-1")

	require.NoError(t, err)
	assert.Equal(t, int32(42), rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_ListOverdue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	today := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM rental_records").
		WithArgs(today).
		WillReturnRows(openRecordRow(42, 2))

	repo := NewRecordRepository(db)
	records, err := repo.ListOverdue(context.Background(), today)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ref-1", records[0].Reference)
	assert.NoError(t, mock.ExpectationsWereMet())
}
