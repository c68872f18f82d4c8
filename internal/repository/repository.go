package repository

import (
	"context"
	"time"

	"github.com/assignon/verzendconnect/internal/domain"
)

type ItemRepository interface {
	Create(ctx context.Context, item *domain.RentalItem) error
	GetByID(ctx context.Context, id int32) (*domain.RentalItem, error)
	Update(ctx context.Context, item *domain.RentalItem) error
	Deactivate(ctx context.Context, id int32) error
	List(ctx context.Context, page, pageSize int32) ([]domain.RentalItem, int32, error)

	// AdjustStock applies a signed delta to on-hand stock and appends the
	// matching stock movement as one atomic unit. It fails with a
	// validation error if the delta would drive stock negative.
	AdjustStock(ctx context.Context, itemID, delta int32, movementType domain.MovementType, note string) (*domain.RentalItem, error)
}

type RecordRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.RentalRecord, error)
	GetByReference(ctx context.Context, reference string) (*domain.RentalRecord, error)
	ListOpenByItem(ctx context.Context, itemID int32) ([]domain.RentalRecord, error)
	ListByItem(ctx context.Context, itemID int32, openOnly bool, page, pageSize int32) ([]domain.RentalRecord, int32, error)
	ListOverdue(ctx context.Context, today time.Time) ([]domain.RentalRecord, error)

	// Allocate re-validates availability under a per-item lock, decrements
	// on-hand stock and inserts the record plus its stock movement as one
	// atomic unit. It fails with domain.ErrInsufficientStock rather than
	// letting stock go negative.
	Allocate(ctx context.Context, record *domain.RentalRecord) error

	// MarkReturned increments on-hand stock and closes the record as one
	// atomic unit. A record that is already returned is left untouched and
	// reported via alreadyReturned; duplicate return requests are a normal
	// operational occurrence, not an error.
	MarkReturned(ctx context.Context, recordID int32, returnedAt time.Time) (record *domain.RentalRecord, alreadyReturned bool, err error)
}

type MovementRepository interface {
	ListByItem(ctx context.Context, itemID int32, page, pageSize int32) ([]domain.StockMovement, int32, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id int32) error
}
