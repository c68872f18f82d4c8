package service

import (
	"context"
	"time"

	"github.com/assignon/verzendconnect/internal/domain"
)

type ItemService interface {
	AddItem(ctx context.Context, item *domain.RentalItem) error
	GetItem(ctx context.Context, id int32) (*domain.RentalItem, error)
	UpdateItem(ctx context.Context, item *domain.RentalItem) error
	DeactivateItem(ctx context.Context, id int32) error
	ListItems(ctx context.Context, page, pageSize int32) ([]domain.RentalItem, int32, error)
	ProvisionStock(ctx context.Context, itemID, delta int32, note string) (*domain.RentalItem, error)
	ListStockMovements(ctx context.Context, itemID, page, pageSize int32) ([]domain.StockMovement, int32, error)
}

// AvailabilityResult is the outcome of an availability check. Reason is
// user-facing and surfaced verbatim.
type AvailabilityResult struct {
	OK        bool   `json:"ok"`
	Reason    string `json:"reason"`
	Available int32  `json:"available"`
}

// AllocationRequest describes one requested allocation. Dates carry no time
// component.
type AllocationRequest struct {
	ItemID        int32
	StartDate     time.Time
	ReturnDate    time.Time
	Quantity      int32
	CustomerName  string
	CustomerEmail string
}

// OverdueRecord pairs an open rental record with how many days late it is.
type OverdueRecord struct {
	Record      domain.RentalRecord `json:"record"`
	DaysOverdue int32               `json:"days_overdue"`
}

type RentalService interface {
	CheckAvailability(ctx context.Context, itemID int32, start, end time.Time, quantity int32) (*AvailabilityResult, error)
	Allocate(ctx context.Context, req AllocationRequest) (*domain.RentalRecord, error)
	MarkReturned(ctx context.Context, reference string) (record *domain.RentalRecord, alreadyReturned bool, err error)
	GetRecord(ctx context.Context, reference string) (*domain.RentalRecord, error)
	ListRecords(ctx context.Context, itemID int32, openOnly bool, page, pageSize int32) ([]domain.RentalRecord, int32, error)
	ListOverdue(ctx context.Context) ([]OverdueRecord, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, notificationID int32) error
}
