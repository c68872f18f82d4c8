package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/assignon/verzendconnect/internal/availability"
	"github.com/assignon/verzendconnect/internal/domain"
	"github.com/assignon/verzendconnect/internal/logger"
	"github.com/assignon/verzendconnect/internal/repository"
)

type rentalService struct {
	cfg        availability.Config
	itemRepo   repository.ItemRepository
	recordRepo repository.RecordRepository
	noteRepo   repository.NotificationRepository

	// now is swapped out in tests so date logic never reads the system
	// clock directly.
	now func() time.Time
}

func NewRentalService(
	cfg availability.Config,
	itemRepo repository.ItemRepository,
	recordRepo repository.RecordRepository,
	noteRepo repository.NotificationRepository,
) RentalService {
	return &rentalService{
		cfg:        cfg,
		itemRepo:   itemRepo,
		recordRepo: recordRepo,
		noteRepo:   noteRepo,
		now:        time.Now,
	}
}

func (s *rentalService) today() time.Time {
	return availability.Date(s.now())
}

func (s *rentalService) CheckAvailability(ctx context.Context, itemID int32, start, end time.Time, quantity int32) (*AvailabilityResult, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	open, err := s.recordRepo.ListOpenByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	ok, reason := availability.CanRent(s.cfg, item, open, s.today(), start, end, quantity)
	return &AvailabilityResult{
		OK:        ok,
		Reason:    reason,
		Available: availability.Available(item, open, start),
	}, nil
}

// Allocate validates the request against a fresh read, then hands off to the
// repository's atomic allocation, which re-validates under the per-item lock.
// A request that passed validation here can still lose the race and come
// back with domain.ErrInsufficientStock; callers should re-show availability
// rather than treat that as a form error.
func (s *rentalService) Allocate(ctx context.Context, req AllocationRequest) (*domain.RentalRecord, error) {
	if req.Quantity < 1 {
		return nil, domain.NewValidationError("quantity must be at least 1")
	}

	item, err := s.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	open, err := s.recordRepo.ListOpenByItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if ok, reason := availability.CanRent(s.cfg, item, open, s.today(), req.StartDate, req.ReturnDate, req.Quantity); !ok {
		return nil, domain.NewValidationError(reason)
	}

	rec := &domain.RentalRecord{
		Reference:     uuid.New().String(),
		ItemID:        req.ItemID,
		Quantity:      req.Quantity,
		StartDate:     availability.Date(req.StartDate),
		ReturnDate:    availability.Date(req.ReturnDate),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	}
	if err := s.recordRepo.Allocate(ctx, rec); err != nil {
		return nil, err
	}

	logger.Info("Allocation committed",
		"item_id", rec.ItemID, "reference", rec.Reference,
		"quantity", rec.Quantity,
		"start_date", rec.StartDate.Format("2006-01-02"),
		"return_date", rec.ReturnDate.Format("2006-01-02"))

	// Alert back-office; dispatch is owned by surrounding code.
	notif := &domain.Notification{
		Title:   "New Allocation",
		Message: fmt.Sprintf("%d x %s promised from %s to %s", rec.Quantity, item.Name, rec.StartDate.Format("2006-01-02"), rec.ReturnDate.Format("2006-01-02")),
		Attributes: map[string]string{
			"type":      "ALLOCATION_CREATED",
			"item_id":   fmt.Sprintf("%d", rec.ItemID),
			"reference": rec.Reference,
		},
	}
	if err := s.noteRepo.Create(ctx, notif); err != nil {
		logger.Error("Failed to record allocation notification", "reference", rec.Reference, "error", err)
	}

	return rec, nil
}

// MarkReturned closes the referenced record and restores its quantity to
// on-hand stock. Marking an already-returned record is a warning, not an
// error: duplicate return requests are a realistic operational scenario.
func (s *rentalService) MarkReturned(ctx context.Context, reference string) (*domain.RentalRecord, bool, error) {
	rec, err := s.recordRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, false, err
	}

	rec, alreadyReturned, err := s.recordRepo.MarkReturned(ctx, rec.ID, s.now())
	if err != nil {
		return nil, false, err
	}
	if alreadyReturned {
		logger.Warn("Duplicate return request ignored", "reference", reference, "record_id", rec.ID)
		return rec, true, nil
	}

	logger.Info("Rental returned", "reference", reference, "item_id", rec.ItemID, "quantity", rec.Quantity)
	return rec, false, nil
}

func (s *rentalService) GetRecord(ctx context.Context, reference string) (*domain.RentalRecord, error) {
	return s.recordRepo.GetByReference(ctx, reference)
}

func (s *rentalService) ListRecords(ctx context.Context, itemID int32, openOnly bool, page, pageSize int32) ([]domain.RentalRecord, int32, error) {
	return s.recordRepo.ListByItem(ctx, itemID, openOnly, page, pageSize)
}

func (s *rentalService) ListOverdue(ctx context.Context) ([]OverdueRecord, error) {
	today := s.today()
	records, err := s.recordRepo.ListOverdue(ctx, today)
	if err != nil {
		return nil, err
	}

	overdue := make([]OverdueRecord, 0, len(records))
	for _, rec := range records {
		overdue = append(overdue, OverdueRecord{
			Record:      rec,
			DaysOverdue: rec.DaysOverdue(today),
		})
	}
	return overdue, nil
}
