package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/assignon/verzendconnect/internal/domain"
)

type MockItemRepo struct {
	mock.Mock
}

func (m *MockItemRepo) Create(ctx context.Context, item *domain.RentalItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepo) GetByID(ctx context.Context, id int32) (*domain.RentalItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalItem), args.Error(1)
}

func (m *MockItemRepo) Update(ctx context.Context, item *domain.RentalItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepo) Deactivate(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemRepo) List(ctx context.Context, page, pageSize int32) ([]domain.RentalItem, int32, error) {
	args := m.Called(ctx, page, pageSize)
	var items []domain.RentalItem
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.RentalItem)
	}
	return items, args.Get(1).(int32), args.Error(2)
}

func (m *MockItemRepo) AdjustStock(ctx context.Context, itemID, delta int32, movementType domain.MovementType, note string) (*domain.RentalItem, error) {
	args := m.Called(ctx, itemID, delta, movementType, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalItem), args.Error(1)
}

type MockRecordRepo struct {
	mock.Mock
}

func (m *MockRecordRepo) GetByID(ctx context.Context, id int32) (*domain.RentalRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRecord), args.Error(1)
}

func (m *MockRecordRepo) GetByReference(ctx context.Context, reference string) (*domain.RentalRecord, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRecord), args.Error(1)
}

func (m *MockRecordRepo) ListOpenByItem(ctx context.Context, itemID int32) ([]domain.RentalRecord, error) {
	args := m.Called(ctx, itemID)
	var records []domain.RentalRecord
	if args.Get(0) != nil {
		records = args.Get(0).([]domain.RentalRecord)
	}
	return records, args.Error(1)
}

func (m *MockRecordRepo) ListByItem(ctx context.Context, itemID int32, openOnly bool, page, pageSize int32) ([]domain.RentalRecord, int32, error) {
	args := m.Called(ctx, itemID, openOnly, page, pageSize)
	var records []domain.RentalRecord
	if args.Get(0) != nil {
		records = args.Get(0).([]domain.RentalRecord)
	}
	return records, args.Get(1).(int32), args.Error(2)
}

func (m *MockRecordRepo) ListOverdue(ctx context.Context, today time.Time) ([]domain.RentalRecord, error) {
	args := m.Called(ctx, today)
	var records []domain.RentalRecord
	if args.Get(0) != nil {
		records = args.Get(0).([]domain.RentalRecord)
	}
	return records, args.Error(1)
}

func (m *MockRecordRepo) Allocate(ctx context.Context, record *domain.RentalRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepo) MarkReturned(ctx context.Context, recordID int32, returnedAt time.Time) (*domain.RentalRecord, bool, error) {
	args := m.Called(ctx, recordID, returnedAt)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.RentalRecord), args.Bool(1), args.Error(2)
}

type MockMovementRepo struct {
	mock.Mock
}

func (m *MockMovementRepo) ListByItem(ctx context.Context, itemID int32, page, pageSize int32) ([]domain.StockMovement, int32, error) {
	args := m.Called(ctx, itemID, page, pageSize)
	var movements []domain.StockMovement
	if args.Get(0) != nil {
		movements = args.Get(0).([]domain.StockMovement)
	}
	return movements, args.Get(1).(int32), args.Error(2)
}

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNotificationRepo) List(ctx context.Context, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, limit, offset)
	var notes []domain.Notification
	if args.Get(0) != nil {
		notes = args.Get(0).([]domain.Notification)
	}
	return notes, args.Get(1).(int32), args.Error(2)
}

func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
