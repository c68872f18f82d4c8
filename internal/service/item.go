package service

import (
	"context"

	"github.com/assignon/verzendconnect/internal/domain"
	"github.com/assignon/verzendconnect/internal/logger"
	"github.com/assignon/verzendconnect/internal/repository"
)

type itemService struct {
	itemRepo     repository.ItemRepository
	movementRepo repository.MovementRepository
}

func NewItemService(itemRepo repository.ItemRepository, movementRepo repository.MovementRepository) ItemService {
	return &itemService{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
	}
}

func (s *itemService) AddItem(ctx context.Context, item *domain.RentalItem) error {
	if item.Name == "" {
		return domain.NewValidationError("item name is required")
	}
	if item.Kind == "" {
		item.Kind = domain.ItemKindRental
	}
	if item.Kind != domain.ItemKindRental && item.Kind != domain.ItemKindSale {
		return domain.NewValidationError("kind must be RENTAL or SALE")
	}
	if item.OnHandStock < 0 {
		return domain.NewValidationError("stock must not be negative")
	}
	if item.MinLeadDays != nil && *item.MinLeadDays < 0 {
		return domain.NewValidationError("minimum lead days must not be negative")
	}
	if item.EarliestRentableDate != nil && item.LatestReturnableDate != nil &&
		!item.LatestReturnableDate.After(*item.EarliestRentableDate) {
		return domain.NewValidationError("latest returnable date must be after earliest rentable date")
	}
	item.IsActive = true

	initialStock := item.OnHandStock
	item.OnHandStock = 0
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return err
	}

	// Initial stock goes through the movement ledger so every unit the
	// item ever held is accounted for.
	if initialStock > 0 {
		updated, err := s.itemRepo.AdjustStock(ctx, item.ID, initialStock, domain.MovementTypeProvision, "initial stock")
		if err != nil {
			return err
		}
		item.OnHandStock = updated.OnHandStock
	}

	logger.Info("Item added", "item_id", item.ID, "name", item.Name, "stock", item.OnHandStock)
	return nil
}

func (s *itemService) GetItem(ctx context.Context, id int32) (*domain.RentalItem, error) {
	return s.itemRepo.GetByID(ctx, id)
}

func (s *itemService) UpdateItem(ctx context.Context, item *domain.RentalItem) error {
	if item.Name == "" {
		return domain.NewValidationError("item name is required")
	}
	if item.Kind != domain.ItemKindRental && item.Kind != domain.ItemKindSale {
		return domain.NewValidationError("kind must be RENTAL or SALE")
	}
	if item.MinLeadDays != nil && *item.MinLeadDays < 0 {
		return domain.NewValidationError("minimum lead days must not be negative")
	}
	if item.EarliestRentableDate != nil && item.LatestReturnableDate != nil &&
		!item.LatestReturnableDate.After(*item.EarliestRentableDate) {
		return domain.NewValidationError("latest returnable date must be after earliest rentable date")
	}
	return s.itemRepo.Update(ctx, item)
}

func (s *itemService) DeactivateItem(ctx context.Context, id int32) error {
	return s.itemRepo.Deactivate(ctx, id)
}

func (s *itemService) ListItems(ctx context.Context, page, pageSize int32) ([]domain.RentalItem, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.itemRepo.List(ctx, page, pageSize)
}

// ProvisionStock applies an explicit stock adjustment: positive deltas
// provision new physical units, negative deltas write them off. Stock never
// changes as a side effect of anything else.
func (s *itemService) ProvisionStock(ctx context.Context, itemID, delta int32, note string) (*domain.RentalItem, error) {
	if delta == 0 {
		return nil, domain.NewValidationError("adjustment must not be zero")
	}
	movementType := domain.MovementTypeProvision
	if delta < 0 {
		movementType = domain.MovementTypeAdjustment
	}

	item, err := s.itemRepo.AdjustStock(ctx, itemID, delta, movementType, note)
	if err != nil {
		return nil, err
	}
	logger.Info("Stock adjusted", "item_id", itemID, "delta", delta, "on_hand", item.OnHandStock)
	return item, nil
}

func (s *itemService) ListStockMovements(ctx context.Context, itemID, page, pageSize int32) ([]domain.StockMovement, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	if _, err := s.itemRepo.GetByID(ctx, itemID); err != nil {
		return nil, 0, err
	}
	return s.movementRepo.ListByItem(ctx, itemID, page, pageSize)
}
