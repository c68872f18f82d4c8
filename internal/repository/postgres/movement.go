package postgres

import (
	"context"
	"database/sql"

	"github.com/assignon/verzendconnect/internal/domain"
	"github.com/assignon/verzendconnect/internal/repository"
)

type movementRepository struct {
	db *sql.DB
}

func NewMovementRepository(db *sql.DB) repository.MovementRepository {
	return &movementRepository{db: db}
}

func (r *movementRepository) ListByItem(ctx context.Context, itemID int32, page, pageSize int32) ([]domain.StockMovement, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM stock_movements WHERE item_id = $1`, itemID).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, item_id, quantity, type, related_record_id, note, created_on
	          FROM stock_movements WHERE item_id = $1 ORDER BY created_on DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, itemID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var movements []domain.StockMovement
	for rows.Next() {
		var m domain.StockMovement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Quantity, &m.Type, &m.RelatedRecordID, &m.Note, &m.CreatedOn); err != nil {
			return nil, 0, err
		}
		movements = append(movements, m)
	}
	return movements, count, rows.Err()
}
