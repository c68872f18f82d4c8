package postgres

import (
	"database/sql"

	"github.com/assignon/verzendconnect/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.ItemRepository
	repository.RecordRepository
	repository.MovementRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		ItemRepository:         NewItemRepository(db),
		RecordRepository:       NewRecordRepository(db),
		MovementRepository:     NewMovementRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
