package domain

import "time"

type MovementType string

const (
	MovementTypeProvision  MovementType = "PROVISION"
	MovementTypeAllocate   MovementType = "ALLOCATE"
	MovementTypeReturn     MovementType = "RETURN"
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
)

// StockMovement is one entry in the per-item stock audit ledger. Quantity is
// the signed delta applied to on-hand stock, so for any item the sum of all
// movements equals its current on-hand stock.
type StockMovement struct {
	ID              int32        `json:"id"`
	ItemID          int32        `json:"item_id"`
	Quantity        int32        `json:"quantity"` // positive for stock in, negative for stock out
	Type            MovementType `json:"type"`
	RelatedRecordID *int32       `json:"related_record_id,omitempty"`
	Note            string       `json:"note"`
	CreatedOn       time.Time    `json:"created_on"`
}
