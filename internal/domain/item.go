package domain

import "time"

type ItemKind string

const (
	ItemKindRental ItemKind = "RENTAL"
	ItemKindSale   ItemKind = "SALE"
)

// RentalItem is a catalog item offered for time-boxed rental. OnHandStock
// counts physical units not currently promised to any open rental record;
// it never goes negative.
type RentalItem struct {
	ID          int32    `json:"id"`
	Name        string   `json:"name"`
	SKU         string   `json:"sku"`
	Kind        ItemKind `json:"kind"`
	OnHandStock int32    `json:"on_hand_stock"`
	// MinLeadDays overrides the site-wide default when set.
	MinLeadDays          *int32     `json:"min_lead_days,omitempty"`
	EarliestRentableDate *time.Time `json:"earliest_rentable_date,omitempty"`
	LatestReturnableDate *time.Time `json:"latest_returnable_date,omitempty"`
	IsActive             bool       `json:"is_active"`
	CreatedOn            time.Time  `json:"created_on"`
	UpdatedOn            time.Time  `json:"updated_on"`
}

func (i *RentalItem) IsRentable() bool {
	return i.Kind == ItemKindRental && i.IsActive
}
