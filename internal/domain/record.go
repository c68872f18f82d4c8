package domain

import "time"

// RentalRecord is one committed allocation against a RentalItem: the promise
// of Quantity units for [StartDate, ReturnDate). Created atomically with the
// stock decrement, mutated exactly once when marked returned, never deleted.
type RentalRecord struct {
	ID        int32  `json:"id"`
	Reference string `json:"reference"`
	ItemID    int32  `json:"item_id"`
	Quantity  int32  `json:"quantity"`
	// Dates carry no time component; comparisons are whole-day.
	StartDate  time.Time `json:"start_date"`
	ReturnDate time.Time `json:"return_date"`
	// Customer snapshot captured at allocation time, kept for the audit trail
	// even if the surrounding order is later amended.
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	IsReturned    bool       `json:"is_returned"`
	ReturnedAt    *time.Time `json:"returned_at,omitempty"`
	CreatedOn     time.Time  `json:"created_on"`
}

// IsOverdue reports whether the record is open and past its return date.
func (r *RentalRecord) IsOverdue(today time.Time) bool {
	return !r.IsReturned && today.After(r.ReturnDate)
}

// DaysOverdue returns how many whole days past the return date the record
// is, or 0 when it is not overdue.
func (r *RentalRecord) DaysOverdue(today time.Time) int32 {
	if !r.IsOverdue(today) {
		return 0
	}
	return int32(today.Sub(r.ReturnDate).Hours() / 24)
}
