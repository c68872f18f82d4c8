// Package availability implements the rental availability calculator: the
// rules deciding whether a requested quantity of an item can be promised for
// a date range. All functions are pure; "today" is always passed in, never
// read from the system clock, so date logic stays testable.
package availability

import (
	"fmt"
	"time"

	"github.com/assignon/verzendconnect/internal/domain"
)

const dateLayout = "2006-01-02"

// Config carries the site-wide rental settings, passed explicitly to the
// calculator instead of living in a global settings row.
type Config struct {
	// DefaultMinLeadDays is the minimum number of days between today and
	// the earliest permissible rental start, used when an item has no
	// override.
	DefaultMinLeadDays int32
}

// Date normalizes t to a calendar date (midnight UTC). Rental dates carry no
// time component.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Available computes how many units of item can be promised for a rental
// starting at start. On top of current on-hand stock, units promised to open
// records that are due back strictly before start count as available, even
// though on-hand stock is only incremented at actual-return time. Records
// due back on or after start never count, including ones returning midway
// through the requested window.
func Available(item *domain.RentalItem, open []domain.RentalRecord, start time.Time) int32 {
	start = Date(start)
	available := item.OnHandStock
	for _, r := range open {
		if r.IsReturned {
			continue
		}
		if Date(r.ReturnDate).Before(start) {
			available += r.Quantity
		}
	}
	if available < 0 {
		available = 0
	}
	return available
}

// MinRentableDate returns the earliest date a new rental of item may start:
// today plus the lead days, pushed out further by the item's earliest
// rentable date when that is set.
func MinRentableDate(cfg Config, item *domain.RentalItem, today time.Time) time.Time {
	leadDays := cfg.DefaultMinLeadDays
	if item.MinLeadDays != nil {
		leadDays = *item.MinLeadDays
	}
	min := Date(today).AddDate(0, 0, int(leadDays))
	if item.EarliestRentableDate != nil {
		if e := Date(*item.EarliestRentableDate); e.After(min) {
			min = e
		}
	}
	return min
}

// CanRent decides whether quantity units of item can be promised for
// [start, end). The first failing check wins and each check produces its own
// user-facing reason. Success returns (true, "available").
func CanRent(cfg Config, item *domain.RentalItem, open []domain.RentalRecord, today, start, end time.Time, quantity int32) (bool, string) {
	start, end = Date(start), Date(end)

	if !item.IsRentable() {
		return false, "not for rental"
	}

	if min := MinRentableDate(cfg, item, today); start.Before(min) {
		return false, fmt.Sprintf("rental cannot start before %s", min.Format(dateLayout))
	}

	if item.LatestReturnableDate != nil {
		if latest := Date(*item.LatestReturnableDate); end.After(latest) {
			return false, fmt.Sprintf("rental cannot extend beyond %s", latest.Format(dateLayout))
		}
	}

	if !end.After(start) {
		return false, "return date must be after start date"
	}

	if available := Available(item, open, start); quantity > available {
		return false, fmt.Sprintf("only %d items available for this period", available)
	}

	return true, "available"
}
