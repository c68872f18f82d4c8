package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/assignon/verzendconnect/internal/domain"
)

var today = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return today.AddDate(0, 0, offset)
}

func rentalItem(stock int32) *domain.RentalItem {
	return &domain.RentalItem{
		ID:          1,
		Name:        "Party tent 4x8",
		Kind:        domain.ItemKindRental,
		OnHandStock: stock,
		IsActive:    true,
	}
}

func openRecord(qty int32, returnOffset int) domain.RentalRecord {
	return domain.RentalRecord{
		ItemID:     1,
		Quantity:   qty,
		StartDate:  day(returnOffset - 3),
		ReturnDate: day(returnOffset),
	}
}

func TestAvailable(t *testing.T) {
	t.Run("OnHandOnly", func(t *testing.T) {
		assert.Equal(t, int32(5), Available(rentalItem(5), nil, day(3)))
	})

	t.Run("AddsBackRecordsReturningBeforeStart", func(t *testing.T) {
		open := []domain.RentalRecord{openRecord(3, 2)}
		assert.Equal(t, int32(3), Available(rentalItem(0), open, day(5)))
	})

	t.Run("IgnoresRecordsReturningOnOrAfterStart", func(t *testing.T) {
		open := []domain.RentalRecord{
			openRecord(3, 5), // returns exactly on the start date
			openRecord(2, 7), // returns mid-window
		}
		assert.Equal(t, int32(1), Available(rentalItem(1), open, day(5)))
	})

	t.Run("IgnoresReturnedRecords", func(t *testing.T) {
		rec := openRecord(4, 1)
		rec.IsReturned = true
		assert.Equal(t, int32(2), Available(rentalItem(2), []domain.RentalRecord{rec}, day(5)))
	})

	t.Run("ClampsToZero", func(t *testing.T) {
		item := rentalItem(0)
		item.OnHandStock = -1 // corrupted row must not surface as negative availability
		assert.Equal(t, int32(0), Available(item, nil, day(5)))
	})

	t.Run("MonotonicWhenAddingEarlyReturningRecord", func(t *testing.T) {
		item := rentalItem(2)
		without := Available(item, nil, day(5))
		with := Available(item, []domain.RentalRecord{openRecord(1, 2)}, day(5))
		assert.GreaterOrEqual(t, with, without)
	})
}

func TestCanRent(t *testing.T) {
	cfg := Config{DefaultMinLeadDays: 0}

	t.Run("EnoughStock", func(t *testing.T) {
		ok, reason := CanRent(cfg, rentalItem(5), nil, today, day(3), day(5), 5)
		assert.True(t, ok)
		assert.Equal(t, "available", reason)
	})

	t.Run("TooManyRequested", func(t *testing.T) {
		ok, reason := CanRent(cfg, rentalItem(5), nil, today, day(3), day(5), 6)
		assert.False(t, ok)
		assert.Equal(t, "only 5 items available for this period", reason)
	})

	t.Run("SequentialBookingUsesUpcomingReturns", func(t *testing.T) {
		open := []domain.RentalRecord{openRecord(3, 2)}
		ok, _ := CanRent(cfg, rentalItem(0), open, today, day(5), day(7), 3)
		assert.True(t, ok)

		ok, reason := CanRent(cfg, rentalItem(0), open, today, day(1), day(3), 3)
		assert.False(t, ok)
		assert.Equal(t, "only 0 items available for this period", reason)
	})

	t.Run("NotForRental", func(t *testing.T) {
		item := rentalItem(5)
		item.Kind = domain.ItemKindSale
		ok, reason := CanRent(cfg, item, nil, today, day(3), day(5), 1)
		assert.False(t, ok)
		assert.Equal(t, "not for rental", reason)
	})

	t.Run("InactiveItemNotForRental", func(t *testing.T) {
		item := rentalItem(5)
		item.IsActive = false
		ok, reason := CanRent(cfg, item, nil, today, day(3), day(5), 1)
		assert.False(t, ok)
		assert.Equal(t, "not for rental", reason)
	})

	t.Run("LeadDays", func(t *testing.T) {
		lead := int32(2)
		item := rentalItem(5)
		item.MinLeadDays = &lead
		ok, reason := CanRent(cfg, item, nil, today, today, day(2), 1)
		assert.False(t, ok)
		assert.Equal(t, "rental cannot start before "+day(2).Format("2006-01-02"), reason)

		ok, _ = CanRent(cfg, item, nil, today, day(2), day(4), 1)
		assert.True(t, ok)
	})

	t.Run("SiteWideLeadDaysDefault", func(t *testing.T) {
		ok, reason := CanRent(Config{DefaultMinLeadDays: 3}, rentalItem(5), nil, today, day(1), day(4), 1)
		assert.False(t, ok)
		assert.Contains(t, reason, "rental cannot start before")
	})

	t.Run("EarliestRentableDateBound", func(t *testing.T) {
		earliest := day(10)
		item := rentalItem(5)
		item.EarliestRentableDate = &earliest
		ok, reason := CanRent(cfg, item, nil, today, day(3), day(5), 1)
		assert.False(t, ok)
		assert.Equal(t, "rental cannot start before "+earliest.Format("2006-01-02"), reason)
	})

	t.Run("LatestReturnableDateBound", func(t *testing.T) {
		latest := day(4)
		item := rentalItem(5)
		item.LatestReturnableDate = &latest
		ok, reason := CanRent(cfg, item, nil, today, day(3), day(6), 1)
		assert.False(t, ok)
		assert.Equal(t, "rental cannot extend beyond "+latest.Format("2006-01-02"), reason)
	})

	t.Run("ReturnDateNotAfterStart", func(t *testing.T) {
		// Date-order failure wins regardless of stock.
		for _, end := range []time.Time{day(3), day(1)} {
			ok, reason := CanRent(cfg, rentalItem(100), nil, today, day(3), end, 1)
			assert.False(t, ok)
			assert.Equal(t, "return date must be after start date", reason)
		}
	})
}

func TestMinRentableDate(t *testing.T) {
	t.Run("ItemOverrideBeatsDefault", func(t *testing.T) {
		lead := int32(7)
		item := rentalItem(1)
		item.MinLeadDays = &lead
		got := MinRentableDate(Config{DefaultMinLeadDays: 2}, item, today)
		assert.Equal(t, day(7), got)
	})

	t.Run("EarliestDateWinsWhenLater", func(t *testing.T) {
		earliest := day(14)
		item := rentalItem(1)
		item.EarliestRentableDate = &earliest
		got := MinRentableDate(Config{DefaultMinLeadDays: 2}, item, today)
		assert.Equal(t, earliest, got)
	})
}

func TestOverdue(t *testing.T) {
	rec := openRecord(1, -3)

	t.Run("OpenPastReturnDate", func(t *testing.T) {
		assert.True(t, rec.IsOverdue(today))
		assert.Equal(t, int32(3), rec.DaysOverdue(today))
	})

	t.Run("ReturnedIsNeverOverdue", func(t *testing.T) {
		returned := rec
		returned.IsReturned = true
		assert.False(t, returned.IsOverdue(today))
		assert.Equal(t, int32(0), returned.DaysOverdue(today))
	})

	t.Run("DueTodayIsNotOverdue", func(t *testing.T) {
		due := openRecord(1, 0)
		assert.False(t, due.IsOverdue(today))
		assert.Equal(t, int32(0), due.DaysOverdue(today))
	})
}
