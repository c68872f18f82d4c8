package jobs

import (
	"context"
	"fmt"

	"github.com/assignon/verzendconnect/internal/domain"
	"github.com/assignon/verzendconnect/internal/logger"
)

// FlagOverdueRentals raises an alert for every open rental record past its
// return date. Overdue is a derived state: this job never touches stock or
// the records themselves, it only writes notification rows for the
// back-office. Running it nightly doubles as an escalating reminder for
// records that stay out.
func (jr *JobRunner) FlagOverdueRentals() {
	jr.runWithRecovery("FlagOverdueRentals", func() {
		ctx := context.Background()

		overdue, err := jr.rentalSvc.ListOverdue(ctx)
		if err != nil {
			logger.Error("Failed to list overdue rentals", "error", err)
			return
		}

		flagged := 0
		for _, o := range overdue {
			notif := &domain.Notification{
				Title: "Overdue Rental",
				Message: fmt.Sprintf("%d unit(s) due back on %s, %d day(s) late",
					o.Record.Quantity, o.Record.ReturnDate.Format("2006-01-02"), o.DaysOverdue),
				Attributes: map[string]string{
					"type":         "RENTAL_OVERDUE",
					"reference":    o.Record.Reference,
					"item_id":      fmt.Sprintf("%d", o.Record.ItemID),
					"days_overdue": fmt.Sprintf("%d", o.DaysOverdue),
				},
			}
			if err := jr.noteRepo.Create(ctx, notif); err != nil {
				logger.Error("Failed to record overdue notification",
					"reference", o.Record.Reference, "error", err)
				continue
			}
			flagged++

			logger.Debug("Flagged overdue rental",
				"reference", o.Record.Reference,
				"item_id", o.Record.ItemID,
				"days_overdue", o.DaysOverdue)
		}

		logger.Info("Flagged overdue rentals", "count", flagged)
	})
}
