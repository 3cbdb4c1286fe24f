// Package tracker holds the price/notification state machine. Applying a new
// observation is a pure function of the product's prior state, the price and
// the clock, so every transition is testable without storage or network.
package tracker

import (
	"time"

	"pricetracker/models"
)

// TargetState is the two-state latch behind the target-reached notification.
type TargetState int

const (
	// AboveOrAtTarget: the last observation was at or above the target (or
	// there is none yet). The latch is armed; crossing below fires.
	AboveOrAtTarget TargetState = iota

	// BelowTargetNotified: the price is below target and the crossing has
	// been announced. The latch re-arms only after an observation at or
	// above the target; it does not fire again while the price stays low.
	BelowTargetNotified
)

func stateOf(p *models.Product) TargetState {
	if p.TargetNotified {
		return BelowTargetNotified
	}
	return AboveOrAtTarget
}

func (s TargetState) notified() bool {
	return s == BelowTargetNotified
}

// Result is the outcome of applying one price observation.
type Result struct {
	Product       models.Product
	History       models.PriceHistory
	Notifications []models.Notification
}

// Apply computes the next tracking state for a successfully extracted price.
// newPrice must be positive; failed fetches and extractions never reach this
// point. It returns the updated product, one append-only history record and
// the notifications to dispatch, in order (0, 1 or 2).
func Apply(p models.Product, newPrice float64, now time.Time) Result {
	var oldPrice float64
	hadPrice := p.HasPrice()
	if hadPrice {
		oldPrice = p.GetCurrentPrice()
	}

	p.SetCurrentPrice(newPrice)
	p.LastChecked = &now

	history := models.PriceHistory{
		ProductID:  p.ID,
		Price:      newPrice,
		RecordedAt: now,
	}

	var notifications []models.Notification

	// Target crossing. The latch also re-fires when the previous observation
	// was back at or above target, covering a stale notified flag.
	state := stateOf(&p)
	belowTarget := newPrice < p.TargetPrice
	if belowTarget {
		rearmed := hadPrice && oldPrice > 0 && oldPrice >= p.TargetPrice
		if !state.notified() || rearmed {
			notifications = append(notifications, models.Notification{
				Kind:     models.NotificationTargetReached,
				NewPrice: newPrice,
			})
			state = BelowTargetNotified
		}
	} else {
		// Back at or above target: re-arm silently.
		state = AboveOrAtTarget
	}
	p.TargetNotified = state.notified()

	// Drop detection is independent of the target latch; both may fire in
	// the same cycle.
	if hadPrice && oldPrice > 0 && newPrice < oldPrice {
		notifications = append(notifications, models.Notification{
			Kind:     models.NotificationPriceDrop,
			OldPrice: oldPrice,
			NewPrice: newPrice,
		})
	}

	// Stamp the finished product into each notification so dispatchers see
	// the post-update state.
	for i := range notifications {
		notifications[i].Product = p
	}

	return Result{
		Product:       p,
		History:       history,
		Notifications: notifications,
	}
}
