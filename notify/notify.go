package notify

import (
	"context"
	"log"

	"pricetracker/models"
)

// Notifier delivers a notification over one channel. Delivery is best-effort:
// the price/history update is already persisted by the time a notifier runs,
// and a dispatch failure must never roll it back.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// Multi fans a notification out to every configured channel. Individual
// failures are logged and swallowed.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n models.Notification) error {
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			log.Printf("Failed to send %s notification for product %d: %v", n.Kind, n.Product.ID, err)
		}
	}
	return nil
}
