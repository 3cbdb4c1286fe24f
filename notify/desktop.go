package notify

import (
	"context"
	"fmt"

	"github.com/gen2brain/beeep"

	"pricetracker/models"
)

// DesktopNotifier shows a system notification popup on the machine running
// the tracker. Useful when the service runs on a workstation.
type DesktopNotifier struct{}

func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{}
}

func (n *DesktopNotifier) Notify(ctx context.Context, notification models.Notification) error {
	var title, message string
	switch notification.Kind {
	case models.NotificationTargetReached:
		title = "Target price reached"
		message = fmt.Sprintf("%s is at %.2f (target %.2f)",
			notification.Product.Name,
			notification.Product.GetCurrentPrice(),
			notification.Product.TargetPrice)
	case models.NotificationPriceDrop:
		title = "Price drop"
		message = fmt.Sprintf("%s: %.2f → %.2f",
			notification.Product.Name,
			notification.OldPrice,
			notification.NewPrice)
	default:
		return nil
	}

	if err := beeep.Notify(title, message, ""); err != nil {
		return fmt.Errorf("failed to show desktop notification: %w", err)
	}
	return nil
}
