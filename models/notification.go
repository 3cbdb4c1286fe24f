package models

// NotificationKind identifies the trigger that produced a notification.
type NotificationKind string

const (
	// NotificationPriceDrop fires when the newly observed price is strictly
	// below the previous observation.
	NotificationPriceDrop NotificationKind = "price_drop"

	// NotificationTargetReached fires when the price crosses below the
	// user-set target. It is latched: it will not repeat until the price has
	// been observed at or above the target again.
	NotificationTargetReached NotificationKind = "target_reached"
)

// Notification is a command for the notifier layer. OldPrice and NewPrice are
// set for price-drop notifications; target-reached carries the product only.
type Notification struct {
	Kind     NotificationKind `json:"kind"`
	Product  Product          `json:"product"`
	OldPrice float64          `json:"old_price,omitempty"`
	NewPrice float64          `json:"new_price,omitempty"`
}
