package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricetracker/models"
)

func newProduct(target float64) models.Product {
	return models.Product{
		ID:          1,
		Name:        "Widget",
		URL:         "https://example.com/widget",
		TargetPrice: target,
		IsActive:    true,
	}
}

func kinds(notifications []models.Notification) []models.NotificationKind {
	var ks []models.NotificationKind
	for _, n := range notifications {
		ks = append(ks, n.Kind)
	}
	return ks
}

func TestApply_FirstObservation(t *testing.T) {
	now := time.Now()
	p := newProduct(500)

	result := Apply(p, 600, now)

	assert.Equal(t, 600.0, result.Product.GetCurrentPrice())
	assert.False(t, result.Product.TargetNotified)
	require.NotNil(t, result.Product.LastChecked)
	assert.Equal(t, now, *result.Product.LastChecked)

	assert.Equal(t, 1, result.History.ProductID)
	assert.Equal(t, 600.0, result.History.Price)
	assert.Equal(t, now, result.History.RecordedAt)

	// 600 >= 500 and no previous price: nothing to announce.
	assert.Empty(t, result.Notifications)
}

func TestApply_TargetAndDropFireTogether(t *testing.T) {
	now := time.Now()
	p := newProduct(500)
	p.SetCurrentPrice(600)

	result := Apply(p, 450, now)

	require.Len(t, result.Notifications, 2)
	assert.Equal(t, models.NotificationTargetReached, result.Notifications[0].Kind)
	assert.Equal(t, models.NotificationPriceDrop, result.Notifications[1].Kind)
	assert.Equal(t, 600.0, result.Notifications[1].OldPrice)
	assert.Equal(t, 450.0, result.Notifications[1].NewPrice)
	assert.True(t, result.Product.TargetNotified)

	// Notifications carry the post-update product state.
	assert.Equal(t, 450.0, result.Notifications[0].Product.GetCurrentPrice())
}

func TestApply_TargetLatchSequence(t *testing.T) {
	// target=100, prices 120 -> 90 -> 90 -> 110 -> 80: target-reached must
	// fire at the first 90 and at the 80, never at the second 90.
	now := time.Now()
	p := newProduct(100)

	steps := []struct {
		price       float64
		wantTarget  bool
		wantLatched bool
	}{
		{120, false, false},
		{90, true, true},
		{90, false, true},
		{110, false, false},
		{80, true, true},
	}

	for i, step := range steps {
		result := Apply(p, step.price, now.Add(time.Duration(i)*time.Minute))
		p = result.Product

		fired := false
		for _, n := range result.Notifications {
			if n.Kind == models.NotificationTargetReached {
				fired = true
			}
		}
		assert.Equal(t, step.wantTarget, fired, "step %d (price %.0f): target-reached fired=%v", i, step.price, fired)
		assert.Equal(t, step.wantLatched, p.TargetNotified, "step %d (price %.0f): latch", i, step.price)
	}
}

func TestApply_DropDetection(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		old      float64
		new      float64
		wantDrop bool
	}{
		{"strict drop", 200, 150, true},
		{"same price", 150, 150, false},
		{"increase", 150, 160, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProduct(10) // target far below, keeps the latch quiet
			p.SetCurrentPrice(tt.old)

			result := Apply(p, tt.new, now)

			if tt.wantDrop {
				require.Equal(t, []models.NotificationKind{models.NotificationPriceDrop}, kinds(result.Notifications))
				assert.Equal(t, tt.old, result.Notifications[0].OldPrice)
				assert.Equal(t, tt.new, result.Notifications[0].NewPrice)
			} else {
				assert.Empty(t, result.Notifications)
			}
		})
	}
}

func TestApply_SamePriceIsIdempotent(t *testing.T) {
	now := time.Now()
	p := newProduct(100)
	p.SetCurrentPrice(90)
	p.TargetNotified = true

	result := Apply(p, 90, now)

	assert.Empty(t, result.Notifications)
	assert.True(t, result.Product.TargetNotified)
}

func TestApply_FullScenario(t *testing.T) {
	// target=500, prices absent -> 600 -> 450 -> 600 -> 400.
	now := time.Now()
	p := newProduct(500)

	r1 := Apply(p, 600, now)
	assert.Empty(t, r1.Notifications)
	assert.False(t, r1.Product.TargetNotified)

	r2 := Apply(r1.Product, 450, now.Add(time.Minute))
	assert.Equal(t, []models.NotificationKind{models.NotificationTargetReached, models.NotificationPriceDrop}, kinds(r2.Notifications))
	assert.True(t, r2.Product.TargetNotified)

	r3 := Apply(r2.Product, 600, now.Add(2*time.Minute))
	assert.Empty(t, r3.Notifications)
	assert.False(t, r3.Product.TargetNotified, "latch must re-arm at or above target")

	r4 := Apply(r3.Product, 400, now.Add(3*time.Minute))
	fired := kinds(r4.Notifications)
	assert.Contains(t, fired, models.NotificationTargetReached)
	assert.True(t, r4.Product.TargetNotified)
}

func TestApply_RefiresWhenOldPriceWasAboveTargetDespiteStaleLatch(t *testing.T) {
	// A stale notified flag with the previous observation back at or above
	// target still announces the fresh crossing.
	now := time.Now()
	p := newProduct(100)
	p.SetCurrentPrice(150)
	p.TargetNotified = true

	result := Apply(p, 95, now)

	assert.Contains(t, kinds(result.Notifications), models.NotificationTargetReached)
	assert.True(t, result.Product.TargetNotified)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	now := time.Now()
	p := newProduct(500)
	p.SetCurrentPrice(600)

	_ = Apply(p, 450, now)

	assert.Equal(t, 600.0, p.GetCurrentPrice())
	assert.False(t, p.TargetNotified)
	assert.Nil(t, p.LastChecked)
}
