package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"pricetracker/models"
	"pricetracker/notify"
	"pricetracker/repository"
	"pricetracker/scraper"
	"pricetracker/tracker"
)

var errNoPrice = errors.New("no price found in document")

// PriceChecker drives periodic and on-demand price checks. A sweep walks the
// active products strictly one at a time with a politeness delay between
// fetches; nothing fans out in parallel.
type PriceChecker struct {
	repo     *repository.ProductRepository
	fetcher  scraper.Fetcher
	notifier notify.Notifier

	schedule  string
	itemDelay time.Duration

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

func NewPriceChecker(repo *repository.ProductRepository, fetcher scraper.Fetcher, notifier notify.Notifier, schedule string, itemDelay time.Duration) *PriceChecker {
	ctx, cancel := context.WithCancel(context.Background())
	return &PriceChecker{
		repo:      repo,
		fetcher:   fetcher,
		notifier:  notifier,
		schedule:  schedule,
		itemDelay: itemDelay,
		cron:      cron.New(cron.WithSeconds()),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start schedules the periodic sweep and runs one immediately.
func (pc *PriceChecker) Start() error {
	if _, err := pc.cron.AddFunc(pc.schedule, func() { pc.CheckAll(pc.ctx) }); err != nil {
		return fmt.Errorf("failed to schedule price checker: %w", err)
	}

	go pc.CheckAll(pc.ctx)

	pc.cron.Start()
	log.Printf("Price checker scheduled with spec %q", pc.schedule)
	return nil
}

// Stop aborts any in-progress sweep after the current product and stops the
// timer. Already-persisted updates are untouched.
func (pc *PriceChecker) Stop() {
	pc.cancel()
	pc.cron.Stop()
}

// CheckAll sweeps every active product sequentially. A failure for one
// product never aborts the rest of the sweep; cancellation takes effect
// between products, including during the inter-item delay.
func (pc *PriceChecker) CheckAll(ctx context.Context) {
	products, err := pc.repo.GetActive()
	if err != nil {
		log.Printf("Failed to get active products: %v", err)
		return
	}

	if len(products) == 0 {
		log.Println("No active products to check")
		return
	}

	log.Printf("Starting price check for %d products", len(products))

	for i, product := range products {
		if ctx.Err() != nil {
			log.Println("Price check sweep cancelled")
			return
		}

		if err := pc.CheckProduct(ctx, &product); err != nil {
			log.Printf("Price check failed for product %d (%s): %v", product.ID, product.URL, err)
		}

		// Politeness delay between products; a cancellation here aborts
		// the remainder of the sweep.
		if i < len(products)-1 {
			select {
			case <-ctx.Done():
				log.Println("Price check sweep cancelled")
				return
			case <-time.After(pc.itemDelay):
			}
		}
	}

	log.Printf("Completed price check for %d products", len(products))
}

// CheckProduct runs the fetch → extract → state machine pipeline for one
// product and persists the outcome. On fetch or extraction failure only
// last_checked advances.
func (pc *PriceChecker) CheckProduct(ctx context.Context, product *models.Product) error {
	now := time.Now()

	doc, err := pc.fetcher.Fetch(ctx, product.URL)
	if err != nil {
		pc.markAttempt(product.ID, now)
		return err
	}

	price, ok := scraper.ExtractPrice(doc, product.Selector)
	if !ok {
		pc.markAttempt(product.ID, now)
		return errNoPrice
	}

	result := tracker.Apply(*product, price, now)

	if err := pc.repo.UpdateAfterCheck(&result.Product); err != nil {
		return err
	}
	if err := pc.repo.AddHistory(&result.History); err != nil {
		log.Printf("Failed to add price history for product %d: %v", product.ID, err)
	}

	for _, notification := range result.Notifications {
		// Best effort: the price update is already persisted and a
		// delivery failure must not undo it.
		if err := pc.notifier.Notify(ctx, notification); err != nil {
			log.Printf("Failed to dispatch %s notification for product %d: %v",
				notification.Kind, product.ID, err)
		}
	}

	*product = result.Product
	log.Printf("Checked product %d (%s): price %.2f, %d notification(s)",
		product.ID, product.Name, price, len(result.Notifications))
	return nil
}

// CheckNow runs the pipeline for a single product outside the sweep. It may
// run concurrently with an in-progress sweep touching the same product; the
// resulting last-write-wins race on current price and history ordering is a
// known, accepted behavior.
func (pc *PriceChecker) CheckNow(ctx context.Context, id int) (*models.Product, error) {
	product, err := pc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := pc.CheckProduct(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (pc *PriceChecker) markAttempt(id int, at time.Time) {
	if err := pc.repo.MarkChecked(id, at); err != nil {
		log.Printf("Failed to mark product %d checked: %v", id, err)
	}
}
