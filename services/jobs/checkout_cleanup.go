package jobs

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// CheckoutPurger removes expired checkout intents
type CheckoutPurger interface {
	PurgeExpired() int
}

// DefaultCleanupSpec runs the purge every ten minutes
const DefaultCleanupSpec = "@every 10m"

// StartCheckoutCleanup schedules PurgeExpiredCheckouts on spec and starts the
// scheduler. The caller stops it on shutdown.
func StartCheckoutCleanup(purger CheckoutPurger, spec string) (*cron.Cron, error) {
	if spec == "" {
		spec = DefaultCleanupSpec
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		PurgeExpiredCheckouts(purger)
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule checkout cleanup: %w", err)
	}

	c.Start()
	log.Printf("[CRON] Checkout cleanup scheduled (%s)", spec)
	return c, nil
}

// PurgeExpiredCheckouts runs one purge pass
func PurgeExpiredCheckouts(purger CheckoutPurger) int {
	removed := purger.PurgeExpired()
	if removed > 0 {
		log.Printf("[JOB] Purged %d expired checkouts", removed)
	}
	return removed
}
