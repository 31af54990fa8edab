package usecase

import (
	"context"
	"strings"

	cron_adapter "github.com/MMN3003/metaswap/src/swap/adapter/cron"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

var ProviderHealthCronID = uuid.MustParse("8f1a2c30-5c1f-4f7a-9a4e-2b6d1f0c9e10")

// NewCronService registers the periodic provider health sweep. The job
// lock keeps multiple service instances from sweeping at once.
func NewCronService(c *cron.Cron, s *Service, ca cron_adapter.CronAdapter) {
	c.AddFunc("@every 1m", func() {
		handleProviderHealth(context.Background(), s, ca)
	})
}

func handleProviderHealth(ctx context.Context, s *Service, ca cron_adapter.CronAdapter) {
	if err := ca.AcquireLock(ctx, ProviderHealthCronID); err != nil {
		return
	}
	defer ca.ReleaseLock(ctx, ProviderHealthCronID)

	registered := len(s.pool.Providers())
	active := s.pool.ActiveProviders(ctx)

	names := make([]string, 0, len(active))
	for _, p := range active {
		names = append(names, p.Name())
	}
	s.logger.Infof("provider health: %d/%d active [%s]", len(active), registered, strings.Join(names, ", "))
}
