package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/carbonmarket/carbon-marketplace/internal/config"
	"github.com/hellofresh/health-go/v5"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

// NewHealthHandler wires the mock server's liveness checks: the state
// directory must stay writable (cart and dataset persistence depend on it)
// and redis is probed only when caching is configured.
func NewHealthHandler(cfg *config.Config) (*health.Health, error) {
	checks := []health.Config{
		{
			Name:      "state-dir",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: func(_ context.Context) error {
				probe := filepath.Join(cfg.State.Dir, ".health")

				if err := os.MkdirAll(cfg.State.Dir, 0o755); err != nil {
					return fmt.Errorf("state directory not available: %w", err)
				}

				if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
					return fmt.Errorf("state directory not writable: %w", err)
				}

				return os.Remove(probe)
			},
		},
	}

	if cfg.RedisConnect.Enabled() {
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: true,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "carbon-marketplace",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
