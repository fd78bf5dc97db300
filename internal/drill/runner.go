package drill

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/scoutops/internal/domain/types"
	"github.com/okian/scoutops/pkg/logger"
)

// ErrInvalidConfig reports a drill configuration that cannot run.
var ErrInvalidConfig = errors.New("invalid drill config")

func (c *Config) normalize() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("%w: empty base url", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Key) == "" {
		return fmt.Errorf("%w: empty competition key", ErrInvalidConfig)
	}
	if c.Lists < 1 {
		c.Lists = DefaultLists
	}
	if c.Teams < 2 {
		c.Teams = DefaultTeams
	}
	if c.Moves < 0 {
		c.Moves = DefaultMoves
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.RetryRate < 0 || c.RetryRate > 1 {
		return fmt.Errorf("%w: retry rate %v outside [0,1]", ErrInvalidConfig, c.RetryRate)
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return nil
}

// Run seeds a picklist group, hammers it with concurrent moves and verifies
// that every entry survived and every move applied exactly once.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("drill")
	client := newHTTPClient(strings.TrimRight(cfg.BaseURL, "/"), cfg.Timeout)

	log.Info(ctx, "starting picklist drill",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("key", cfg.Key),
		logger.Int("teams", cfg.Teams),
		logger.Int("moves", cfg.Moves),
		logger.Int("workers", cfg.Workers),
	)

	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	var seeded types.Picklist
	if _, err := client.do(ctx, http.MethodPut, picklistPath(cfg.Key, ""), seedGroup(cfg), &seeded); err != nil {
		return stats, fmt.Errorf("seeding failed: %w", err)
	}

	moves := generateMoves(cfg, seeded, stats)
	submitMoves(ctx, client, cfg, moves, stats, log)

	var final types.Picklist
	if _, err := client.do(ctx, http.MethodGet, picklistPath(cfg.Key, ""), nil, &final); err != nil {
		return stats, fmt.Errorf("reading final group failed: %w", err)
	}
	stats.FinalRevision = final.Revision

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	if err := verifyResults(seeded, final, stats); err != nil {
		return stats, fmt.Errorf("verification failed: %w", err)
	}

	displayFinalStats(ctx, log, stats)
	return stats, nil
}

func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := client.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

// submitMoves sends moves from cfg.Workers concurrent clients.
func submitMoves(ctx context.Context, client *HTTPClient, cfg *Config, moves []Move, stats *Stats, log logger.Logger) {
	var sent, succeeded, failed atomic.Int64
	path := picklistPath(cfg.Key, "/moves")

	moveChan := make(chan Move, cfg.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range moveChan {
				sent.Add(1)
				if _, err := client.do(ctx, http.MethodPost, path, m, nil); err != nil {
					failed.Add(1)
					if cfg.Verbose {
						log.Warn(ctx, "move failed", logger.String("requestID", m.RequestID), logger.Error(err))
					}
					continue
				}
				succeeded.Add(1)
			}
		}()
	}

	func() {
		defer close(moveChan)
		for _, m := range moves {
			select {
			case <-ctx.Done():
				return
			case moveChan <- m:
			}
		}
	}()
	wg.Wait()

	stats.Sent = int(sent.Load())
	stats.Succeeded = int(succeeded.Load())
	stats.Failed = int(failed.Load())
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var movesPerSecond float64
	if stats.Duration > 0 {
		movesPerSecond = float64(stats.Sent) / stats.Duration.Seconds()
	}
	log.Info(ctx, "drill finished",
		logger.Int("movesGenerated", stats.MovesGenerated),
		logger.Int("retries", stats.Retries),
		logger.Int("sent", stats.Sent),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("failed", stats.Failed),
		logger.Any("finalRevision", stats.FinalRevision),
		logger.Duration("duration", stats.Duration),
		logger.Any("movesPerSecond", movesPerSecond),
	)
}
