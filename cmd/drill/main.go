package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/scoutops/internal/drill"
	"github.com/okian/scoutops/pkg/logger"
)

// Default configuration constants.
const (
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultRetryRate    = 0.1
	defaultDrillTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		key       = flag.String("key", "drill", "Competition key to drill on")
		lists     = flag.Int("lists", drill.DefaultLists, "Lists in the seeded group")
		teams     = flag.Int("teams", drill.DefaultTeams, "Teams spread over the lists")
		moves     = flag.Int("moves", drill.DefaultMoves, "Distinct moves to send")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Concurrent clients")
		retry     = flag.Float64("retry", defaultRetryRate, "Fraction of moves re-sent with the same request id")
		seed      = flag.Uint64("seed", 1, "Move generation seed")
		timeout   = flag.Duration("timeout", drill.DefaultTimeout, "HTTP request timeout")
		logFormat = flag.String("log-format", "text", "Log format: text or json")
		verbose   = flag.Bool("verbose", false, "Log every failed request")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		drill.ShowHelp()
		return
	}

	if err := logger.Init(logger.WithFormat(*logFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultDrillTimeout)
	defer cancel()

	cfg := &drill.Config{
		BaseURL:   *baseURL,
		Key:       *key,
		Lists:     *lists,
		Teams:     *teams,
		Moves:     *moves,
		Workers:   *workers,
		RetryRate: *retry,
		Timeout:   *timeout,
		Seed:      *seed,
		Verbose:   *verbose,
	}
	if _, err := drill.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "drill failed", logger.Error(err))
		cancel()
		os.Exit(1)
	}
}
