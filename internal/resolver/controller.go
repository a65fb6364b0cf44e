package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Mode selects the execution model the controller drives cascades with.
type Mode string

const (
	// ModeFlight admits cascades through a counting gate, one goroutine
	// per in-flight name. A cascade panic aborts the whole flight run.
	ModeFlight Mode = "flight"
	// ModePool runs a fixed-size worker pool; each worker pulls one name
	// at a time and runs its cascade to completion.
	ModePool Mode = "pool"
	// ModeAuto runs flight mode and falls back to the pool for the
	// remaining names if the flight run fails mid-way.
	ModeAuto Mode = "auto"
)

// ControllerConfig tunes the concurrency controller.
type ControllerConfig struct {
	// Workers bounds simultaneous cascades in both modes.
	Workers int
	Mode    Mode
	// ReportInterval emits a progress snapshot every N completed
	// cascades. Zero disables progress reporting.
	ReportInterval int
	// Progress receives interval snapshots. May be nil.
	Progress func(Snapshot)
}

// Controller runs the resolution cascade over a whole name set under a
// bounded-parallelism policy. Both execution modes produce the same
// name-to-SMILES mapping for the same inputs and cache state; only
// completion order differs.
type Controller struct {
	resolver *Resolver
	stats    *Stats
	cfg      ControllerConfig
}

// NewController creates a Controller around an existing Resolver.
func NewController(r *Resolver, cfg ControllerConfig) *Controller {
	if cfg.Workers <= 0 {
		cfg.Workers = 20
	}

	if cfg.Mode == "" {
		cfg.Mode = ModeAuto
	}

	return &Controller{
		resolver: r,
		stats:    NewStats(),
		cfg:      cfg,
	}
}

// Stats returns a snapshot of the run counters.
func (c *Controller) Stats() Snapshot {
	return c.stats.Snapshot()
}

// Run resolves every name and returns one outcome per name. When the
// context is canceled mid-run, admission stops and the outcomes completed
// so far are returned, so partial results are never discarded.
func (c *Controller) Run(ctx context.Context, names []string) map[string]Outcome {
	switch c.cfg.Mode {
	case ModePool:
		return c.runPool(ctx, names, nil)

	case ModeFlight:
		results, err := c.runFlight(ctx, names)
		if err != nil {
			slog.Error("resolver: flight run aborted", "err", err)
		}

		return results

	default:
		results, err := c.runFlight(ctx, names)
		if err == nil || ctx.Err() != nil {
			return results
		}

		slog.Warn("resolver: flight run failed, falling back to worker pool", "err", err)

		// Re-issue only the names with no recorded outcome. Names already
		// cached or registered as failed cost nothing to pass through the
		// cascade again.
		var remaining []string

		for _, name := range names {
			if _, ok := results[name]; !ok {
				remaining = append(remaining, name)
			}
		}

		return c.runPool(ctx, remaining, results)
	}
}

// runFlight drives one goroutine per admitted name through a weighted
// semaphore. Any cascade panic is converted into an error that aborts
// admission; completed outcomes are still returned.
func (c *Controller) runFlight(ctx context.Context, names []string) (map[string]Outcome, error) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		runErr  error
		results = make(map[string]Outcome, len(names))
	)

	gate := semaphore.NewWeighted(int64(c.cfg.Workers))

	for _, name := range names {
		if err := gate.Acquire(ctx, 1); err != nil {
			break // canceled; stop admitting
		}

		mu.Lock()
		aborted := runErr != nil
		mu.Unlock()

		if aborted {
			gate.Release(1)
			break
		}

		wg.Add(1)

		go func(name string) {
			defer wg.Done()
			defer gate.Release(1)

			defer func() {
				if p := recover(); p != nil {
					mu.Lock()
					if runErr == nil {
						runErr = fmt.Errorf("cascade panic for %q: %v", name, p)
					}
					mu.Unlock()
				}
			}()

			outcome := c.resolver.Resolve(ctx, name)

			mu.Lock()
			results[name] = outcome
			mu.Unlock()

			c.complete(outcome)
		}(name)
	}

	wg.Wait()

	return results, runErr
}

// runPool runs a fixed worker pool over names, folding outcomes into
// carry (which may hold results from an aborted flight run).
func (c *Controller) runPool(ctx context.Context, names []string, carry map[string]Outcome) map[string]Outcome {
	results := carry
	if results == nil {
		results = make(map[string]Outcome, len(names))
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	tasks := make(chan string)

	for i := 0; i < c.cfg.Workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for name := range tasks {
				outcome := c.resolveRecovered(ctx, name)

				mu.Lock()
				results[name] = outcome
				mu.Unlock()

				c.complete(outcome)
			}
		}()
	}

submit:
	for _, name := range names {
		select {
		case tasks <- name:
		case <-ctx.Done():
			break submit
		}
	}

	close(tasks)
	wg.Wait()

	return results
}

// resolveRecovered shields pool workers from cascade panics: the panic is
// logged and recorded as an error outcome instead of killing the worker.
func (c *Controller) resolveRecovered(ctx context.Context, name string) (o Outcome) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("resolver: cascade panic", "name", name, "panic", p)

			o = Outcome{Name: name, Status: StatusError}
		}
	}()

	return c.resolver.Resolve(ctx, name)
}

// complete is the single aggregation point for run statistics and
// progress reporting.
func (c *Controller) complete(o Outcome) {
	processed := c.stats.Record(o)

	if c.cfg.ReportInterval > 0 && c.cfg.Progress != nil && processed%c.cfg.ReportInterval == 0 {
		c.cfg.Progress(c.stats.Snapshot())
	}
}
