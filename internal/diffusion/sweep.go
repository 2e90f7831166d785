package diffusion

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"diffuse/internal/core"
)

// SweepResult summarises one run of a coefficient sweep.
type SweepResult struct {
	Coefficient float64
	Steps       int
	Mass        float64
	Peak        float64
	Spread      float64
	Finite      bool
	Err         error
}

// Sweep runs one independent simulation per coefficient, each for steps
// steps, on a pool of workers. Results come back ordered by coefficient,
// including the partial results returned with a cancellation error.
// Every simulation stays on the goroutine that built it.
func Sweep(ctx context.Context, base Config, coefficients []float64, steps, workers int) ([]SweepResult, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if steps < 0 {
		return nil, fmt.Errorf("%w: steps %d must not be negative", ErrInvalidConfig, steps)
	}
	for _, c := range coefficients {
		cfg := base
		cfg.Coefficient = c
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	jobs := make(chan float64)
	results := make(chan SweepResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for coef := range jobs {
				results <- runSweepScenario(ctx, base, coef, steps)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, c := range coefficients {
			select {
			case jobs <- c:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]SweepResult, 0, len(coefficients))
	for res := range results {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Coefficient < out[j].Coefficient })
	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

func runSweepScenario(ctx context.Context, base Config, coef float64, steps int) SweepResult {
	cfg := base
	cfg.Coefficient = coef
	cfg.Init = append([]InitialCondition(nil), base.Init...)
	res := SweepResult{Coefficient: coef}

	sim, err := cfg.Build()
	if err != nil {
		res.Err = err
		return res
	}
	ox, oy := cfg.Origin()
	for sim.Steps() < steps {
		if ctx.Err() != nil {
			res.Err = ctx.Err()
			break
		}
		sim.Step(1)
		if !sim.Finite() {
			break
		}
	}
	snap := sim.CurrentState()
	res.Steps = sim.Steps()
	res.Mass = snap.Sum()
	res.Peak = sim.MaxMagnitude()
	res.Spread = Spread(snap, ox, oy)
	res.Finite = sim.Finite()
	return res
}

// Origin returns the reference cell of the first initial condition, or the
// grid centre when there is none.
func (c Config) Origin() (int, int) {
	size := core.Size{W: c.Width, H: c.Height}
	if len(c.Init) == 0 {
		return size.W / 2, size.H / 2
	}
	return c.Init[0].Origin(size)
}
