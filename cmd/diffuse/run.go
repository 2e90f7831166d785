package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"diffuse/internal/core"
	"diffuse/internal/diffusion"
	"diffuse/internal/render"
)

type runOptions struct {
	sim         simFlags
	steps       int
	every       int
	watch       bool
	color       bool
	tps         int
	convergeTol float64
	clim        []float64
	chart       string
}

func newRunCmd() *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation headless and print frames to the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}
	o.sim.bind(cmd.Flags())
	fs := cmd.Flags()
	fs.IntVarP(&o.steps, "steps", "n", 10000, "number of steps to run")
	fs.IntVar(&o.every, "every", 0, "print a frame every N steps (0 prints only the final frame)")
	fs.BoolVarP(&o.watch, "watch", "w", false, "redraw frames in place, paced by --tps")
	fs.BoolVar(&o.color, "color", false, "colour frames with ANSI escapes")
	fs.IntVar(&o.tps, "tps", 30, "frames per second in --watch mode")
	fs.Float64Var(&o.convergeTol, "converge-tol", 0, "stop when the peak value changes by less than this between frames")
	fs.Float64SliceVar(&o.clim, "clim", nil, "fixed colour range lo,hi (default per-frame min/max)")
	fs.StringVar(&o.chart, "chart", "", "write a PNG chart of spread and peak over time")
	return cmd
}

func (o *runOptions) run(cmd *cobra.Command) error {
	if o.steps < 0 {
		return fmt.Errorf("--steps %d must not be negative", o.steps)
	}
	rng, err := colorRange(o.clim)
	if err != nil {
		return err
	}
	cfg, err := o.sim.resolve(cmd)
	if err != nil {
		return err
	}
	sim, err := cfg.Build()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	term := render.NewTerminal(o.color)
	term.Range = rng
	term.Clear = o.watch

	every := o.every
	if o.watch && every <= 0 {
		every = 1
	}
	var timer *core.FixedStep
	if o.watch {
		timer = core.NewFixedStep(o.tps)
	}

	ox, oy := cfg.Origin()
	history := diffusion.NewHistory(ox, oy)
	history.Record(sim)

	frame := func() error {
		header := fmt.Sprintf("%s D=%g step %d", sim.Name(), sim.Rule().Coefficient(), sim.Steps())
		return term.Frame(out, sim.CurrentState(), header)
	}

	prev := sim.CurrentState()
	warned := false
	converged := false
	for sim.Steps() < o.steps {
		sim.Step(1)
		sample := history.Record(sim)

		if !sim.Finite() && !warned {
			logrus.WithField("step", sim.Steps()).Warn("field is no longer finite; the coefficient is unstable")
			warned = true
		}
		if every > 0 && sim.Steps()%every == 0 {
			logrus.WithFields(logrus.Fields{
				"step":   sample.Step,
				"mass":   sample.Mass,
				"max":    sample.Max,
				"spread": sample.Spread,
			}).Info("progress")
			if err := frame(); err != nil {
				return err
			}
			if timer != nil {
				timer.Wait()
			}
		}

		cur := sim.CurrentState()
		if diffusion.Converged(prev, cur, o.convergeTol) {
			logrus.WithField("step", sim.Steps()).Info("converged")
			converged = true
			break
		}
		prev = cur
	}

	if every <= 0 || sim.Steps()%every != 0 {
		if err := frame(); err != nil {
			return err
		}
	}

	if o.chart != "" {
		if err := writeChart(o.chart, sim.Name(), history); err != nil {
			return err
		}
		logrus.WithField("path", o.chart).Info("chart written")
	}

	last := history.Samples[history.Len()-1]
	fmt.Fprintf(out, "steps=%d mass=%.6g max=%.6g peak=%.6g spread=%.6g finite=%t converged=%t\n",
		last.Step, last.Mass, last.Max, sim.MaxMagnitude(), last.Spread, sim.Finite(), converged)
	return nil
}

func writeChart(path, title string, h *diffusion.History) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if err := render.WriteHistoryChart(f, title, h); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
