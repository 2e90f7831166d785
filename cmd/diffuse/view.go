package main

import (
	"github.com/spf13/cobra"

	"diffuse/internal/app"
)

func newViewCmd() *cobra.Command {
	var (
		sim  simFlags
		clim []float64
	)
	opts := app.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open an interactive window (requires the ebiten build tag)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := colorRange(clim)
			if err != nil {
				return err
			}
			cfg, err := sim.resolve(cmd)
			if err != nil {
				return err
			}
			opts.Range = rng
			return app.Run(cfg, opts.Normalize())
		},
	}
	sim.bind(cmd.Flags())
	fs := cmd.Flags()
	fs.IntVar(&opts.Scale, "scale", opts.Scale, "pixels per cell")
	fs.IntVar(&opts.TPS, "tps", opts.TPS, "simulation ticks per second")
	fs.IntVar(&opts.StepsPerFrame, "steps-per-frame", opts.StepsPerFrame, "steps advanced per tick")
	fs.IntVarP(&opts.MaxSteps, "steps", "n", opts.MaxSteps, "pause after this many steps (0 for no limit)")
	fs.Float64Var(&opts.ConvergeTol, "converge-tol", 0, "pause when the peak value changes by less than this between ticks")
	fs.Float64Var(&opts.ClickValue, "click-value", opts.ClickValue, "value added to a cell on left click")
	fs.IntVar(&opts.HUDWidth, "hud-width", opts.HUDWidth, "width of the parameter panel (0 hides it)")
	fs.Float64SliceVar(&clim, "clim", nil, "fixed colour range lo,hi (default per-frame min/max)")
	return cmd
}
