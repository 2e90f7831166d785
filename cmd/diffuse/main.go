// Command diffuse runs lattice diffusion simulations headless, in a terminal
// or in a window.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	_ "diffuse/internal/sims/laplacian"
	_ "diffuse/internal/sims/stochastic"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logrus.Error(err)
		stop()
		os.Exit(1)
	}
}
