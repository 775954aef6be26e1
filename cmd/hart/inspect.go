package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hart-dev/hart"
	"github.com/hart-dev/hart/internal/demo"
	"github.com/hart-dev/hart/internal/errors"
	"github.com/hart-dev/hart/pkg/devtools"
	"github.com/hart-dev/hart/pkg/dom/memdom"
	"github.com/hart-dev/hart/pkg/scheduler"
	"github.com/hart-dev/hart/pkg/telemetry"
)

func inspectCmd(flags *globalFlags) *cobra.Command {
	var (
		addr     string
		interval time.Duration
		once     bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Serve a live inspector while the demo script runs",
		Long: `Start the inspector and replay the scripted todo session, one step
per interval, until interrupted. Rendering runs on an event loop;
effects and unmounts run as microtasks after each step.

Open the address in a browser to watch the markup change, or scrape
/metrics with Prometheus.

Examples:
  hart inspect
  hart inspect --addr=:7070 --interval=250ms
  hart inspect --once`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Inspect.Addr = addr
			}
			if interval <= 0 {
				interval = cfg.InspectInterval()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := newLogger(cfg, cmd.ErrOrStderr())
			reg := prometheus.NewRegistry()
			metrics := telemetry.NewMetrics(
				telemetry.WithRegistry(reg),
				telemetry.WithNamespace(cfg.Metrics.Namespace),
				telemetry.WithConstLabels(prometheus.Labels{"app": cfg.Name}),
			)

			body := memdom.NewElement("body")
			srv := devtools.New(devtools.Config{
				Addr:     cfg.Inspect.Addr,
				Target:   body,
				Gatherer: reg,
				Logger:   logger,
			})
			defer srv.Close()

			loop := scheduler.NewLoop()
			d := newDemo(cfg, logger, body,
				hart.WithScheduler(loop),
				hart.WithMetrics(metrics),
				hart.WithTracer(telemetry.NewTracer()),
				hart.WithRecorder(srv),
			)

			success(cmd.OutOrStdout(), "inspector on http://%s", cfg.Inspect.Addr)

			errCh := make(chan error, 1)
			go func() {
				err := srv.ListenAndServe(ctx)
				if err != nil {
					stop()
				}
				errCh <- err
			}()
			go drive(ctx, loop, d, interval, once, stop)

			if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
				return errors.New("E141").Wrap(err)
			}
			if err := <-errCh; err != nil {
				return errors.New("E141").Wrap(err)
			}
			return d.App().Close()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Delay between steps (default from config)")
	cmd.Flags().BoolVar(&once, "once", false, "Run the script once and exit")

	return cmd
}

// drive posts the initial render and then one script step per tick to the
// loop. With once set it cancels the run after the last step; otherwise
// the script starts over on the same model.
func drive(ctx context.Context, loop *scheduler.Loop, d *demo.Demo, interval time.Duration, once bool, stop context.CancelFunc) {
	fail := func(err error) {
		if ctx.Err() == nil {
			errors.PrintError(errors.New("E141").Wrap(err))
		}
		stop()
	}

	loop.Post(func() {
		if err := d.Settle(ctx); err != nil {
			fail(err)
		}
	})

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	script := demo.Script()
	next := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if next == len(script) {
			if once {
				loop.Post(stop)
				return
			}
			next = 0
		}
		step := script[next]
		next++
		loop.Post(func() {
			if err := d.Step(ctx, step); err != nil {
				fail(err)
			}
		})
	}
}
