package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/anim-bench/go-animbench/overlay"
	"github.com/anim-bench/go-animbench/sampler"
	"github.com/anim-bench/go-animbench/scenario"
)

const shutdownTimeout = 5 * time.Second

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Sample continuously and serve the overlay API",
	Long:  "monitor starts the sampler against the target page and serves summaries, exports, run control and metrics over HTTP until interrupted.",
	RunE:  runMonitor,
}

func init() {
	monitorCmd.Flags().StringVarP(&flagURL, "url", "u", "", "page URL to drive (empty: built-in synthetic demo page)")
	monitorCmd.Flags().StringVarP(&flagListen, "listen", "l", ":8099", "overlay listen address")
	monitorCmd.Flags().BoolVar(&flagHeaded, "headed", false, "run the browser with a visible window")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t, err := openTarget(ctx, cfg)
	if err != nil {
		return err
	}
	defer t.close()

	opts := samplerOptions(t)
	opts.OnFPS = func(fps int) {
		log.Info().Int("fps", fps).Msg("fps")
	}
	opts.OnMemory = func(s sampler.MemorySample) {
		log.Info().Int("used_mb", s.UsedMB).Int("limit_mb", s.LimitMB).Msg("heap")
	}
	smp := sampler.New(opts)

	suite := scenario.NewSuite(t.page, smp, scenario.Options{Logger: &log.Logger})
	srv, err := overlay.NewServer(smp, suite, overlay.Config{Addr: cfg.Listen, Logger: &log.Logger})
	if err != nil {
		return err
	}

	smp.Start()
	defer smp.Stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		log.Info().Msg("signal received, shutting down")
	case err := <-errCh:
		return err
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return err
	}
	return <-errCh
}
