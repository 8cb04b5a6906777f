package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/anim-bench/go-animbench/page"
	"github.com/anim-bench/go-animbench/page/browser"
	"github.com/anim-bench/go-animbench/sampler"
	"github.com/anim-bench/go-animbench/scenario"
	"github.com/anim-bench/go-animbench/util"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scenario suite against a page and print the report",
	RunE:  runSuite,
}

func init() {
	runCmd.Flags().StringVarP(&flagURL, "url", "u", "", "page URL to drive (empty: built-in synthetic demo page)")
	runCmd.Flags().StringVarP(&flagOutput, "output", "o", "./animbench_results", "output directory for report artifacts (empty: do not save)")
	runCmd.Flags().BoolVar(&flagHeaded, "headed", false, "run the browser with a visible window")
	runCmd.Flags().BoolVar(&flagThumbnails, "thumbnails", true, "capture one screenshot per scenario on browser targets")
	runCmd.Flags().BoolVar(&flagJSON, "json", false, "print the raw report as JSON")
}

// target bundles a page with the sampler capabilities it provides.
type target struct {
	page    page.Page
	frames  sampler.FrameSource
	memory  sampler.MemoryProber
	browser *browser.Page
	close   func() error
}

// openTarget resolves the configured target: a live browser page when a URL
// is set, the synthetic demo page otherwise. The synthetic target is probed
// through the Go runtime so memory sampling stays exercised.
func openTarget(ctx context.Context, cfg *Config) (*target, error) {
	if cfg.URL == "" {
		syn := page.DemoPage()
		return &target{
			page:   syn,
			frames: syn,
			memory: sampler.RuntimeProber{},
			close:  func() error { return nil },
		}, nil
	}

	bp, err := browser.Open(ctx, cfg.URL, browser.Options{Headed: cfg.Headed, Logger: &log.Logger})
	if err != nil {
		return nil, errors.Wrap(err, "open browser page")
	}
	return &target{page: bp, frames: bp, memory: bp, browser: bp, close: bp.Close}, nil
}

func samplerOptions(t *target) sampler.Options {
	info := t.page.Info()
	return sampler.Options{
		Frames: t.frames,
		Memory: t.memory,
		Surface: sampler.Surface{
			Agent:            info.Agent,
			ViewportWidth:    info.ViewportWidth,
			ViewportHeight:   info.ViewportHeight,
			DevicePixelRatio: info.DevicePixelRatio,
		},
		Logger: &log.Logger,
	}
}

func runSuite(cmd *cobra.Command, args []string) error {
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

	smp := sampler.New(samplerOptions(t))

	var thumbs [][]byte
	opts := scenario.Options{Logger: &log.Logger}
	if t.browser != nil && cfg.Thumbnails {
		opts.OnScenario = func(scenario.Result) {
			data, err := t.browser.Thumbnail(ctx, browser.DefaultThumbnailWidth)
			if err != nil {
				log.Warn().Err(err).Msg("thumbnail capture failed")
				return
			}
			thumbs = append(thumbs, data)
		}
	}

	suite := scenario.NewSuite(t.page, smp, opts)
	report, err := suite.RunAll(ctx)
	if err != nil {
		return errors.Wrap(err, "scenario run")
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "encode report")
		}
	} else {
		fmt.Print(report.String())
	}

	if cfg.OutputDir == "" {
		return nil
	}

	jsonPath, csvPath, err := scenario.SaveReport(report, cfg.OutputDir)
	if err != nil {
		return err
	}
	log.Info().Str("report", jsonPath).Str("summary", csvPath).Msg("artifacts written")

	if len(thumbs) > 0 {
		dir := filepath.Join(cfg.OutputDir, "filmstrip_"+report.StartedAt.Format("2006-01-02_15-04-05"))
		if _, err := util.SaveFrames(dir, thumbs); err != nil {
			log.Warn().Err(err).Msg("filmstrip save failed")
		} else {
			log.Info().Str("dir", dir).Int("frames", len(thumbs)).Msg("filmstrip written")
		}
	}
	return nil
}
