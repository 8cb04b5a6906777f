package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Flag storage shared by the commands. One command runs per invocation.
var (
	flagLogLevel   string
	flagConfig     string
	flagURL        string
	flagOutput     string
	flagListen     string
	flagHeaded     bool
	flagThumbnails bool
	flagJSON       bool
)

var rootCmd = &cobra.Command{
	Use:   "animbench",
	Short: "Animation performance harness",
	Long:  "animbench samples rendering performance (FPS, frame times, heap) while driving synthetic animation load scenarios against a page.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(flagLogLevel)
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the animbench version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("animbench v%s\n", version)
	},
}

var genConfigCmd = &cobra.Command{
	Use:   "genconfig",
	Short: "Generate a default configuration file to start with",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := flagConfig
		if path == "" {
			path = "animbench.json"
		}
		if err := DefaultConfig().Save(path); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("config written")
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to JSON config file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(genConfigCmd)
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
