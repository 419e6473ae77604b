package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/glucoguard/internal/bundle"
	"github.com/abhisek/glucoguard/internal/config"
	"github.com/abhisek/glucoguard/internal/logger"
	"github.com/abhisek/glucoguard/internal/risk"
)

var (
	v        = config.New()
	cfg      config.Config
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "glucoguard",
	Short: "Diabetes risk estimator",
	Long: "GlucoGuard estimates the probability of diabetes from seven BRFSS health-survey\n" +
		"answers using a trained model bundle. For educational use only.",
	SilenceUsage: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentPreRunE = setup

	pf := rootCmd.PersistentFlags()
	pf.String("bundle", "", "Path to the model bundle (overrides GLUCOGUARD_BUNDLE)")
	pf.String("config", "", "Path to a YAML/JSON/TOML config file")
	pf.String("log-level", "", "Log level: DEBUG, INFO, WARN, ERROR, DISABLED")
	pf.String("log-file", "", "Append logs to this file")

	for key, flag := range map[string]string{
		"bundle":    "bundle",
		"log_level": "log-level",
		"log_file":  "log-file",
	} {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(bundleCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and initializes logging. The terminal UI owns the
// screen, so its logs are discarded unless a log file is configured.
func setup(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("config")

	var err error
	cfg, err = config.Load(v, file)
	if err != nil {
		return err
	}

	closeLog, err = logger.Init(logger.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
		Quiet: isInteractive(cmd),
	})
	return err
}

// isInteractive reports whether cmd starts the terminal UI.
func isInteractive(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == runCmd
}

// loadScorer loads the configured bundle and wraps it in a scorer.
func loadScorer() (*risk.Scorer, error) {
	b, err := bundle.Load(cfg.Bundle)
	if err != nil {
		log.Error().Err(err).Str("bundle", cfg.Bundle).Msg("bundle load failed")
		return nil, fmt.Errorf("load model bundle: %w\n\nInstall one with: glucoguard bundle pull --version <tag>", err)
	}

	log.Info().
		Str("bundle", cfg.Bundle).
		Str("version", b.Version()).
		Float64("threshold", b.Threshold()).
		Msg("bundle loaded")
	return risk.NewScorer(b, log.Logger.With().Str("component", "scorer").Logger()), nil
}
