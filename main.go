package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"fricu/internal/analysis"
	"fricu/internal/config"
	"fricu/internal/events"
	"fricu/internal/service"
	"fricu/internal/store"
)

var (
	queryWindow string
	querySport  string
	queryAsOf   string
	verbose     bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fricu",
		Short:         "Training load and intensity dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDashboardCmd,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd.Name() == "serve", verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	addQueryFlags(rootCmd)

	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newPlotCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newTokenCmd())

	return rootCmd
}

// setupLogging writes JSON logs for the server and console logs elsewhere
func setupLogging(jsonOutput, debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if jsonOutput {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&queryWindow, "window", "", "window in days (30, 90, 180, 365) or \"all\"; defaults to engine.default_window_days")
	cmd.Flags().StringVar(&querySport, "sport", "", "only include one sport (cycling, running, swimming, strength)")
	cmd.Flags().StringVar(&queryAsOf, "as-of", "", "last day of the window as YYYY-MM-DD; defaults to today")
}

// env bundles the loaded configuration and services a command needs
type env struct {
	cfg   *config.Config
	store *store.Store
	query *service.QueryService
	sync  *service.SyncService
}

// openEnv loads the configuration and opens the store. A missing config
// file is replaced by an example and the defaults are used.
func openEnv(ctx context.Context, publisher events.Publisher) (*env, error) {
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		if cerr := config.CreateExample(); cerr != nil {
			log.Warn().Err(cerr).Msg("could not write example config")
		} else if dir, derr := config.GetConfigDir(); derr == nil {
			log.Info().Str("path", dir+"/config.json").Msg("created example config")
		}
	} else if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		return nil, fmt.Errorf("config validation failed: %w (edit %s/config.json)", err, configDir)
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}

	s, err := store.Connect(ctx, cfg.Server.DBPath, cfg.Server.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	log.Debug().Str("db", cfg.Server.DBPath).Bool("postgres", cfg.Server.DatabaseURL != "").Msg("store opened")

	return &env{
		cfg:   cfg,
		store: s,
		query: service.NewQueryService(s, cfg.FallbackProfile(), opts),
		sync:  service.NewSyncService(s, publisher),
	}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		log.Warn().Err(err).Msg("closing store")
	}
}

// buildQuery turns the query flags into an engine query
func (e *env) buildQuery(cmd *cobra.Command) (analysis.Query, error) {
	return parseQuery(queryWindow, querySport, queryAsOf, cmd.Flags().Changed("window"), e.cfg.DefaultWindow(), e.query.Location())
}

func parseQuery(window, sport, asOf string, windowSet bool, fallback analysis.Window, loc *time.Location) (analysis.Query, error) {
	q := analysis.Query{Window: fallback}

	if windowSet {
		w, err := analysis.ParseWindow(window)
		if err != nil {
			return q, fmt.Errorf("--window %q: %w", window, err)
		}
		q.Window = w
	}

	if sport != "" {
		s := store.Sport(strings.ToLower(sport))
		if !s.IsKnown() {
			return q, fmt.Errorf("--sport %q: unknown sport", sport)
		}
		q.Sport = s
	}

	if asOf != "" {
		t, err := time.ParseInLocation(service.DateLayout, asOf, loc)
		if err != nil {
			return q, fmt.Errorf("--as-of %q: expected YYYY-MM-DD", asOf)
		}
		q.AsOf = t
	}

	return q, nil
}
