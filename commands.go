package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"fricu/internal/analysis"
	"fricu/internal/auth"
	"fricu/internal/chart"
	"fricu/internal/events"
	"fricu/internal/export"
	"fricu/internal/server"
	"fricu/internal/service"
	"fricu/internal/tui"
)

const (
	shutdownTimeout = 15 * time.Second
	cliSubject      = "cli"
)

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the terminal dashboard",
		Args:  cobra.NoArgs,
		RunE:  runDashboardCmd,
	}
	addQueryFlags(cmd)
	return cmd
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	q, err := e.buildQuery(cmd)
	if err != nil {
		return err
	}

	app := tui.NewApp(e.query, e.sync, tui.NewUnits(e.cfg.Display), q)
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the sync and analysis HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// The publisher needs the config, so load it once up front
	e, err := openEnv(ctx, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	publisher := events.New(e.cfg.Server.KafkaBrokers, e.cfg.Server.KafkaTopic)
	defer publisher.Close()
	e.sync = service.NewSyncService(e.store, publisher)

	handler := server.NewHandler(server.Deps{
		Sync:          e.sync,
		Query:         e.query,
		Auth:          auth.Config{Secret: e.cfg.Server.JWTSecret, Issuer: e.cfg.Server.JWTIssuer},
		DefaultWindow: e.cfg.DefaultWindow(),
	})
	srv := server.NewServer(server.DefaultServerConfig(e.cfg.Server.Bind), handler)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("bind", e.cfg.Server.Bind).
			Bool("auth", e.cfg.Server.JWTSecret != "").
			Strs("kafka_brokers", e.cfg.Server.KafkaBrokers).
			Msg("fricu server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-shutdownCh:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a training load report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withReport(cmd, func(r *analysis.Report) error {
				return export.WriteText(cmd.OutOrStdout(), r)
			})
		},
	}
	addQueryFlags(cmd)
	return cmd
}

func newExportCmd() *cobra.Command {
	var format, out string
	var zones bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the daily load series as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(format)
			if format != "csv" && format != "json" {
				return fmt.Errorf("--format %q: expected csv or json", format)
			}
			if zones && format != "csv" {
				return fmt.Errorf("--zones requires --format csv")
			}

			return withReport(cmd, func(r *analysis.Report) error {
				if out == "" {
					out = fmt.Sprintf("fricu-%s.%s", r.Window, format)
				}

				var err error
				switch {
				case zones:
					err = writeFile(out, func(f *os.File) error { return export.WriteZonesCSV(f, r) })
				case format == "csv":
					err = export.ToCSV(r, out)
				default:
					err = export.ToJSON(r, out)
				}
				if err != nil {
					return err
				}
				log.Info().Str("path", out).Int("days", len(r.Load)).Msg("export written")
				return nil
			})
		},
	}
	addQueryFlags(cmd)
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default fricu-<window>.<format>)")
	cmd.Flags().BoolVar(&zones, "zones", false, "write the zone histogram instead of the load series (csv only)")
	return cmd
}

func newPlotCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render the performance management chart to a PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withReport(cmd, func(r *analysis.Report) error {
				if err := chart.SavePMC(out, r, chart.DefaultSize); err != nil {
					return err
				}
				log.Info().Str("path", out).Msg("chart written")
				return nil
			})
		},
	}
	addQueryFlags(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "pmc.png", "output PNG path")
	return cmd
}

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Edit FTP, threshold heart rate and weight",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			current, err := e.query.Profile(ctx)
			if err != nil {
				return err
			}

			form := tui.NewProfileForm(current)
			if err := form.Form().Run(); err != nil {
				return fmt.Errorf("profile form: %w", err)
			}
			p, err := form.Profile()
			if err != nil {
				return err
			}
			if err := e.sync.SaveProfile(ctx, p, cliSubject); err != nil {
				return fmt.Errorf("saving profile: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved: FTP %d W, threshold HR %d bpm, %.1f kg\n",
				p.DefaultFTPWatts, p.DefaultThresholdHeartRate, p.WeightKg)
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Replace stored activities with a JSON array from file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			result, err := service.NewImportService(e.store).ImportActivities(ctx, f)
			if err != nil {
				return err
			}
			log.Info().
				Int("read", result.Read).
				Int("ids_assigned", result.IDsAssigned).
				Int("stored", result.Stored).
				Msg("activities imported")
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var subject string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for API writes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer e.Close()

			cfg := auth.Config{Secret: e.cfg.Server.JWTSecret, Issuer: e.cfg.Server.JWTIssuer}
			if !cfg.Enabled() {
				return fmt.Errorf("no JWT secret configured; set server.jwt_secret or FRICU_JWT_SECRET")
			}
			token, err := auth.Issue(cfg, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "fricu-app", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	return cmd
}

// withReport opens the store, computes the report for the query flags and
// hands it to fn
func withReport(cmd *cobra.Command, fn func(*analysis.Report) error) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	q, err := e.buildQuery(cmd)
	if err != nil {
		return err
	}
	report, err := e.query.Report(ctx, q)
	if err != nil {
		return err
	}
	return fn(report)
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return err
	}
	return f.Close()
}
