package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/breakoutsentinel/sentinel/internal/api"
	"github.com/breakoutsentinel/sentinel/internal/config"
	"github.com/breakoutsentinel/sentinel/internal/logger"
	"github.com/breakoutsentinel/sentinel/internal/model"
	"github.com/breakoutsentinel/sentinel/internal/notifier"
	"github.com/breakoutsentinel/sentinel/internal/scanner"
	"github.com/breakoutsentinel/sentinel/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

func runCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan the universe once and write the signal snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rep, err := a.scanner.Execute(ctx, scanner.TriggerCLI)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), rep, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print signals as JSON")
	return cmd
}

func sampleCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a snapshot from synthetic breakout data",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			rep, err := a.scanner.GenerateSample(cmd.Context(), a.cfg.Lookback.DailyDays, a.cfg.Lookback.WeeklyDays)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), rep, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print signals as JSON")
	return cmd
}

func diagnoseCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "diagnose <ticker> [ticker...]",
		Short: "Probe every data source for the given tickers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a := buildApp(cfg, quietLogger(cfg))
			defer a.Close()
			if days <= 0 {
				days = cfg.Lookback.DailyDays
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TICKER\tSOURCE\tROWS\tELAPSED\tERROR")
			for _, ticker := range args {
				for _, r := range a.chain.Diagnose(cmd.Context(), ticker, days) {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", ticker, r.Source, r.Rows, r.Elapsed.Round(time.Millisecond), r.Err)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "Lookback in calendar days (default: lookback.daily_days)")
	return cmd
}

func alertTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alert-test",
		Short: "Send a test message to the configured Telegram chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.notifier.SendTestAlert(cmd.Context()); err != nil {
				if errors.Is(err, notifier.ErrNotConfigured) {
					return fmt.Errorf("alert test: set TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID: %w", err)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "test alert sent")
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler, Telegram bot and HTTP API until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			return serve(cmd.Context(), a)
		},
	}
}

func serve(parent context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(ctx, a.scanner, a.notifier, a.log)
	if err := sched.Register(a.cfg.Schedule.Cron); err != nil {
		return err
	}

	if a.notifier.Configured() {
		go a.notifier.StartPolling(ctx, sched.HandleCommand)
	} else {
		a.log.Warn().Msg("telegram not configured, alerts disabled")
	}

	srv := api.NewServer(a.cfg.Server.Addr, api.NewHandler(a.scanner, a.chain, a.log), a.registry, a.log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		sched.Start()
		if a.cfg.Schedule.RunOnStart {
			sched.RunNow()
		}
		<-gctx.Done()
		sched.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})

	a.log.Info().Str("cron", a.cfg.Schedule.Cron).Str("addr", a.cfg.Server.Addr).Msg("sentinel serving")
	err := g.Wait()
	a.log.Info().Msg("shutdown complete")
	return err
}

func printReport(out io.Writer, rep *scanner.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		signals := rep.Signals
		if signals == nil {
			signals = []model.Signal{}
		}
		return enc.Encode(signals)
	}

	fmt.Fprintf(out, "run %s: scanned %d, skipped %d, %d signal(s)\n",
		rep.RunID, rep.Scanned, rep.Skipped, len(rep.Signals))
	if len(rep.Signals) == 0 {
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tENTRY\tSTOP\tTARGET\tCONF\tHOLDING")
	for _, s := range rep.Signals {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
			s.Symbol, s.BuyPrice, s.StopLoss, s.Target, s.Confidence, s.HoldingDuration)
	}
	return w.Flush()
}

// quietLogger keeps per-fetch logging out of diagnose output unless the
// operator asked for debug.
func quietLogger(cfg *config.Config) zerolog.Logger {
	lc := cfg.Log
	if lc.Level != "debug" {
		lc.Level = "warn"
	}
	log, err := logger.New(lc)
	if err != nil {
		return zerolog.Nop()
	}
	return log
}
