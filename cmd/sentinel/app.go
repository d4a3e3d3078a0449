package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/breakoutsentinel/sentinel/internal/collector"
	"github.com/breakoutsentinel/sentinel/internal/config"
	"github.com/breakoutsentinel/sentinel/internal/logger"
	"github.com/breakoutsentinel/sentinel/internal/metrics"
	"github.com/breakoutsentinel/sentinel/internal/notifier"
	"github.com/breakoutsentinel/sentinel/internal/recorder"
	"github.com/breakoutsentinel/sentinel/internal/scanner"
	"github.com/breakoutsentinel/sentinel/internal/store"
)

// app holds the wired components shared by every command.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	chain    *collector.Chain
	scanner  *scanner.Scanner
	recorder recorder.Recorder
	registry *prometheus.Registry
	notifier *notifier.TelegramNotifier
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	return buildApp(cfg, log), nil
}

// buildApp wires the pipeline from cfg.
func buildApp(cfg *config.Config, log zerolog.Logger) *app {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	chain := buildChain(cfg, log).WithObserver(m)
	log.Info().Strs("sources", chain.Names()).Int("tickers", len(cfg.Universe)).Msg("data sources configured")

	col := collector.NewCollector(chain, cfg.Lookback.DailyDays, cfg.Lookback.WeeklyDays, log)
	sc := scanner.New(
		col,
		store.NewSnapshotFile(cfg.Storage.SnapshotPath),
		store.NewHistoryCSV(cfg.Storage.HistoryPath),
		scanner.Options{Universe: cfg.Universe, Workers: cfg.Scanner.Workers},
		log,
	).WithMetrics(m)

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Storage.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Storage.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}
	sc.WithRecorder(rec)

	return &app{
		cfg:      cfg,
		log:      log,
		chain:    chain,
		scanner:  sc,
		recorder: rec,
		registry: reg,
		notifier: notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log),
	}
}

// buildChain orders the sources: Alpha Vantage when keyed, then the NSE
// session source, then Yahoo.
func buildChain(cfg *config.Config, log zerolog.Logger) *collector.Chain {
	src := cfg.Sources
	var fetchers []collector.Fetcher
	if src.AlphaVantage.APIKey != "" {
		client := collector.NewHTTPClient(src.RequestTimeout, cfg.Proxy, false)
		fetchers = append(fetchers, collector.NewAlphaVantageFetcher(src.AlphaVantage.BaseURL, src.AlphaVantage.APIKey, client))
	}
	if !src.NSE.Disabled {
		client := collector.NewHTTPClient(src.RequestTimeout, cfg.Proxy, true)
		fetchers = append(fetchers, collector.NewNSEFetcher(src.NSE.BaseURL, client))
	}
	client := collector.NewHTTPClient(src.RequestTimeout, cfg.Proxy, false)
	fetchers = append(fetchers, collector.NewYahooFetcher(src.Yahoo.BaseURL, client))
	return collector.NewChain(log, fetchers...)
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close recorder")
	}
}
