package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/breakoutsentinel/sentinel/internal/collector"
	"github.com/breakoutsentinel/sentinel/internal/metrics"
	"github.com/breakoutsentinel/sentinel/internal/model"
	"github.com/breakoutsentinel/sentinel/internal/recorder"
	"github.com/breakoutsentinel/sentinel/internal/strategy"
)

// Run triggers recorded with each pass.
const (
	TriggerCLI      = "cli"
	TriggerSchedule = "schedule"
	TriggerAPI      = "api"
	TriggerTelegram = "telegram"
	TriggerSample   = "sample"
)

// Ticker outcomes reported to metrics.
const (
	resultSignal   = "signal"
	resultNoSignal = "no_signal"
	resultSkipped  = "skipped"
)

// FrameCollector produces annotated frames for one ticker.
type FrameCollector interface {
	Collect(ctx context.Context, ticker string) (*collector.Frames, error)
}

// SnapshotStore holds the latest run's signals.
type SnapshotStore interface {
	Replace(signals []model.Signal) error
	Load() ([]model.Signal, error)
}

// HistoryLog is the append-only record of every emitted signal.
type HistoryLog interface {
	Append(signals []model.Signal) error
}

// Options binds a Scanner to its universe.
type Options struct {
	Universe []string
	// Workers bounds concurrent tickers; 1 or less scans sequentially.
	Workers int
}

// Report is the outcome of one pass over the universe.
type Report struct {
	RunID      string
	Trigger    string
	StartedAt  time.Time
	FinishedAt time.Time
	Scanned    int
	Skipped    int
	Signals    []model.Signal
}

// Scanner runs the fetch, annotate and classify pipeline over the universe
// and persists the accepted signals.
type Scanner struct {
	collector FrameCollector
	snapshot  SnapshotStore
	history   HistoryLog
	recorder  recorder.Recorder
	metrics   *metrics.Recorder
	opts      Options
	log       zerolog.Logger
	now       func() time.Time

	// runs are serialized so history rows and snapshot replacements stay ordered
	mu sync.Mutex
}

// New creates a Scanner. Recorder and metrics are optional and attached with
// WithRecorder and WithMetrics.
func New(col FrameCollector, snapshot SnapshotStore, history HistoryLog, opts Options, log zerolog.Logger) *Scanner {
	return &Scanner{
		collector: col,
		snapshot:  snapshot,
		history:   history,
		recorder:  recorder.NewNoopRecorder(),
		opts:      opts,
		log:       log.With().Str("component", "scanner").Logger(),
		now:       time.Now,
	}
}

// WithRecorder mirrors runs and signals into r.
func (s *Scanner) WithRecorder(r recorder.Recorder) *Scanner {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithMetrics attaches a metrics recorder.
func (s *Scanner) WithMetrics(m *metrics.Recorder) *Scanner {
	s.metrics = m
	return s
}

// Universe returns the configured tickers.
func (s *Scanner) Universe() []string {
	return append([]string(nil), s.opts.Universe...)
}

// Latest returns the current snapshot.
func (s *Scanner) Latest() ([]model.Signal, error) {
	return s.snapshot.Load()
}

// Run scans the universe once and returns the accepted signals in universe
// order. Per-ticker failures are logged and skipped; only persistence
// failures are returned.
func (s *Scanner) Run(ctx context.Context) ([]model.Signal, error) {
	rep, err := s.Execute(ctx, TriggerCLI)
	return rep.Signals, err
}

// Execute is Run with the trigger recorded and the full report returned.
func (s *Scanner) Execute(ctx context.Context, trigger string) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execute(ctx, trigger, s.collector)
}

func (s *Scanner) execute(ctx context.Context, trigger string, col FrameCollector) (*Report, error) {
	rep := &Report{
		RunID:     uuid.New().String(),
		Trigger:   trigger,
		StartedAt: s.now(),
		Scanned:   len(s.opts.Universe),
	}
	log := s.log.With().Str("run_id", rep.RunID).Str("trigger", trigger).Logger()
	log.Info().Int("tickers", rep.Scanned).Int("workers", s.workers()).Msg("scan started")

	results := s.scanAll(ctx, col, log)

	signals := make([]model.Signal, 0, len(results))
	for _, r := range results {
		switch r.result {
		case resultSkipped:
			rep.Skipped++
		case resultSignal:
			signals = append(signals, *r.signal)
		}
	}
	rep.Signals = signals

	// a cancelled pass is partial; the previous snapshot stays authoritative
	if err := ctx.Err(); err != nil {
		rep.FinishedAt = s.now()
		err = fmt.Errorf("scan cancelled: %w", err)
		log.Warn().Err(err).Int("skipped", rep.Skipped).Msg("scan aborted, stores left untouched")
		if s.metrics != nil {
			s.metrics.RecordRun("cancelled", 0, rep.FinishedAt.Sub(rep.StartedAt), rep.FinishedAt)
		}
		return rep, err
	}

	err := s.persist(signals)
	rep.FinishedAt = s.now()
	s.mirror(rep, err, log)

	if err != nil {
		log.Error().Err(err).Msg("scan persistence failed")
		return rep, err
	}
	log.Info().Int("signals", len(signals)).Int("skipped", rep.Skipped).
		Dur("elapsed", rep.FinishedAt.Sub(rep.StartedAt)).Msg("scan finished")
	return rep, nil
}

type tickerResult struct {
	signal *model.Signal
	result string
}

func (s *Scanner) workers() int {
	if s.opts.Workers < 1 {
		return 1
	}
	return s.opts.Workers
}

// scanAll returns one result per ticker, indexed like the universe.
func (s *Scanner) scanAll(ctx context.Context, col FrameCollector, log zerolog.Logger) []tickerResult {
	results := make([]tickerResult, len(s.opts.Universe))
	if s.workers() == 1 {
		for i, ticker := range s.opts.Universe {
			if ctx.Err() != nil {
				break
			}
			results[i] = s.scanTicker(ctx, col, ticker, log)
		}
		return results
	}

	// workers never fail: every ticker error is folded into its result
	var g errgroup.Group
	g.SetLimit(s.workers())
	for i, ticker := range s.opts.Universe {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			results[i] = s.scanTicker(ctx, col, ticker, log)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// scanTicker runs the pipeline for one ticker. Errors, absence and panics
// never escape.
func (s *Scanner) scanTicker(ctx context.Context, col FrameCollector, ticker string, log zerolog.Logger) (res tickerResult) {
	log = log.With().Str("ticker", ticker).Logger()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("ticker pipeline panicked, skipping")
			res = tickerResult{result: resultSkipped}
		}
		s.recordTicker(res)
	}()

	frames, err := col.Collect(ctx, ticker)
	if err != nil {
		log.Warn().Err(err).Msg("no data, skipping")
		return tickerResult{result: resultSkipped}
	}

	sig, ok := strategy.Classify(ticker, frames.Daily, frames.Weekly, s.now())
	if !ok {
		log.Debug().Msg("no signal")
		return tickerResult{result: resultNoSignal}
	}
	log.Info().Float64("confidence", sig.Confidence).Str("holding", string(sig.HoldingDuration)).
		Float64("entry", sig.BuyPrice).Msg("signal")
	return tickerResult{signal: sig, result: resultSignal}
}

// persist appends to history first, then replaces the snapshot.
func (s *Scanner) persist(signals []model.Signal) error {
	if err := s.history.Append(signals); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	if err := s.snapshot.Replace(signals); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// mirror copies the run into the recorder and metrics. Failures are logged only.
func (s *Scanner) mirror(rep *Report, runErr error, log zerolog.Logger) {
	run := &recorder.RunRecord{
		ID:         rep.RunID,
		StartedAt:  rep.StartedAt,
		FinishedAt: rep.FinishedAt,
		Trigger:    rep.Trigger,
		Tickers:    rep.Scanned,
		Skipped:    rep.Skipped,
		Signals:    len(rep.Signals),
	}
	if runErr != nil {
		run.Err = runErr.Error()
	}
	if err := s.recorder.RecordRun(run); err != nil {
		log.Error().Err(err).Msg("record run")
	}
	if err := s.recorder.RecordSignals(rep.RunID, rep.Signals); err != nil {
		log.Error().Err(err).Msg("record signals")
	}

	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if runErr != nil {
		outcome = "error"
	}
	for _, sig := range rep.Signals {
		s.metrics.RecordSignal(sig.Symbol, string(sig.HoldingDuration), sig.Confidence)
	}
	s.metrics.RecordRun(outcome, len(rep.Signals), rep.FinishedAt.Sub(rep.StartedAt), rep.FinishedAt)
}

func (s *Scanner) recordTicker(res tickerResult) {
	if s.metrics != nil {
		s.metrics.RecordTicker(res.result)
	}
}
