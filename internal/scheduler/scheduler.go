package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/breakoutsentinel/sentinel/internal/model"
	"github.com/breakoutsentinel/sentinel/internal/notifier"
	"github.com/breakoutsentinel/sentinel/internal/scanner"
)

// Runner executes one scan and serves the latest snapshot.
type Runner interface {
	Execute(ctx context.Context, trigger string) (*scanner.Report, error)
	Latest() ([]model.Signal, error)
}

// Alerter delivers messages to the operator.
type Alerter interface {
	Configured() bool
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler re-invokes the scanner on a cron schedule and alerts on signals.
type Scheduler struct {
	Cron     *cron.Cron
	Scanner  Runner
	Notifier Alerter
	Ctx      context.Context
	log      zerolog.Logger
	now      func() time.Time
}

// NewScheduler creates a new Scheduler. Overlapping ticks are skipped while a
// scan is still running.
func NewScheduler(ctx context.Context, sc Runner, alerter Alerter, log zerolog.Logger) *Scheduler {
	log = log.With().Str("component", "scheduler").Logger()
	cl := cronLogger{log: log}
	return &Scheduler{
		Cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		Scanner:  sc,
		Notifier: alerter,
		Ctx:      ctx,
		log:      log,
		now:      time.Now,
	}
}

// Register adds the scan task under spec (standard 5-field or @every form).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.scanTask); err != nil {
		return fmt.Errorf("register scan task %q: %w", spec, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes the scan task immediately (for run_on_start).
func (s *Scheduler) RunNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	s.log.Info().Msg("running scheduled scan")
	rep, err := s.Scanner.Execute(s.Ctx, scanner.TriggerSchedule)
	if err != nil {
		if s.Ctx.Err() != nil {
			s.log.Info().Err(err).Msg("scheduled scan interrupted by shutdown")
			return
		}
		s.log.Error().Err(err).Msg("scheduled scan")
		s.trySend(fmt.Sprintf("❌ Scan failed: %v", err))
		return
	}
	for _, sig := range rep.Signals {
		s.trySend(notifier.FormatSignalAlert(sig))
	}
}

// HandleCommand processes a bot command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	var cmd string
	if fields := strings.Fields(command); len(fields) > 0 {
		cmd = strings.ToLower(fields[0])
	}
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i] // "/run@my_bot"
	}
	switch cmd {
	case "/signals":
		latest, err := s.Scanner.Latest()
		if err != nil {
			s.log.Error().Err(err).Msg("load snapshot")
			return fmt.Sprintf("❌ Could not load snapshot: %v", err)
		}
		return notifier.FormatRunSummary(latest, s.now())
	case "/run":
		rep, err := s.Scanner.Execute(context.WithoutCancel(ctx), scanner.TriggerTelegram)
		if err != nil {
			return fmt.Sprintf("❌ Scan failed: %v", err)
		}
		return notifier.FormatRunSummary(rep.Signals, rep.FinishedAt)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil || !s.Notifier.Configured() {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
