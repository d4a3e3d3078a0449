package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/breakoutsentinel/sentinel/internal/model"
)

// SQLiteRecorder persists runs and signals to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the dashboard read while a run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			origin      TEXT,
			tickers     INTEGER,
			skipped     INTEGER,
			signals     INTEGER,
			err_msg     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS signals (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id           TEXT NOT NULL,
			symbol           TEXT NOT NULL,
			timeframe        TEXT,
			signal_time      INTEGER NOT NULL,
			action           TEXT,
			buy_price        REAL,
			stoploss         REAL,
			target           REAL,
			holding_duration TEXT,
			holding_reason   TEXT,
			confidence       REAL,
			reasons          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_symbol_ts ON signals(symbol, signal_time)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_run ON signals(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs
		(id, started_at, finished_at, origin, tickers, skipped, signals, err_msg)
		VALUES (?,?,?,?,?,?,?,?)`,
		run.ID, run.StartedAt.Unix(), run.FinishedAt.Unix(), run.Trigger,
		run.Tickers, run.Skipped, run.Signals, run.Err,
	)
	return err
}

// RecordSignals inserts every signal of one run in a single transaction.
func (r *SQLiteRecorder) RecordSignals(runID string, signals []model.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO signals
		(run_id, symbol, timeframe, signal_time, action, buy_price, stoploss, target,
		 holding_duration, holding_reason, confidence, reasons)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, s := range signals {
		if _, err := stmt.Exec(runID, s.Symbol, s.Timeframe, s.SignalTime.Unix(), string(s.Action),
			s.BuyPrice, s.StopLoss, s.Target, string(s.HoldingDuration), s.HoldingReason,
			s.Confidence, s.Reasons); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s: %w", s.Symbol, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
