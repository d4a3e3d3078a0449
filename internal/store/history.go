package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/breakoutsentinel/sentinel/internal/model"
)

// HistoryHeader is the column layout of the history log.
var HistoryHeader = []string{
	"symbol", "timeframe", "signal_time", "action", "buy_price", "stoploss",
	"target", "holding_duration", "holding_reason", "confidence", "reasons",
}

// HistoryCSV is an append-only CSV log of every emitted signal. Rows are
// never rewritten or de-duplicated.
type HistoryCSV struct {
	Path string
	mu   sync.Mutex
}

// NewHistoryCSV creates a history log at path.
func NewHistoryCSV(path string) *HistoryCSV {
	return &HistoryCSV{Path: path}
}

// Append adds one row per signal. The header is written only when the file
// is new or empty.
func (h *HistoryCSV) Append(signals []model.Signal) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(h.Path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	f, err := os.OpenFile(h.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat history: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(HistoryHeader); err != nil {
			return fmt.Errorf("write history header: %w", err)
		}
	}
	for _, s := range signals {
		if err := w.Write(encodeRow(s)); err != nil {
			return fmt.Errorf("write history row for %s: %w", s.Symbol, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush history: %w", err)
	}
	return f.Close()
}

// ReadAll parses every row of the log, oldest first. A missing file yields
// no rows.
func (h *HistoryCSV) ReadAll() ([]model.Signal, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.Open(h.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(HistoryHeader)

	var out []model.Signal
	for line := 1; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read history: %w", err)
		}
		if line == 1 && rec[0] == HistoryHeader[0] {
			continue
		}
		s, err := decodeRow(rec)
		if err != nil {
			return nil, fmt.Errorf("history line %d: %w", line, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func encodeRow(s model.Signal) []string {
	return []string{
		s.Symbol,
		s.Timeframe,
		s.SignalTime.UTC().Format(time.RFC3339),
		string(s.Action),
		fixed2(s.BuyPrice),
		fixed2(s.StopLoss),
		fixed2(s.Target),
		string(s.HoldingDuration),
		s.HoldingReason,
		fixed2(s.Confidence),
		s.Reasons,
	}
}

func decodeRow(rec []string) (model.Signal, error) {
	t, err := time.Parse(time.RFC3339, rec[2])
	if err != nil {
		return model.Signal{}, fmt.Errorf("parse signal_time: %w", err)
	}
	var nums [4]float64
	for i, idx := range []int{4, 5, 6, 9} {
		v, err := strconv.ParseFloat(rec[idx], 64)
		if err != nil {
			return model.Signal{}, fmt.Errorf("parse %s: %w", HistoryHeader[idx], err)
		}
		nums[i] = v
	}
	return model.Signal{
		Symbol:          rec[0],
		Timeframe:       rec[1],
		SignalTime:      t.UTC(),
		Action:          model.Action(rec[3]),
		BuyPrice:        nums[0],
		StopLoss:        nums[1],
		Target:          nums[2],
		HoldingDuration: model.HoldingDuration(rec[7]),
		HoldingReason:   rec[8],
		Confidence:      nums[3],
		Reasons:         rec[10],
	}, nil
}
