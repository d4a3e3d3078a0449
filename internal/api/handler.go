package api

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/breakoutsentinel/sentinel/internal/collector"
	"github.com/breakoutsentinel/sentinel/internal/model"
	"github.com/breakoutsentinel/sentinel/internal/scanner"
)

// Runner executes scans and serves the latest snapshot.
type Runner interface {
	Execute(ctx context.Context, trigger string) (*scanner.Report, error)
	Latest() ([]model.Signal, error)
}

// Diagnoser probes every data source for one ticker.
type Diagnoser interface {
	Diagnose(ctx context.Context, ticker string, days int) []collector.SourceReport
}

// Handler serves the signal endpoints.
type Handler struct {
	runner    Runner
	diagnoser Diagnoser
	log       zerolog.Logger
}

// NewHandler creates a Handler. diagnoser may be nil.
func NewHandler(runner Runner, diagnoser Diagnoser, log zerolog.Logger) *Handler {
	return &Handler{runner: runner, diagnoser: diagnoser, log: log.With().Str("component", "api").Logger()}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals", h.Signals)
	g.POST("/run", h.Run)
	g.GET("/diagnostics", h.Diagnostics)
}

// runResult is the body returned by a forced recompute.
type runResult struct {
	RunID   string         `json:"run_id"`
	Skipped int            `json:"skipped"`
	Signals []model.Signal `json:"signals"`
}

// Signals returns the latest snapshot, optionally filtered by ?symbol=.
func (h *Handler) Signals(c echo.Context) error {
	signals, err := h.runner.Latest()
	if err != nil {
		h.log.Error().Err(err).Msg("load snapshot")
		return errorResponse(c, err)
	}
	if sym := strings.TrimSpace(c.QueryParam("symbol")); sym != "" {
		filtered := make([]model.Signal, 0, 1)
		for _, s := range signals {
			if strings.EqualFold(s.Symbol, sym) {
				filtered = append(filtered, s)
			}
		}
		signals = filtered
	}
	return successResponse(c, signals)
}

// Run forces a recompute and returns its signals. The run outlives a
// disconnecting client.
func (h *Handler) Run(c echo.Context) error {
	rep, err := h.runner.Execute(context.WithoutCancel(c.Request().Context()), scanner.TriggerAPI)
	if err != nil {
		h.log.Error().Err(err).Msg("forced run")
		return errorResponse(c, err)
	}
	return successResponse(c, runResult{RunID: rep.RunID, Skipped: rep.Skipped, Signals: rep.Signals})
}

// Diagnostics reports per-source availability for ?ticker=.
func (h *Handler) Diagnostics(c echo.Context) error {
	if h.diagnoser == nil {
		return badRequestResponse(c, "diagnostics unavailable")
	}
	ticker := strings.TrimSpace(c.QueryParam("ticker"))
	if ticker == "" {
		return badRequestResponse(c, "ticker is required")
	}
	return successResponse(c, h.diagnoser.Diagnose(c.Request().Context(), ticker, 30))
}
