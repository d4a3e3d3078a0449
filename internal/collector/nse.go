package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/breakoutsentinel/sentinel/internal/model"
)

// nseWindowDays is the widest date range the historical endpoint serves per request.
const nseWindowDays = 365

// NSEFetcher implements Fetcher against the National Stock Exchange website.
// The data endpoints reject requests that do not carry the session cookies
// issued by the home page, so every fetch starts with a warm-up request.
type NSEFetcher struct {
	BaseURL string
	Client  *http.Client // must carry a cookie jar
	Now     func() time.Time
}

// NewNSEFetcher creates a new NSE fetcher. client should be built with a cookie jar.
func NewNSEFetcher(baseURL string, client *http.Client) *NSEFetcher {
	return &NSEFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  client,
		Now:     time.Now,
	}
}

func (f *NSEFetcher) Name() string { return "nse" }

// nseSymbol strips the exchange suffix. Tickers qualified for another
// exchange are not served by NSE.
func nseSymbol(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if strings.HasSuffix(t, ".NS") {
		return strings.TrimSuffix(t, ".NS"), nil
	}
	if strings.ContainsAny(t, ".^") {
		return "", fmt.Errorf("nse %q: %w", ticker, ErrUnsupportedSymbol)
	}
	return t, nil
}

// nseNumber accepts either a JSON number or a quoted, comma-grouped number.
type nseNumber float64

func (n *nseNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "-" {
		*n = 0
		return nil
	}
	v, err := parseNumber(s)
	if err != nil {
		return err
	}
	*n = nseNumber(v)
	return nil
}

type nseRow struct {
	Timestamp  string    `json:"CH_TIMESTAMP"`
	MTimestamp string    `json:"mTIMESTAMP"`
	Open       nseNumber `json:"CH_OPENING_PRICE"`
	High       nseNumber `json:"CH_TRADE_HIGH_PRICE"`
	Low        nseNumber `json:"CH_TRADE_LOW_PRICE"`
	Close      nseNumber `json:"CH_CLOSING_PRICE"`
	Volume     nseNumber `json:"CH_TOT_TRADED_QTY"`
}

type nseHistory struct {
	Data []nseRow `json:"data"`
}

var nseDateLayouts = []string{"2006-01-02", "02-Jan-2006", "2006-01-02T15:04:05", time.RFC3339}

func parseNSEDate(row nseRow) (time.Time, bool) {
	for _, raw := range []string{row.Timestamp, row.MTimestamp} {
		if raw == "" {
			continue
		}
		for _, layout := range nseDateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func (f *NSEFetcher) newRequest(ctx context.Context, u, accept string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", f.BaseURL+"/")
	return req, nil
}

// warmUp loads the home page so the cookie jar holds a valid session.
func (f *NSEFetcher) warmUp(ctx context.Context) error {
	req, err := f.newRequest(ctx, f.BaseURL+"/", "text/html,application/xhtml+xml")
	if err != nil {
		return err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("nse warm-up: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPStatusError{Source: "nse warm-up", Status: resp.StatusCode}
	}
	return nil
}

func (f *NSEFetcher) fetchWindow(ctx context.Context, symbol string, from, to time.Time) ([]model.Bar, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("series", `["EQ"]`)
	q.Set("from", from.Format("02-01-2006"))
	q.Set("to", to.Format("02-01-2006"))
	u := fmt.Sprintf("%s/api/historical/cm/equity?%s", f.BaseURL, q.Encode())

	req, err := f.newRequest(ctx, u, "application/json")
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nse fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := readBody(f.Name(), resp)
	if err != nil {
		return nil, err
	}

	var hist nseHistory
	if err := json.Unmarshal(body, &hist); err != nil {
		return nil, fmt.Errorf("nse decode: %w", err)
	}

	bars := make([]model.Bar, 0, len(hist.Data))
	for _, row := range hist.Data {
		t, ok := parseNSEDate(row)
		if !ok {
			continue
		}
		bars = append(bars, model.Bar{
			Time:   t,
			Open:   float64(row.Open),
			High:   float64(row.High),
			Low:    float64(row.Low),
			Close:  float64(row.Close),
			Volume: float64(row.Volume),
		})
	}
	return bars, nil
}

func (f *NSEFetcher) FetchDailyBars(ctx context.Context, ticker string, days int) (model.BarSeries, error) {
	symbol, err := nseSymbol(ticker)
	if err != nil {
		return nil, err
	}
	if err := f.warmUp(ctx); err != nil {
		return nil, err
	}

	end := f.Now().UTC()
	start := end.AddDate(0, 0, -days)

	var bars []model.Bar
	for to := end; to.After(start); {
		from := to.AddDate(0, 0, -nseWindowDays)
		if from.Before(start) {
			from = start
		}
		chunk, err := f.fetchWindow(ctx, symbol, from, to)
		if err != nil {
			return nil, err
		}
		bars = append(bars, chunk...)
		to = from.AddDate(0, 0, -1)
	}

	series := model.Normalize(bars)
	if len(series) == 0 {
		return nil, fmt.Errorf("nse: %w", ErrNoData)
	}
	return series, nil
}

// FetchWeeklyBars resamples daily history; NSE publishes no weekly endpoint.
func (f *NSEFetcher) FetchWeeklyBars(ctx context.Context, ticker string, days int) (model.BarSeries, error) {
	daily, err := f.FetchDailyBars(ctx, ticker, days)
	if err != nil {
		return nil, err
	}
	return ResampleWeekly(daily), nil
}
