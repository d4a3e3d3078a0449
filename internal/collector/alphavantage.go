package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/breakoutsentinel/sentinel/internal/model"
)

// AlphaVantageFetcher implements Fetcher using the Alpha Vantage REST API.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Now     func() time.Time
}

// NewAlphaVantageFetcher creates a new fetcher authenticated with apiKey.
func NewAlphaVantageFetcher(baseURL, apiKey string, client *http.Client) *AlphaVantageFetcher {
	return &AlphaVantageFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  client,
		Now:     time.Now,
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// avSymbol maps NSE-qualified tickers onto the BSE listing Alpha Vantage carries.
func avSymbol(ticker string) string {
	if strings.HasSuffix(ticker, ".NS") {
		return strings.TrimSuffix(ticker, ".NS") + ".BSE"
	}
	return ticker
}

type avBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

func (f *AlphaVantageFetcher) FetchDailyBars(ctx context.Context, ticker string, days int) (model.BarSeries, error) {
	return f.fetchSeries(ctx, ticker, "TIME_SERIES_DAILY", "Time Series (Daily)", days)
}

func (f *AlphaVantageFetcher) FetchWeeklyBars(ctx context.Context, ticker string, days int) (model.BarSeries, error) {
	return f.fetchSeries(ctx, ticker, "TIME_SERIES_WEEKLY", "Weekly Time Series", days)
}

func (f *AlphaVantageFetcher) fetchSeries(ctx context.Context, ticker, function, seriesKey string, days int) (model.BarSeries, error) {
	q := url.Values{}
	q.Set("function", function)
	q.Set("symbol", avSymbol(ticker))
	q.Set("outputsize", "full")
	q.Set("apikey", f.APIKey)
	endpoint := fmt.Sprintf("%s/query?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := readBody(f.Name(), resp)
	if err != nil {
		return nil, err
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}
	for _, key := range []string{"Error Message", "Note", "Information"} {
		if raw, ok := payload[key]; ok {
			var msg string
			_ = json.Unmarshal(raw, &msg)
			return nil, fmt.Errorf("alphavantage api error: %s", msg)
		}
	}
	raw, ok := payload[seriesKey]
	if !ok {
		return nil, fmt.Errorf("alphavantage: %w", ErrNoData)
	}
	var series map[string]avBar
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, fmt.Errorf("alphavantage decode series: %w", err)
	}

	cutoff := f.Now().UTC().AddDate(0, 0, -days)
	bars := make([]model.Bar, 0, len(series))
	for date, v := range series {
		t, err := time.Parse("2006-01-02", date)
		if err != nil || t.Before(cutoff) {
			continue
		}
		bar, err := v.toBar(t)
		if err != nil {
			continue
		}
		bars = append(bars, bar)
	}

	out := model.Normalize(bars)
	if len(out) == 0 {
		return nil, fmt.Errorf("alphavantage: %w", ErrNoData)
	}
	return out, nil
}

func (v avBar) toBar(t time.Time) (model.Bar, error) {
	o, err := parseNumber(v.Open)
	if err != nil {
		return model.Bar{}, fmt.Errorf("parse open %q: %w", v.Open, err)
	}
	h, err := parseNumber(v.High)
	if err != nil {
		return model.Bar{}, fmt.Errorf("parse high %q: %w", v.High, err)
	}
	l, err := parseNumber(v.Low)
	if err != nil {
		return model.Bar{}, fmt.Errorf("parse low %q: %w", v.Low, err)
	}
	c, err := parseNumber(v.Close)
	if err != nil {
		return model.Bar{}, fmt.Errorf("parse close %q: %w", v.Close, err)
	}
	vol, err := parseNumber(v.Volume)
	if err != nil {
		return model.Bar{}, fmt.Errorf("parse volume %q: %w", v.Volume, err)
	}
	return model.Bar{Time: t, Open: o, High: h, Low: l, Close: c, Volume: vol}, nil
}
