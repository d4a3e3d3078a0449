package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphaVantageFetcher_Daily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "TIME_SERIES_DAILY", q.Get("function"))
		assert.Equal(t, "RELIANCE.BSE", q.Get("symbol"))
		assert.Equal(t, "k", q.Get("apikey"))
		_, _ = w.Write([]byte(`{
			"Meta Data": {"2. Symbol": "RELIANCE.BSE"},
			"Time Series (Daily)": {
				"2024-06-13": {"1. open":"2900","2. high":"2950","3. low":"2890","4. close":"2940","5. volume":"5000"},
				"2024-06-12": {"1. open":"2880","2. high":"2910","3. low":"2870","4. close":"2900","5. volume":"4000"},
				"2024-06-11": {"1. open":"bad","2. high":"2910","3. low":"2870","4. close":"2900","5. volume":"4000"},
				"2020-01-01": {"1. open":"1","2. high":"1","3. low":"1","4. close":"1","5. volume":"1"}
			}}`))
	}))
	defer srv.Close()

	f := NewAlphaVantageFetcher(srv.URL, "k", srv.Client())
	f.Now = fixedNow
	bars, err := f.FetchDailyBars(context.Background(), "RELIANCE.NS", 30)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 2900.0, bars[0].Close)
	assert.Equal(t, 2940.0, bars[1].Close)
	assert.Equal(t, 5000.0, bars[1].Volume)
}

func TestAlphaVantageFetcher_RateLimitNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_WEEKLY", r.URL.Query().Get("function"))
		_, _ = w.Write([]byte(`{"Note":"Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`))
	}))
	defer srv.Close()

	f := NewAlphaVantageFetcher(srv.URL, "k", srv.Client())
	_, err := f.FetchWeeklyBars(context.Background(), "TCS.NS", 1095)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call frequency")
}

func TestAlphaVantageFetcher_MissingSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Meta Data":{}}`))
	}))
	defer srv.Close()

	f := NewAlphaVantageFetcher(srv.URL, "k", srv.Client())
	_, err := f.FetchDailyBars(context.Background(), "TCS.NS", 30)
	assert.ErrorIs(t, err, ErrNoData)
}
