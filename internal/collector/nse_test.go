package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNSESymbol(t *testing.T) {
	s, err := nseSymbol("reliance.ns")
	require.NoError(t, err)
	assert.Equal(t, "RELIANCE", s)

	s, err = nseSymbol("INFY")
	require.NoError(t, err)
	assert.Equal(t, "INFY", s)

	_, err = nseSymbol("AAPL.L")
	assert.ErrorIs(t, err, ErrUnsupportedSymbol)
	_, err = nseSymbol("^NSEI")
	assert.ErrorIs(t, err, ErrUnsupportedSymbol)
}

func TestNSEFetcher_WarmUpCookieReachesDataRequest(t *testing.T) {
	var warmUps, dataCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			atomic.AddInt32(&warmUps, 1)
			http.SetCookie(w, &http.Cookie{Name: "nsit", Value: "session-1", Path: "/"})
			_, _ = w.Write([]byte("<html></html>"))
		case "/api/historical/cm/equity":
			atomic.AddInt32(&dataCalls, 1)
			c, err := r.Cookie("nsit")
			if err != nil || c.Value != "session-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			assert.Equal(t, "TCS", r.URL.Query().Get("symbol"))
			assert.Equal(t, `["EQ"]`, r.URL.Query().Get("series"))
			_, _ = w.Write([]byte(`{"data":[
				{"CH_TIMESTAMP":"2024-06-13","CH_OPENING_PRICE":"3,800.00","CH_TRADE_HIGH_PRICE":3850,"CH_TRADE_LOW_PRICE":3790,"CH_CLOSING_PRICE":"3,840.5","CH_TOT_TRADED_QTY":"1,200,000"},
				{"mTIMESTAMP":"12-Jun-2024","CH_OPENING_PRICE":3780,"CH_TRADE_HIGH_PRICE":3810,"CH_TRADE_LOW_PRICE":3770,"CH_CLOSING_PRICE":3800,"CH_TOT_TRADED_QTY":900000},
				{"CH_TIMESTAMP":"not-a-date","CH_CLOSING_PRICE":1}
			]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewNSEFetcher(srv.URL, NewHTTPClient(5*time.Second, "", true))
	f.Now = fixedNow
	bars, err := f.FetchDailyBars(context.Background(), "TCS.NS", 30)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 3800.0, bars[0].Close)
	assert.Equal(t, 3840.5, bars[1].Close)
	assert.Equal(t, 3800.0, bars[1].Open)
	assert.Equal(t, 1_200_000.0, bars[1].Volume)
	assert.EqualValues(t, 1, atomic.LoadInt32(&warmUps))
	assert.EqualValues(t, 1, atomic.LoadInt32(&dataCalls))
}

func TestNSEFetcher_WithoutCookieJarIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.SetCookie(w, &http.Cookie{Name: "nsit", Value: "x", Path: "/"})
			return
		}
		if _, err := r.Cookie("nsit"); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	f := NewNSEFetcher(srv.URL, NewHTTPClient(5*time.Second, "", false))
	_, err := f.FetchDailyBars(context.Background(), "TCS.NS", 30)
	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.Status)
}

func TestNSEFetcher_ChunksLongRanges(t *testing.T) {
	var windows int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			return
		}
		atomic.AddInt32(&windows, 1)
		_, _ = w.Write([]byte(`{"data":[{"CH_TIMESTAMP":"2024-06-13","CH_OPENING_PRICE":1,"CH_TRADE_HIGH_PRICE":1,"CH_TRADE_LOW_PRICE":1,"CH_CLOSING_PRICE":1,"CH_TOT_TRADED_QTY":1}]}`))
	}))
	defer srv.Close()

	f := NewNSEFetcher(srv.URL, NewHTTPClient(5*time.Second, "", true))
	f.Now = fixedNow
	bars, err := f.FetchDailyBars(context.Background(), "SBIN", 1095)
	require.NoError(t, err)
	assert.Len(t, bars, 1, "duplicate dates across windows collapse")
	assert.EqualValues(t, 3, atomic.LoadInt32(&windows))
}

func TestNSEFetcher_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	f := NewNSEFetcher(srv.URL, NewHTTPClient(5*time.Second, "", true))
	_, err := f.FetchDailyBars(context.Background(), "TCS.NS", 30)
	assert.ErrorIs(t, err, ErrNoData)
}
