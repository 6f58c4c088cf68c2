package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/internal/metrics"
	"github.com/rustyeddy/tradejournal/internal/service"
	"github.com/rustyeddy/tradejournal/internal/uploads"
	"github.com/rustyeddy/tradejournal/journal"
)

type testEnv struct {
	srv      *httptest.Server
	store    *journal.SQLite
	imageDir string
}

func newTestEnv(t *testing.T, maxUpload int64) *testEnv {
	t.Helper()

	dir := t.TempDir()
	store, err := journal.NewSQLite(filepath.Join(dir, "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	imageDir := filepath.Join(dir, "images")
	up, err := uploads.New(imageDir, maxUpload)
	require.NoError(t, err)

	m := metrics.New(prometheus.NewRegistry())
	s := New(config.Default().Server, Deps{
		Store:   store,
		Service: service.New(store, nil, m),
		Uploads: up,
		Metrics: m,
	})

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, store: store, imageDir: imageDir}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func tradeBody(entry string, net float64) map[string]any {
	return map[string]any{
		"entry_datetime":      entry,
		"exit_datetime":       "2024-03-01T12:00:00",
		"instrument":          "EUR/USD",
		"order_type":          "BUY",
		"entry_price":         1.1,
		"exit_price":          1.102,
		"initial_stop_loss":   1.095,
		"initial_take_profit": 1.11,
		"position_size":       1.0,
		"status":              "WIN",
		"net_profit":          net,
		"r_value":             0.4,
		"rationale":           "breakout retest",
		"review":              "",
		"emotions":            "Neutral",
		"tags":                "Breakout",
	}
}

func createTrade(t *testing.T, e *testEnv, entry string, net float64) journal.TradeRecord {
	t.Helper()

	resp, data := e.do(t, http.MethodPost, "/api/trades", tradeBody(entry, net))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	var rec journal.TradeRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, 1<<20)
	resp, data := e.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(data))
}

func TestTradeCRUD(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, 1<<20)

	rec := createTrade(t, e, "2024-03-01T10:00:00", 200)
	assert.NotEmpty(t, rec.TradeID)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), rec.EntryTime)
	assert.Equal(t, journal.Buy, rec.OrderType)

	resp, data := e.do(t, http.MethodGet, "/api/trades/"+rec.TradeID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got journal.TradeRecord
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "breakout retest", got.Rationale)

	body := tradeBody("2024-03-01T09:30:00Z", -80)
	body["status"] = "LOSS"
	body["review"] = "chased the entry"
	resp, data = e.do(t, http.MethodPut, "/api/trades/"+rec.TradeID, body)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	require.NoError(t, json.Unmarshal(data, &got))
	assert.InDelta(t, -80.0, got.NetProfit, 1e-12)
	assert.Equal(t, journal.StatusLoss, got.Status)
	assert.Equal(t, "chased the entry", got.Review)

	resp, _ = e.do(t, http.MethodDelete, "/api/trades/"+rec.TradeID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = e.do(t, http.MethodGet, "/api/trades/"+rec.TradeID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListTradesOrder(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, 1<<20)
	b := createTrade(t, e, "2024-03-02T10:00:00", 1)
	a := createTrade(t, e, "2024-03-01T10:00:00", 2)

	resp, data := e.do(t, http.MethodGet, "/api/trades?order=desc", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []journal.TradeRecord
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 2)
	assert.Equal(t, b.TradeID, list[0].TradeID)
	assert.Equal(t, a.TradeID, list[1].TradeID)

	resp, _ = e.do(t, http.MethodGet, "/api/trades?order=sideways", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListTradesEmptyIsArray(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, 1<<20)
	resp, data := e.do(t, http.MethodGet, "/api/trades", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", strings.TrimSpace(string(data)))
}

func TestCreateTradeValidation(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, 1<<20)

	body := tradeBody("yesterday", 10)
	delete(body, "net_profit")
	body["order_type"] = "HOLD"

	resp, data := e.do(t, http.MethodPost, "/api/trades", body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var env struct {
		Success bool `json:"success"`
		Error   struct {
			ErrorCode string `json:"error_code"`
			Details   []struct {
				Field string `json:"field"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &env))
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.ErrorCode)

	fields := []string{}
	for _, d := range env.Error.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"entry_datetime", "order_type", "net_profit"}, fields)

	resp, _ = e.do(t, http.MethodPost, "/api/trades", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateMissingTrade(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, 1<<20)
	resp, _ := e.do(t, http.MethodPut, "/api/trades/nope", tradeBody("2024-03-01T10:00:00", 1))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = e.do(t, http.MethodDelete, "/api/trades/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatisticsAndAnalysis(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, 1<<20)

	resp, data := e.do(t, http.MethodGet, "/api/statistics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"total_trades":0,"win_rate":0,"profit_factor":0,"expectancy":0}`, string(data))

	createTrade(t, e, "2024-03-04T10:00:00", 30)
	createTrade(t, e, "2024-03-01T10:00:00", 100)
	createTrade(t, e, "2024-03-03T10:00:00", 0)
	createTrade(t, e, "2024-03-02T10:00:00", -50)

	resp, data = e.do(t, http.MethodGet, "/api/statistics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats map[string]float64
	require.NoError(t, json.Unmarshal(data, &stats))
	assert.Equal(t, 4.0, stats["total_trades"])
	assert.InDelta(t, 0.5, stats["win_rate"], 1e-12)
	assert.InDelta(t, 2.6, stats["profit_factor"], 1e-12)

	resp, data = e.do(t, http.MethodGet, "/api/advanced-analysis", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var a struct {
		Metrics struct {
			TradeCount    int `json:"trade_count"`
			MaxWinStreak  int `json:"max_win_streak"`
			MaxLossStreak int `json:"max_loss_streak"`
		} `json:"metrics"`
		Charts struct {
			EquityCurve struct {
				Labels []string  `json:"labels"`
				Data   []float64 `json:"data"`
			} `json:"equity_curve"`
			RDistribution struct {
				Labels []string `json:"labels"`
				Data   []int    `json:"data"`
			} `json:"r_distribution"`
		} `json:"charts"`
	}
	require.NoError(t, json.Unmarshal(data, &a))
	assert.Equal(t, 4, a.Metrics.TradeCount)
	assert.Equal(t, 1, a.Metrics.MaxWinStreak)
	assert.Equal(t, 1, a.Metrics.MaxLossStreak)
	assert.Equal(t, []float64{100, 50, 50, 80}, a.Charts.EquityCurve.Data)
	assert.Equal(t, []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04"}, a.Charts.EquityCurve.Labels)
	assert.Len(t, a.Charts.RDistribution.Data, 6)

	resp, data = e.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `tradejournal_analytics_requests_total{kind="advanced"} 1`)
}

type failingLister struct{}

func (failingLister) ListTrades(context.Context, journal.Order) ([]journal.TradeRecord, error) {
	return nil, errors.New("disk I/O error")
}

func TestAnalysisFailureIsGeneric500(t *testing.T) {
	t.Parallel()

	s := New(config.Default().Server, Deps{Service: service.New(failingLister{}, nil, nil)})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/advanced-analysis")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(data), "INTERNAL_SERVER_ERROR")
	assert.NotContains(t, string(data), "disk I/O error")
}

func upload(t *testing.T, e *testEnv, tradeID, filename string, content []byte, kind string) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	if kind != "" {
		require.NoError(t, mw.WriteField("image_type", kind))
	}
	require.NoError(t, mw.WriteField("description", "chart at entry"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/api/trades/"+tradeID+"/images", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestImageLifecycle(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, 1<<20)
	rec := createTrade(t, e, "2024-03-01T10:00:00", 10)

	resp, data := upload(t, e, rec.TradeID, "entry shot.png", []byte("fake-png"), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	var img journal.TradeImage
	require.NoError(t, json.Unmarshal(data, &img))
	assert.Equal(t, journal.ImageEntry, img.Kind)
	assert.Equal(t, "chart at entry", img.Description)
	assert.True(t, strings.HasSuffix(img.Path, "_entry_shot.png"))

	resp, data = e.do(t, http.MethodGet, "/api/trades/"+rec.TradeID+"/images", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var imgs []journal.TradeImage
	require.NoError(t, json.Unmarshal(data, &imgs))
	require.Len(t, imgs, 1)

	resp, data = e.do(t, http.MethodGet, "/images/"+img.Path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fake-png", string(data))

	onDisk := filepath.Join(e.imageDir, img.Path)
	_, err := os.Stat(onDisk)
	require.NoError(t, err)

	resp, _ = e.do(t, http.MethodDelete, "/api/trades/"+rec.TradeID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))
}

func TestImageUploadRejects(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, 16)
	rec := createTrade(t, e, "2024-03-01T10:00:00", 10)

	resp, _ := upload(t, e, rec.TradeID, "notes.txt", []byte("x"), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = upload(t, e, rec.TradeID, "big.png", bytes.Repeat([]byte("x"), 64), "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	resp, _ = upload(t, e, rec.TradeID, "ok.png", []byte("x"), "SIDEWAYS")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = upload(t, e, "missing", "ok.png", []byte("x"), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	entries, err := os.ReadDir(e.imageDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	resp, _ = e.do(t, http.MethodGet, "/images/nothing-here.png", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2024-03-01T10:00:00",
		"2024-03-01T10:00",
		"2024-03-01 10:00:00",
		"2024-03-01T10:00:00Z",
		"2024-03-01T12:00:00+02:00",
	} {
		got, err := parseTime(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
		assert.Equal(t, time.UTC, got.Location(), in)
	}

	_, err := parseTime("01/03/2024")
	assert.Error(t, err)
}
