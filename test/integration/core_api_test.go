//go:build integration

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codepulse-lab/codepulse/internal/analytics"
	v1 "github.com/codepulse-lab/codepulse/internal/api/v1"
	"github.com/codepulse-lab/codepulse/internal/core/storage/sqlstore"
	"github.com/codepulse-lab/codepulse/internal/ingestion"
	"github.com/codepulse-lab/codepulse/internal/migrations"
	"github.com/codepulse-lab/codepulse/internal/server"
)

type integrationHarness struct {
	baseURL    string
	client     *http.Client
	db         *sql.DB
	cancel     context.CancelFunc
	serverDone chan error
	adapter    *sqlstore.Adapter
}

func (h *integrationHarness) close(t *testing.T) {
	t.Helper()

	h.cancel()
	select {
	case <-h.serverDone:
	case <-time.After(5 * time.Second):
		t.Log("server shutdown timed out")
	}

	require.NoError(t, h.adapter.Close())
}

// startHarness boots the full HTTP server against a throwaway sqlite
// database, so the test needs no external services.
func startHarness(t *testing.T) *integrationHarness {
	t.Helper()

	dsn := fmt.Sprintf("file:%s", filepath.Join(t.TempDir(), "activity.db"))

	db, err := sqlstore.Open(sqlstore.DriverSQLite, dsn, 1, 1)
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db, sqlstore.DriverSQLite, true))

	adapter, err := sqlstore.NewAdapter(db, sqlstore.DriverSQLite)
	require.NoError(t, err)

	ingestionSvc := ingestion.NewService(adapter, 1)
	analyticsSvc := analytics.NewService(adapter, time.UTC, 7, 10)

	port := freePort(t)
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	httpServer := server.New(addr, "release")
	ingestionSvc.RegisterRoutes(httpServer.Engine)
	analyticsSvc.RegisterRoutes(httpServer.Engine)

	ctx, cancel := context.WithCancel(context.Background())
	serverDone := make(chan error, 1)
	go func() { serverDone <- httpServer.Run(ctx) }()

	baseURL := "http://" + addr
	waitForHealthy(t, baseURL)

	return &integrationHarness{
		baseURL:    baseURL,
		client:     &http.Client{Timeout: 5 * time.Second},
		db:         db,
		cancel:     cancel,
		serverDone: serverDone,
		adapter:    adapter,
	}
}

func TestCoreAPI_IngestAndDailySeries(t *testing.T) {
	h := startHarness(t)
	defer h.close(t)

	now := time.Now().UTC()
	today := now.Format("2006-01-02")

	for i, duration := range []float64{120, 180, 300} {
		record := v1.SessionRecord{
			ID:          fmt.Sprintf("rec-series-%d-%d", now.UnixNano(), i),
			Timestamp:   now.Add(time.Duration(-i) * time.Second).Unix(),
			File:        strptr("src/main.py"),
			Language:    strptr("python"),
			DurationSec: duration,
		}
		status, body := postJSON(t, h.client, h.baseURL+"/api/records", record)
		require.Equal(t, http.StatusAccepted, status, string(body))
	}

	resp, err := h.client.Get(h.baseURL + "/api/stats?days=7")
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(respBody))

	var payload struct {
		Success bool      `json:"success"`
		Labels  []string  `json:"labels"`
		Data    []float64 `json:"data"`
		Summary struct {
			TotalMinutes  float64  `json:"total_minutes"`
			TotalSessions int64    `json:"total_sessions"`
			Languages     []string `json:"languages"`
			TopLanguage   string   `json:"top_language"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(respBody, &payload))
	require.True(t, payload.Success)
	require.Len(t, payload.Labels, 8)
	require.Equal(t, today, payload.Labels[len(payload.Labels)-1])
	require.InDelta(t, 10.0, payload.Summary.TotalMinutes, 0.01)
	require.Equal(t, int64(3), payload.Summary.TotalSessions)
	require.Equal(t, []string{"python"}, payload.Summary.Languages)
	require.Equal(t, "python", payload.Summary.TopLanguage)
}

func TestCoreAPI_DuplicateRecordReturnsConflict(t *testing.T) {
	h := startHarness(t)
	defer h.close(t)

	record := v1.SessionRecord{
		ID:          "rec-duplicate-integration",
		Timestamp:   time.Now().UTC().Unix(),
		Language:    strptr("go"),
		DurationSec: 60,
	}

	status, body := postJSON(t, h.client, h.baseURL+"/api/records", record)
	require.Equal(t, http.StatusAccepted, status, string(body))

	status, body = postJSON(t, h.client, h.baseURL+"/api/records", record)
	require.Equal(t, http.StatusConflict, status, string(body))
}

func waitForHealthy(t *testing.T, baseURL string) {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/api/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("server did not become healthy at %s", baseURL)
}

func postJSON(t *testing.T, client *http.Client, endpoint string, payload interface{}) (int, []byte) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBody
}

func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func strptr(s string) *string { return &s }
