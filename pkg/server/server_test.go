package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/tunebar/pkg/metric"
)

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServeAndShutdown(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := metric.NewCounterWithRegistry(reg, "test_total", "Test counter.", "kind")
	counter.Increment("checkbox")

	srv := New(
		WithHost("127.0.0.1"),
		WithPort(0),
		WithReadTimeout(time.Second),
		WithWriteTimeout(time.Second),
		WithShutdownTimeout(time.Second),
		WithSimpleHealth(),
		WithMetrics(reg),
		WithHandler("/menu", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"title":"tunebar"}`))
		})),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	require.Eventually(t, srv.IsRunning, 2*time.Second, 10*time.Millisecond)
	base := "http://" + srv.Addr()

	code, body := get(t, base+"/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)

	code, body = get(t, base+"/menu")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"title":"tunebar"}`, body)

	code, body = get(t, base+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `tunebar_test_total{kind="checkbox"} 1`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, srv.IsRunning())
}

func TestServeFailsOnBusyPort(t *testing.T) {
	first := New(WithPort(0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = first.Serve(ctx) }()
	require.Eventually(t, first.IsRunning, 2*time.Second, 10*time.Millisecond)

	_, portStr, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	second := New(WithPort(port))
	assert.Error(t, second.Serve(context.Background()))
}
