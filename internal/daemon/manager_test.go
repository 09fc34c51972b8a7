// SPDX-License-Identifier: MIT

package daemon

import (
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kubedemo/hostpage/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		IdleTimeout:     10 * time.Second,
		MaxHeaderBytes:  1 << 20,
		ShutdownTimeout: 3 * time.Second,
	}
}

func testDeps() Deps {
	return Deps{
		Logger: zerolog.New(io.Discard),
		APIHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}),
	}
}

func TestNewManager_MissingAPIHandler(t *testing.T) {
	deps := testDeps()
	deps.APIHandler = nil

	_, err := NewManager(":0", testServerConfig(), deps)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAPIHandler)
}

func TestNewManager_MissingLogger(t *testing.T) {
	deps := testDeps()
	deps.Logger = zerolog.Nop()

	_, err := NewManager(":0", testServerConfig(), deps)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingLogger)
}

func TestManager_ShutdownBeforeStart(t *testing.T) {
	m, err := NewManager("127.0.0.1:0", testServerConfig(), testDeps())
	require.NoError(t, err)

	err = m.Shutdown(context.Background())
	assert.ErrorIs(t, err, ErrManagerNotStarted)
}

func TestManager_StartAndGracefulShutdown(t *testing.T) {
	m, err := NewManager("127.0.0.1:0", testServerConfig(), testDeps())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()

	// Give the listener a moment to come up, then request shutdown.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("manager did not shut down in time")
	}
}

func TestManager_ShutdownHooksRunLIFO(t *testing.T) {
	m, err := NewManager("127.0.0.1:0", testServerConfig(), testDeps())
	require.NoError(t, err)

	var mu sync.Mutex
	var order []string
	hook := func(name string) ShutdownHook {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}
	m.RegisterShutdownHook("first", hook("first"))
	m.RegisterShutdownHook("second", hook("second"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("manager did not shut down in time")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestManager_StartFailsOnBadListenAddr(t *testing.T) {
	m, err := NewManager("255.255.255.255:1", testServerConfig(), testDeps())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = m.Start(ctx)
	assert.Error(t, err)
}

func TestApp_RequiresManager(t *testing.T) {
	app := NewApp(zerolog.New(io.Discard), nil, nil)
	assert.ErrorIs(t, app.Run(context.Background()), ErrMissingManager)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	m, err := NewManager("127.0.0.1:0", testServerConfig(), testDeps())
	require.NoError(t, err)

	app := NewApp(zerolog.New(io.Discard), m, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("app did not stop in time")
	}
}
