package service

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerGracefulShutdown(t *testing.T) {
	// Find an available port.
	listener, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	cfg := testConfig(t)
	cfg.Port = port
	cfg.ShutdownGracePeriod = time.Second
	app, err := newApplication(cfg, io.Discard)
	require.NoError(t, err)

	runErr := make(chan error, 1)
	go func() {
		runErr <- app.Run()
	}()

	url := fmt.Sprintf("http://localhost:%d/livez", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, app.Shutdown())

	select {
	case err := <-runErr:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}

	_, err = http.Get(url)
	assert.Error(t, err)
}
