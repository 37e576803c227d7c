package server

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/demolab/internal/config"
)

func TestServerAddr(t *testing.T) {
	srv := New(discardLogger(), config.HTTPConfig{Host: "::1", Port: 8080}, http.NotFoundHandler())
	assert.Equal(t, "[::1]:8080", srv.Addr())
}

func TestShutdownEndsOpenStreams(t *testing.T) {
	streamEnded := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(": ping\n\n"))
		_ = http.NewResponseController(w).Flush()
		<-r.Context().Done()
		close(streamEnded)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := New(discardLogger(), config.HTTPConfig{Host: "127.0.0.1"}, handler)

	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": ping\n", line)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case <-streamEnded:
	case <-time.After(time.Second):
		t.Fatal("stream handler still running after shutdown")
	}
	require.NoError(t, <-served)
}
