package respwire

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/riftcache/riftcache/cache"
	"github.com/riftcache/riftcache/executor"
	"github.com/stretchr/testify/require"
)

func TestServer_RoundTrip(t *testing.T) {
	c := cache.New(cache.DefaultConfig())
	srv := New(executor.New(c))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = srv.Serve(ctx, ln) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))
	reader := bufio.NewReader(conn)

	_, err = conn.Write([]byte("SET a hello\n"))
	require.NoError(t, err)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "+OK\r\n", line)

	_, err = conn.Write([]byte("GET a\n"))
	require.NoError(t, err)
	header, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "$5\r\n", header)
	body, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "hello\r\n", body)
}
