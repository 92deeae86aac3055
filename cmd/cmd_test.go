package cmd

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timada-org/todo/internal/core"
	"github.com/timada-org/todo/internal/relay"
	"github.com/timada-org/todo/internal/todo"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestCommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "watch")
}

func TestWatch(t *testing.T) {
	m, err := miniredis.Run()
	require.NoError(t, err)
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"watch", "--redis", m.Addr(), "--filter", "todos/+/done/#"})

	done := make(chan error, 1)
	go func() {
		done <- Execute(ctx)
	}()

	require.Eventually(t, func() bool {
		return m.PubSubNumSub(core.DefaultRedisChannel)[core.DefaultRedisChannel] == 1
	}, time.Second, 10*time.Millisecond)

	m.Publish(core.DefaultRedisChannel, `{"seq":1,"topic":"todos/0","name":"Created","data":{"id":0,"description":"buy milk"}}`)
	m.Publish(core.DefaultRedisChannel, `not json`)
	m.Publish(core.DefaultRedisChannel, `{"seq":2,"topic":"todos/0/done/true","name":"StatusUpdated","data":{"id":0,"done":true}}`)

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "StatusUpdated")
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, "2 todos/0/done/true StatusUpdated {\"id\":0,\"done\":true}\n", out.String())

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not exit")
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	return ln.Addr().String()
}

func TestServe(t *testing.T) {
	m, err := miniredis.Run()
	require.NoError(t, err)
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rc := redis.NewClient(&redis.Options{Addr: m.Addr()})
	defer rc.Close()

	envelopes := make(chan *relay.Envelope, 1)
	go relay.Watch(ctx, rc, "todos", func(e *relay.Envelope) {
		envelopes <- e
	})

	require.Eventually(t, func() bool {
		return m.PubSubNumSub("todos")["todos"] == 1
	}, time.Second, 10*time.Millisecond)

	addr := freeAddr(t)

	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, &core.Config{
			Addr:  addr,
			Redis: core.Redis{Addr: m.Addr(), Channel: "todos"},
		})
	}()

	require.Eventually(t, func() bool {
		res, err := http.Post("http://"+addr+"/todos", "application/json", strings.NewReader(`{"description": "buy milk"}`))
		if err != nil {
			return false
		}
		defer res.Body.Close()

		return res.StatusCode == http.StatusCreated
	}, 2*time.Second, 20*time.Millisecond)

	select {
	case envelope := <-envelopes:
		assert.Equal(t, uint64(1), envelope.Seq)
		assert.Equal(t, "todos/0", envelope.Topic)

		event, err := envelope.Decode()
		require.NoError(t, err)
		assert.Equal(t, todo.Created{ID: 0, Description: "buy milk"}, event)
	case <-time.After(2 * time.Second):
		t.Fatal("created notification was not relayed")
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not exit")
	}
}
