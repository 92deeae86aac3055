package api_test

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timada-org/todo/internal/api"
	"github.com/timada-org/todo/internal/core"
	"github.com/timada-org/todo/internal/todo"
)

func messages(hook *test.Hook) []string {
	var out []string
	for _, entry := range hook.AllEntries() {
		out = append(out, entry.Message)
	}

	return out
}

func TestServeShutdownWithOpenStream(t *testing.T) {
	hook := test.NewGlobal()
	level := log.GetLevel()
	log.SetLevel(log.DebugLevel)
	t.Cleanup(func() {
		log.SetLevel(level)
		hook.Reset()
	})

	bus := core.NewEventBus(nil)
	t.Cleanup(bus.Close)

	store := todo.NewWithOptions(todo.StoreOptions{Emitter: bus})
	app := api.New(api.Options{Store: store, Bus: bus})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- app.Serve(ctx, ln)
	}()

	res, err := http.Get("http://" + ln.Addr().String() + "/events")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	reader := bufio.NewReader(res.Body)
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") {
			break
		}
	}

	assert.Equal(t, 1, bus.Len())
	assert.Contains(t, messages(hook), "sse session opened")

	start := time.Now()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, 0, bus.Len())
	assert.Contains(t, messages(hook), "sse session closed")
}
