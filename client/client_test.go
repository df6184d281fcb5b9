package client_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/foomo/checkpointstore/client"
	"github.com/foomo/checkpointstore/pkg/checkpoint"
	"github.com/foomo/checkpointstore/pkg/codec"
	"github.com/foomo/checkpointstore/pkg/handler"
	"github.com/foomo/checkpointstore/responses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/nettest"
)

const pathCheckpoints = "/checkpoints"

func testInstance(taskID int32) checkpoint.Instance {
	return checkpoint.Instance{
		InstanceID: fmt.Sprintf("container_1_word_%d", taskID),
		StmgrID:    "stmgr-1",
		Info:       checkpoint.InstanceInfo{TaskID: taskID, ComponentName: "word"},
	}
}

func newTestClient(t *testing.T, maxCheckpoints int) *client.Client {
	t.Helper()
	l := zaptest.NewLogger(t)

	s, err := checkpoint.NewLocalFS(l, checkpoint.Config{RootPath: t.TempDir(), MaxCheckpoints: maxCheckpoints})
	require.NoError(t, err)

	ln, err := nettest.NewLocalListener("tcp")
	require.NoError(t, err)

	svr := &http.Server{Handler: handler.NewHTTP(l, s)} //nolint:gosec
	go func() {
		if err := svr.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Error(err)
		}
	}()

	c, err := client.NewHTTPClient("http://" + ln.Addr().String() + pathCheckpoints)
	require.NoError(t, err)

	t.Cleanup(func() {
		c.Close()
		_ = svr.Close()
		_ = s.Close()
	})
	return c
}

func TestInvalidHTTPClientInit(t *testing.T) {
	for _, server := range []string{"", "bogus", "htt:/notaurl", "htts://notaurl", "/path/segment/only"} {
		c, err := client.NewHTTPClient(server)
		assert.Nil(t, c)
		assert.Error(t, err, server)
	}
}

func TestStoreRestore(t *testing.T) {
	c := newTestClient(t, 10)
	ctx := context.Background()

	state := &codec.InstanceState{
		CheckpointID: "0001",
		Namespace:    map[string][]byte{"words": []byte("hello"), "count": {0x00, 0x01}},
	}
	require.NoError(t, c.Store(ctx, "wordcount", testInstance(2), state))

	restored, err := c.Restore(ctx, "wordcount", "0001", testInstance(2))
	require.NoError(t, err)
	assert.Equal(t, "wordcount", restored.TopologyName)
	assert.Equal(t, "0001", restored.CheckpointID)
	assert.Equal(t, "word", restored.Component)
	assert.Equal(t, int32(2), restored.TaskID)
	assert.Equal(t, state, restored.State)
}

func TestRestoreNotFound(t *testing.T) {
	c := newTestClient(t, 10)

	_, err := c.Restore(context.Background(), "wordcount", "0001", testInstance(1))
	require.Error(t, err)
	var replyErr *responses.Error
	require.ErrorAs(t, err, &replyErr)
	assert.Equal(t, http.StatusNotFound, replyErr.Status)
	assert.Equal(t, handler.CodeRestore, replyErr.Code)
}

func TestStorePrunesAndDispose(t *testing.T) {
	c := newTestClient(t, 2)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("%03d", i)
		require.NoError(t, c.Store(ctx, "topo", testInstance(1), &codec.InstanceState{CheckpointID: id}))
	}
	ids, err := c.List(ctx, "topo")
	require.NoError(t, err)
	assert.Equal(t, []string{"003", "004", "005"}, ids)

	require.NoError(t, c.Dispose(ctx, "topo", "005", false))
	ids, err = c.List(ctx, "topo")
	require.NoError(t, err)
	assert.Equal(t, []string{"005"}, ids)

	require.NoError(t, c.Dispose(ctx, "topo", "", true))
	ids, err = c.List(ctx, "topo")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestConcurrentStore(t *testing.T) {
	c := newTestClient(t, 10)
	ctx := context.Background()

	var wg sync.WaitGroup
	for task := int32(0); task < 8; task++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state := &codec.InstanceState{CheckpointID: "001", Namespace: map[string][]byte{"task": {byte(task)}}}
			assert.NoError(t, c.Store(ctx, "topo", testInstance(task), state))
		}()
	}
	wg.Wait()

	for task := int32(0); task < 8; task++ {
		restored, err := c.Restore(ctx, "topo", "001", testInstance(task))
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(task)}, restored.State.Namespace["task"])
	}
}
