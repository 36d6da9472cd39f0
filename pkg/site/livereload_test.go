package site

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/reactatoms/pkg/util"
)

func TestHub_BroadcastOnReload(t *testing.T) {
	srv, holder, _ := newTestServer(t, Config{Dev: true})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/livereload"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool { return srv.Hub().Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	_, err = holder.Reload(ctx)
	require.NoError(t, err)

	typ, msg, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, typ)
	assert.Equal(t, "reload", string(msg))
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	h := NewHub(util.NopLogger(), nil)
	h.Broadcast("reload")
	assert.Equal(t, 0, h.Clients())
}
