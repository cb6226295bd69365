package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosk-admin-console/internal/auth"
	"kiosk-admin-console/internal/live"
)

func readFrame(t *testing.T, conn *websocket.Conn, want string) live.Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var f live.Frame
		require.NoError(t, conn.ReadJSON(&f))
		if f.Type == want {
			return f
		}
	}
}

func TestLive_StreamsTableUpdates(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	header := http.Header{}
	header.Set("Cookie", auth.AccessCookie+"="+env.token)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ui/organizations/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	first := readFrame(t, conn, live.FrameData)
	assert.Contains(t, first.HTML, "Acme")
	assert.Equal(t, 2, first.Total)

	require.NoError(t, conn.WriteJSON(live.Event{Type: live.EventSort, Column: "name"}))
	sorted := readFrame(t, conn, live.FrameData)
	assert.Contains(t, sorted.URL, "sort=name")
	assert.Greater(t, sorted.Generation, first.Generation)
}

func TestLive_RequiresSession(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ui/organizations/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
