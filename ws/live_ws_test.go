package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/utils"
)

func startHub(t *testing.T) (*LiveHub, *httptest.Server, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewLiveHub([]string{"http://localhost:5173"})
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	r := gin.New()
	identify := func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.Query("uid"), 10, 64)
		utils.SetCurrentUser(c, uint(id), c.Query("role"))
	}
	r.GET("/ws/live", identify, hub.HandleWebSocket)
	srv := httptest.NewServer(r)

	stop := func() {
		cancel()
		<-stopped
		srv.Close()
	}
	return hub, srv, stop
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	return dialAs(t, srv, 0, "")
}

func dialAs(t *testing.T, srv *httptest.Server, userID uint, role string) *websocket.Conn {
	t.Helper()
	url := fmt.Sprintf("ws%s/ws/live?uid=%d&role=%s", strings.TrimPrefix(srv.URL, "http"), userID, role)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestLiveHubBroadcastsEvents(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub, srv, stop := startHub(t)
	defer stop()

	a := dial(t, srv)
	defer a.Close()
	b := dial(t, srv)
	defer b.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish("reservation.created", map[string]any{"id": 7})

	for _, conn := range []*websocket.Conn{a, b} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)

		var ev struct {
			Type string         `json:"type"`
			Data map[string]any `json:"data"`
			At   time.Time      `json:"at"`
		}
		require.NoError(t, json.Unmarshal(raw, &ev))
		assert.Equal(t, "reservation.created", ev.Type)
		assert.EqualValues(t, 7, ev.Data["id"])
		assert.False(t, ev.At.IsZero())
	}
}

func TestLiveHubIgnoresInboundMessages(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub, srv, stop := startHub(t)
	defer stop()

	conn := dial(t, srv)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"hello"}`)))
	hub.Publish("warning.issued", map[string]any{"id": 1})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"warning.issued"`)
	assert.Equal(t, 1, hub.Clients())
}

func TestLiveHubUnregistersClosedClients(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub, srv, stop := startHub(t)
	defer stop()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestLiveHubShutdownClosesClients(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub, srv, stop := startHub(t)
	conn := dial(t, srv)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	stop()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway))

	// Publishing after shutdown must not block.
	hub.Publish("social.published", nil)
}

func TestLiveHubRejectsForeignOrigin(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	_, srv, stop := startHub(t)
	defer stop()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/live"
	header := map[string][]string{"Origin": {"http://evil.example"}}
	_, res, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 403, res.StatusCode)
	_ = res.Body.Close()
}

func readType(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	return ev.Type
}

func TestLiveHubPublishToAudience(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub, srv, stop := startHub(t)
	defer stop()

	admin := dialAs(t, srv, 1, "admin")
	defer admin.Close()
	warned := dialAs(t, srv, 2, "employee")
	defer warned.Close()
	other := dialAs(t, srv, 3, "employee")
	defer other.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 3 }, 2*time.Second, 10*time.Millisecond)

	hub.PublishTo("warning.issued", map[string]any{"employeeId": 2}, []string{"admin", "manager"}, 2)
	hub.Publish("reservation.created", map[string]any{"id": 1})

	assert.Equal(t, "warning.issued", readType(t, admin))
	assert.Equal(t, "reservation.created", readType(t, admin))
	assert.Equal(t, "warning.issued", readType(t, warned))
	assert.Equal(t, "reservation.created", readType(t, warned))
	assert.Equal(t, "reservation.created", readType(t, other), "warning must not reach other employees")
}
