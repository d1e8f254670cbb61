package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stressorleads/internal/domain/upload"
	"stressorleads/internal/pkg/jwt"
	"stressorleads/internal/pkg/logger"
)

func setupServer(t *testing.T) (*Hub, *jwt.Service, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(logger.Nop())
	jwtService := jwt.New("ws-secret", time.Hour)

	r := gin.New()
	NewHandler(hub, jwtService, nil).RegisterRoutes(r.Group("/api"))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, jwtService, srv
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/uploads?token=" + token
}

func waitForConnections(t *testing.T, hub *Hub, dealerID int64, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Connections(dealerID) == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_DeliversToOwningDealerOnly(t *testing.T) {
	hub, jwtService, srv := setupServer(t)

	tokenA, _ := jwtService.GenerateToken(1, "a@example.com")
	tokenB, _ := jwtService.GenerateToken(2, "b@example.com")

	connA, _, err := websocket.DefaultDialer.Dial(wsURL(srv, tokenA), nil)
	require.NoError(t, err)
	defer connA.Close()
	connB, _, err := websocket.DefaultDialer.Dial(wsURL(srv, tokenB), nil)
	require.NoError(t, err)
	defer connB.Close()

	waitForConnections(t, hub, 1, 1)
	waitForConnections(t, hub, 2, 1)

	hub.UploadFinished(context.Background(), &upload.Upload{ID: 9, DealerID: 1, Status: upload.StatusCompleted, RowCount: 3, ProcessedCount: 2})

	_ = connA.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := connA.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Type    string        `json:"type"`
		Payload upload.Upload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, EventUploadFinished, event.Type)
	assert.Equal(t, int64(9), event.Payload.ID)
	assert.Equal(t, upload.StatusCompleted, event.Payload.Status)

	_ = connB.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = connB.ReadMessage()
	assert.Error(t, err)
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub, jwtService, srv := setupServer(t)

	token, _ := jwtService.GenerateToken(5, "c@example.com")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	require.NoError(t, err)
	waitForConnections(t, hub, 5, 1)

	require.NoError(t, conn.Close())
	waitForConnections(t, hub, 5, 0)

	// publishing to a dealer without connections is a no-op
	hub.Publish(5, &Event{Type: EventUploadFinished})
}

func TestHandler_RejectsMissingOrBadToken(t *testing.T) {
	_, _, srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/ws/uploads")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "garbage"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpgrader_CheckOrigin(t *testing.T) {
	up := NewUpgrader([]string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, up.CheckOrigin(req))

	req.Header.Set("Origin", "http://localhost:5173")
	assert.True(t, up.CheckOrigin(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, up.CheckOrigin(req))
}
