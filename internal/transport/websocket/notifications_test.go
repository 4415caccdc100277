package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cosecdesk/config"
	"cosecdesk/internal/domain"
)

func startHub(t *testing.T) (*NotificationHub, string) {
	return startHubWithSecret(t, "")
}

func startHubWithSecret(t *testing.T, secret string) (*NotificationHub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewNotificationHub(config.NotificationsConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
	}, domain.NewIdentityParser(secret), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/ws/notifications", hub.ServeWS)
	srv := httptest.NewServer(router)

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications"
}

func TestNotificationHub_DeliversToSubjectOnly(t *testing.T) {
	hub, url := startHub(t)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token=tok", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Connections("tok") == 1 }, time.Second, 10*time.Millisecond)

	hub.Notify(context.Background(), domain.Notification{ID: "n1", Subject: "someone-else", Level: domain.NotificationInfo, Message: "not for you"})
	hub.Notify(context.Background(), domain.Notification{ID: "n2", Subject: "tok", Level: domain.NotificationSuccess, Message: "Specialist published successfully"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got domain.Notification
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "n2", got.ID)
	assert.Equal(t, domain.NotificationSuccess, got.Level)
	assert.Equal(t, "Specialist published successfully", got.Message)
	assert.NotContains(t, string(data), "subject")
}

func TestNotificationHub_BearerHeader(t *testing.T) {
	hub, url := startHub(t)

	header := http.Header{}
	header.Set("Authorization", "Bearer tok-2")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.Connections("tok-2") == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Connections("tok-2") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestNotificationHub_RejectsAnonymousAndForeignOrigin(t *testing.T) {
	_, url := startHub(t)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	header := http.Header{}
	header.Set("Origin", "https://evil.example.com")
	_, resp, err = websocket.DefaultDialer.Dial(url+"?token=tok", header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestNotificationHub_NotifyNeverBlocks(t *testing.T) {
	hub := NewNotificationHub(config.NotificationsConfig{}, nil, zap.NewNop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < deliverBuffer*2; i++ {
			hub.Notify(context.Background(), domain.Notification{Subject: "tok"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked without a running hub")
	}
}

func TestNotificationHub_UnverifiedSubjectIsNotTrusted(t *testing.T) {
	hub, url := startHub(t)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "admin-1"}).SignedString([]byte("guessed"))
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+forged, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Connections(forged) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.Connections("admin-1"))
}

func TestNotificationHub_VerifiedSubject(t *testing.T) {
	hub, url := startHubWithSecret(t, "s3cret")

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "admin-1"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+signed, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Connections("admin-1") == 1 }, time.Second, 10*time.Millisecond)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "admin-1"}).SignedString([]byte("guessed"))
	require.NoError(t, err)
	_, resp, err := websocket.DefaultDialer.Dial(url+"?token="+forged, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
