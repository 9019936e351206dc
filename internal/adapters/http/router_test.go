package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/collabpad/relay/internal/app"
	"github.com/collabpad/relay/internal/config"
	"github.com/collabpad/relay/internal/core"
)

func newTestServer(t *testing.T) (*httptest.Server, *app.Orchestrator) {
	t.Helper()
	cfg := &config.Config{
		Mode:       "release",
		StaticPath: t.TempDir(),
		ReadLimit:  65536,
		PingPeriod: time.Minute,
		Secret:     "test-secret",
	}
	orch := app.NewOrchestrator(app.NewRegistry(), core.NewStore())
	r := SetupRouter(context.Background(), cfg, orch)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, orch
}

func wsDial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func wsSend(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	if err := conn.WriteJSON(v); err != nil {
		t.Fatalf("ws write: %v", err)
	}
}

func wsRead(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ws read: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("bad event %s: %v", data, err)
	}
	return m
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if v != nil {
		_ = json.NewDecoder(resp.Body).Decode(v)
	}
	return resp.StatusCode
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	var body struct {
		Status        string `json:"status"`
		ActiveRooms   int    `json:"activeRooms"`
		TotalUsers    int    `json:"totalUsers"`
		UptimeSeconds *int64 `json:"uptimeSeconds"`
	}
	if code := getJSON(t, srv.URL+"/health", &body); code != http.StatusOK {
		t.Fatalf("health status = %d", code)
	}
	if body.Status != "ok" || body.ActiveRooms != 0 || body.UptimeSeconds == nil {
		t.Errorf("health body = %+v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	if code := getJSON(t, srv.URL+"/metrics", nil); code != http.StatusOK {
		t.Fatalf("metrics status = %d", code)
	}
}

func TestRoomRESTLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	post := func(body string) int {
		resp, err := http.Post(srv.URL+"/api/rooms", "application/json", bytes.NewBufferString(body))
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		return resp.StatusCode
	}

	if code := post(`{"roomId":"bad room!"}`); code != http.StatusBadRequest {
		t.Errorf("invalid create status = %d", code)
	}
	if code := post(`{"roomId":"rest-1"}`); code != http.StatusOK {
		t.Errorf("create status = %d", code)
	}
	if code := getJSON(t, srv.URL+"/api/rooms/rest-1", nil); code != http.StatusOK {
		t.Errorf("get status = %d", code)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/rooms/rest-1", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	if code := getJSON(t, srv.URL+"/api/rooms/rest-1", nil); code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", code)
	}
}

func TestWebSocketJoinFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	alice := wsDial(t, srv)
	wsSend(t, alice, map[string]any{"type": "join-room", "roomId": "doc-7", "username": "Alice"})

	for _, want := range []string{"room-users", "room-users", "join-success"} {
		if e := wsRead(t, alice); e["type"] != want {
			t.Fatalf("alice got %v, want %s", e["type"], want)
		}
	}

	bob := wsDial(t, srv)
	wsSend(t, bob, map[string]any{"type": "join-room", "roomId": "doc-7", "username": "Bob"})

	joined := wsRead(t, alice)
	if joined["type"] != "user-joined" {
		t.Fatalf("alice got %v, want user-joined", joined["type"])
	}
	if user := joined["user"].(map[string]any); user["username"] != "Bob" {
		t.Errorf("user-joined user = %v", user)
	}
	if roster := wsRead(t, alice); roster["type"] != "room-users" {
		t.Fatalf("alice got %v, want room-users", roster["type"])
	}

	var stats core.Stats
	getJSON(t, srv.URL+"/api/stats", &stats)
	if stats.TotalRooms != 1 || stats.TotalUsers != 2 {
		t.Errorf("stats = %d rooms / %d users, want 1/2", stats.TotalRooms, stats.TotalUsers)
	}
}

func TestWebSocketRelayBetweenClients(t *testing.T) {
	srv, _ := newTestServer(t)

	x := wsDial(t, srv)
	wsSend(t, x, map[string]any{"type": "join-room", "roomId": "r1", "username": "X"})
	for i := 0; i < 3; i++ {
		wsRead(t, x)
	}

	y := wsDial(t, srv)
	wsSend(t, y, map[string]any{"type": "join-room", "roomId": "r1", "username": "Y"})
	for i := 0; i < 3; i++ {
		wsRead(t, y)
	}
	// X drains Y's join fanout.
	wsRead(t, x)
	wsRead(t, x)

	wsSend(t, x, map[string]any{"type": "yjs-update", "roomId": "r1", "update": map[string]any{"ops": []int{1, 2, 3}}})

	update := wsRead(t, y)
	if update["type"] != "yjs-update" {
		t.Fatalf("y got %v, want yjs-update", update["type"])
	}
	if update["from"] == "" || update["from"] == nil {
		t.Error("relayed update missing sender id")
	}
}

func TestDisconnectCleansRoom(t *testing.T) {
	srv, _ := newTestServer(t)

	conn := wsDial(t, srv)
	wsSend(t, conn, map[string]any{"type": "join-room", "roomId": "temp-1", "username": "Solo"})
	for i := 0; i < 3; i++ {
		wsRead(t, conn)
	}
	_ = conn.Close()

	deadline := time.After(2 * time.Second)
	for {
		var stats core.Stats
		getJSON(t, srv.URL+"/api/stats", &stats)
		if stats.TotalRooms == 0 {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("temp-1 still present after disconnect: %+v", stats)
		case <-time.After(10 * time.Millisecond):
		}
	}
}
