package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skillera/internal/domain/match"
	"skillera/internal/pkg/jwt"
	"skillera/internal/repository"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type allowMatches map[uuid.UUID]bool

func (a allowMatches) CanJoinMatch(_ context.Context, _, matchID uuid.UUID) (bool, error) {
	return a[matchID], nil
}

type testServer struct {
	hub    *Hub
	jwtSvc *jwt.HMACService
	url    string
}

func newTestServer(t *testing.T, authz RoomAuthorizer) *testServer {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	go hub.Run(ctx)

	jwtSvc := jwt.NewHMACService("skillera-test", "access-secret", "refresh-secret", time.Minute, time.Hour)
	srv := httptest.NewServer(NewHandler(hub, jwtSvc, authz, nil))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})

	return &testServer{hub: hub, jwtSvc: jwtSvc, url: "ws" + strings.TrimPrefix(srv.URL, "http")}
}

func (s *testServer) dial(t *testing.T, userID uuid.UUID) *websocket.Conn {
	t.Helper()

	pair, err := s.jwtSvc.IssuePair(userID, "ws@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(s.url+"/ws?token="+pair.AccessToken, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	waitFor(t, func() bool { return s.hub.RoomSize(UserRoom(userID)) > 0 })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

type rawFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func readFrame(t *testing.T, conn *websocket.Conn) rawFrame {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f rawFrame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

func TestHandler_RejectsMissingOrRefreshToken(t *testing.T) {
	s := newTestServer(t, nil)

	_, resp, err := websocket.DefaultDialer.Dial(s.url+"/ws", nil)
	if err == nil {
		t.Fatalf("expected dial without token to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}

	pair, _ := s.jwtSvc.IssuePair(uuid.New(), "ws@example.com")
	_, resp, err = websocket.DefaultDialer.Dial(s.url+"/ws?token="+pair.RefreshToken, nil)
	if err == nil {
		t.Fatalf("expected refresh token to be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}
}

func TestHub_PublishToUserReachesOnlyThatUser(t *testing.T) {
	s := newTestServer(t, nil)

	alice, bob := uuid.New(), uuid.New()
	aliceConn := s.dial(t, alice)
	bobConn := s.dial(t, bob)

	s.hub.PublishToUser(alice, "match_created", map[string]string{"userId": bob.String()})

	f := readFrame(t, aliceConn)
	if f.Type != "match_created" {
		t.Fatalf("expected match_created, got %q", f.Type)
	}
	var data map[string]string
	if err := json.Unmarshal(f.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data["userId"] != bob.String() {
		t.Fatalf("unexpected payload: %v", data)
	}

	_ = bobConn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if _, _, err := bobConn.ReadMessage(); err == nil {
		t.Fatalf("bob should not receive alice's event")
	}
}

func TestClient_JoinMatchRoomAndReceiveBroadcast(t *testing.T) {
	matchID := uuid.New()
	s := newTestServer(t, allowMatches{matchID: true})

	user := uuid.New()
	conn := s.dial(t, user)

	if err := conn.WriteJSON(map[string]string{"type": "join_room", "matchId": matchID.String()}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if f := readFrame(t, conn); f.Type != "joined_room" {
		t.Fatalf("expected joined_room, got %q (%s)", f.Type, f.Data)
	}
	waitFor(t, func() bool { return s.hub.RoomSize(MatchRoom(matchID)) == 1 })

	s.hub.PublishToMatch(matchID, "new_message", map[string]string{"content": "hi"})
	if f := readFrame(t, conn); f.Type != "new_message" {
		t.Fatalf("expected new_message, got %q", f.Type)
	}

	if err := conn.WriteJSON(map[string]string{"type": "leave_room", "matchId": matchID.String()}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if f := readFrame(t, conn); f.Type != "left_room" {
		t.Fatalf("expected left_room, got %q", f.Type)
	}
	waitFor(t, func() bool { return s.hub.RoomSize(MatchRoom(matchID)) == 0 })
}

func TestClient_JoinRejectedForNonParticipant(t *testing.T) {
	s := newTestServer(t, allowMatches{})

	conn := s.dial(t, uuid.New())
	matchID := uuid.New()

	if err := conn.WriteJSON(map[string]string{"type": "join_room", "matchId": matchID.String()}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if f := readFrame(t, conn); f.Type != "error" {
		t.Fatalf("expected error frame, got %q", f.Type)
	}
	if n := s.hub.RoomSize(MatchRoom(matchID)); n != 0 {
		t.Fatalf("expected empty match room, got %d", n)
	}
}

func TestClient_InvalidFrames(t *testing.T) {
	s := newTestServer(t, nil)
	conn := s.dial(t, uuid.New())

	for _, msg := range []string{`not json`, `{"type":"dance"}`, `{"type":"join_room","matchId":"nope"}`} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatalf("write: %v", err)
		}
		if f := readFrame(t, conn); f.Type != "error" {
			t.Fatalf("%s: expected error frame, got %q", msg, f.Type)
		}
	}
}

func TestHub_DisconnectLeavesRooms(t *testing.T) {
	s := newTestServer(t, nil)

	user := uuid.New()
	conn := s.dial(t, user)
	if s.hub.ClientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", s.hub.ClientCount())
	}

	_ = conn.Close()
	waitFor(t, func() bool { return s.hub.ClientCount() == 0 })
	if n := s.hub.RoomSize(UserRoom(user)); n != 0 {
		t.Fatalf("expected user room to be gone, got %d", n)
	}
}

type fakeMatchFinder struct {
	m   match.Match
	err error
}

func (f fakeMatchFinder) FindByID(context.Context, uuid.UUID) (match.Match, error) {
	return f.m, f.err
}

func TestHub_SendersDoNotBlockAfterStop(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	client := NewClient(hub, nil, uuid.New(), nil)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i := 0; i < 300; i++ {
			hub.Register(client)
			hub.Join(client, MatchRoom(uuid.New()))
			hub.Leave(client, MatchRoom(uuid.New()))
			hub.Unregister(client)
		}
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("hub senders blocked after Run returned")
	}
}

func TestMatchAuthorizer(t *testing.T) {
	a, b, outsider := uuid.New(), uuid.New(), uuid.New()
	m := match.Match{ID: uuid.New(), UserAID: a, UserBID: b}

	tests := []struct {
		name   string
		finder fakeMatchFinder
		user   uuid.UUID
		want   bool
	}{
		{name: "creator", finder: fakeMatchFinder{m: m}, user: a, want: true},
		{name: "other participant", finder: fakeMatchFinder{m: m}, user: b, want: true},
		{name: "outsider", finder: fakeMatchFinder{m: m}, user: outsider, want: false},
		{name: "unknown match", finder: fakeMatchFinder{err: repository.ErrMatchNotFound}, user: a, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authz := &MatchAuthorizer{matches: tt.finder}
			got, err := authz.CanJoinMatch(context.Background(), tt.user, m.ID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
