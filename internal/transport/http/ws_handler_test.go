package http

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/avdeev/codepair-server/internal/proto"
)

func TestHealthEndpoint(t *testing.T) {
	ts, cancel := startTestServer(t, nil)
	defer cancel()

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketJoinSignalingAndRelay(t *testing.T) {
	ts, cancel := startTestServer(t, nil)
	defer cancel()

	ctx, closeCtx := context.WithTimeout(context.Background(), 10*time.Second)
	defer closeCtx()

	connA := dialWS(t, ctx, ts)
	defer connA.Close(websocket.StatusNormalClosure, "done")

	connB := dialWS(t, ctx, ts)
	defer connB.Close(websocket.StatusNormalClosure, "done")

	sendJoin(t, ctx, connA, "demo", "peer-a", "alice")
	// Give the hub time to admit A before B joins, so the join order is fixed.
	time.Sleep(100 * time.Millisecond)
	sendJoin(t, ctx, connB, "demo", "peer-b", "bob")

	// The newcomer learns who is already in the room.
	var present proto.PeerData
	if err := json.Unmarshal(readEvent(t, ctx, connB, proto.EventUserPresent), &present); err != nil {
		t.Fatalf("unmarshal user-present: %v", err)
	}
	if present.PeerID != "peer-a" || present.Name != "alice" {
		t.Fatalf("unexpected present payload: %+v", present)
	}

	// The existing member is told to dial the newcomer.
	var connected proto.PeerData
	if err := json.Unmarshal(readEvent(t, ctx, connA, proto.EventUserConnected), &connected); err != nil {
		t.Fatalf("unmarshal user-connected: %v", err)
	}
	if connected.PeerID != "peer-b" || connected.Name != "bob" {
		t.Fatalf("unexpected connected payload: %+v", connected)
	}

	// Code flows A -> B, tagged with its origin.
	sendCode(t, ctx, connA, "demo", "const answer = 42")

	var update proto.CodeUpdateData
	if err := json.Unmarshal(readEvent(t, ctx, connB, proto.EventCodeUpdate), &update); err != nil {
		t.Fatalf("unmarshal code-update: %v", err)
	}
	if update.Code != "const answer = 42" || update.Room != "demo" || update.From == "" {
		t.Fatalf("unexpected update payload: %+v", update)
	}

	// Dropping A's socket surfaces as a disconnect to B.
	connA.Close(websocket.StatusNormalClosure, "leaving")

	var gone proto.PeerData
	if err := json.Unmarshal(readEvent(t, ctx, connB, proto.EventUserDisconnected), &gone); err != nil {
		t.Fatalf("unmarshal user-disconnected: %v", err)
	}
	if gone.ID == "" || gone.Room != "demo" {
		t.Fatalf("unexpected disconnect payload: %+v", gone)
	}
}

func TestWebSocketJoinWithoutRoomIsRejected(t *testing.T) {
	ts, cancel := startTestServer(t, nil)
	defer cancel()

	ctx, closeCtx := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCtx()

	conn := dialWS(t, ctx, ts)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	sendJoin(t, ctx, conn, "", "peer-x", "x")

	var outbound proto.Outbound
	if err := readJSON(ctx, conn, &outbound); err != nil {
		t.Fatalf("read outbound: %v", err)
	}
	if outbound.Type != proto.OutboundTypeError || outbound.Error == nil || outbound.Error.Code != "bad_request" {
		t.Fatalf("expected bad_request error, got %+v", outbound)
	}
}
