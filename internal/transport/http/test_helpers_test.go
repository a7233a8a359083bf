package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/avdeev/codepair-server/internal/broker"
	"github.com/avdeev/codepair-server/internal/config"
	"github.com/avdeev/codepair-server/internal/core"
	"github.com/avdeev/codepair-server/internal/proto"
)

// stubExecutor returns a canned result and records the last request.
type stubExecutor struct {
	result broker.Result
	last   *broker.Request
}

func (s *stubExecutor) Execute(_ context.Context, req broker.Request) broker.Result {
	s.last = &req
	return s.result
}

func startTestServer(t *testing.T, exec Executor) (*httptest.Server, context.CancelFunc) {
	t.Helper()

	disabledLogger := zerolog.Nop()
	hub := core.NewHub(&disabledLogger, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	if exec == nil {
		exec = &stubExecutor{}
	}

	cfg := config.Default()
	cfg.Addr = ":0"

	server := NewServer(hub, exec, &cfg, &disabledLogger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, cancel
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func sendJoin(t *testing.T, ctx context.Context, conn *websocket.Conn, room, peerID, name string) {
	t.Helper()

	payload, _ := json.Marshal(proto.JoinData{Room: room, PeerID: peerID, Name: name})
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeJoin, Data: payload}); err != nil {
		t.Fatalf("send join: %v", err)
	}
}

func sendCode(t *testing.T, ctx context.Context, conn *websocket.Conn, room, code string) {
	t.Helper()

	payload, _ := json.Marshal(proto.CodeData{Room: room, Code: code})
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeCode, Data: payload}); err != nil {
		t.Fatalf("send code: %v", err)
	}
}

func readJSON(ctx context.Context, conn *websocket.Conn, dst any) error {
	return wsjson.Read(ctx, conn, dst)
}

// readEvent reads outbound messages until one matches the wanted event name.
func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) json.RawMessage {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		var outbound struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			t.Fatalf("read outbound: %v", err)
		}
		if outbound.Event == event {
			return outbound.Data
		}
	}
	t.Fatalf("event %q not received", event)
	return nil
}
