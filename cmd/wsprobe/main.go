// wsprobe is a terminal smoke client for the realtime channel: it joins a
// room, sends each typed line as a code revision, and prints relayed events.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/avdeev/codepair-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("wsprobe: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:4000/ws", "WebSocket address")
	name := flag.String("name", "probe", "display name")
	room := flag.String("room", "demo", "room to join")
	peerID := flag.String("peer", "", "signaling address to announce")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(v interface{}) {
		if writeErr := wsjson.Write(ctx, conn, v); writeErr != nil {
			cancel()
			log.Printf("send: %v", writeErr)
		}
	}

	joinPayload, err := json.Marshal(proto.JoinData{Room: *room, PeerID: *peerID, Name: *name})
	if err != nil {
		return fmt.Errorf("marshal join: %w", err)
	}
	send(proto.Inbound{Type: proto.InboundTypeJoin, Data: joinPayload})

	fmt.Printf("Connected to %s as %s in room %s\n", *addr, *name, *room)
	fmt.Println("Type code lines and press Enter to broadcast. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, *room, send)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		if outbound.Type == proto.OutboundTypeError && outbound.Error != nil {
			fmt.Printf("error %s: %s\n", outbound.Error.Code, outbound.Error.Msg)
			continue
		}

		switch outbound.Event {
		case proto.EventCodeUpdate:
			var evt proto.CodeUpdateData
			if decode(outbound.Data, &evt) {
				fmt.Printf("[%s] code from %s:\n%s\n", evt.Room, evt.From, evt.Code)
			}
		case proto.EventUserConnected:
			var evt proto.PeerData
			if decode(outbound.Data, &evt) {
				fmt.Printf("[%s] %s connected (peer %s)\n", evt.Room, evt.Name, evt.PeerID)
			}
		case proto.EventUserPresent:
			var evt proto.PeerData
			if decode(outbound.Data, &evt) {
				fmt.Printf("[%s] %s already here (peer %s)\n", evt.Room, evt.Name, evt.PeerID)
			}
		case proto.EventUserDisconnected:
			var evt proto.PeerData
			if decode(outbound.Data, &evt) {
				fmt.Printf("[%s] %s disconnected\n", evt.Room, evt.ID)
			}
		default:
			fmt.Printf("event=%s data=%v\n", outbound.Event, outbound.Data)
		}
	}
}

func decode(data any, dst any) bool {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("marshal outbound data: %v", err)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Printf("unmarshal event: %v", err)
		return false
	}
	return true
}

func writeLoop(ctx context.Context, room string, send func(v interface{})) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return
			}
			if line == "" {
				continue
			}
			payload, err := json.Marshal(proto.CodeData{Room: room, Code: line})
			if err != nil {
				log.Printf("marshal code: %v", err)
				continue
			}
			send(proto.Inbound{Type: proto.InboundTypeCode, Data: payload})
		case <-ctx.Done():
			return
		}
	}
}
