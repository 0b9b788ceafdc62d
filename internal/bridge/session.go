package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/muurk/fairyctl/internal/light"
	"github.com/muurk/fairyctl/internal/logging"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024

	// Outbound buffer per client; broadcasts to a client that stopped
	// reading are dropped once this fills
	sendBuffer = 16

	// Time allowed for one op against the light, covering a power-on
	// settle plus the command write
	requestTimeout = 15 * time.Second
)

// session is one connected WebSocket client.
type session struct {
	id     string
	bridge *Bridge
	conn   *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newSession(b *Bridge, conn *websocket.Conn) *session {
	return &session{
		id:     uuid.NewString(),
		bridge: b,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
}

// run services the connection until the client goes away. Blocks.
func (s *session) run() {
	go s.writePump()
	s.readPump()
}

// readPump reads client requests until the connection errors, then tears
// the session down. close(s.send) ends the write pump.
func (s *session) readPump() {
	defer func() {
		s.bridge.unregister(s)
		_ = s.conn.Close()
		s.mu.Lock()
		s.closed = true
		close(s.send)
		s.mu.Unlock()
		logging.LogConnection(s.conn.RemoteAddr().String(), "client_disconnected")
	}()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Warn("Client connection error",
					zap.String("session_id", s.id),
					zap.Error(err),
				)
			}
			return
		}
		s.dispatch(data)
	}
}

// writePump serializes all writes to the connection and keeps the ping
// heartbeat running.
func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue marshals an event and queues it for the write pump. Messages
// for a client whose buffer is full are dropped; the next broadcast
// carries the full snapshot anyway.
func (s *session) enqueue(event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		logging.Error("Failed to marshal event",
			zap.String("session_id", s.id),
			zap.Error(err),
		)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.send <- data:
	default:
		logging.Warn("Dropping message for slow client",
			zap.String("session_id", s.id),
		)
	}
}

// dispatch decodes one request and runs it against the light.
func (s *session) dispatch(data []byte) {
	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		s.enqueue(errorEvent{
			Event:   "error",
			Message: fmt.Sprintf("invalid request: %v", err),
		})
		return
	}

	logging.Debug("Bridge op received",
		zap.String("session_id", s.id),
		zap.String("op", req.Op),
	)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	controller := s.bridge.controller

	var err error
	switch req.Op {
	case "set_power":
		if req.On == nil {
			err = fmt.Errorf("set_power needs an \"on\" value")
			break
		}
		err = controller.SetPower(ctx, *req.On)

	case "set_color":
		err = s.setColor(ctx, &req)

	case "set_brightness":
		if req.Brightness == nil {
			err = fmt.Errorf("set_brightness needs a \"brightness\" value")
			break
		}
		err = controller.SetBrightness(ctx, *req.Brightness)

	case "set_preset":
		if req.Preset == 0 {
			err = fmt.Errorf("set_preset needs a \"preset\" index")
			break
		}
		if req.Brightness != nil {
			err = controller.SetPresetBrightness(ctx, req.Preset, *req.Brightness)
		} else {
			err = controller.SetPreset(ctx, req.Preset)
		}

	case "set_effect":
		if req.Effect == "" {
			err = fmt.Errorf("set_effect needs an \"effect\" name")
			break
		}
		if req.Brightness != nil {
			err = controller.SetEffectBrightness(ctx, req.Effect, *req.Brightness)
		} else {
			err = controller.SetEffect(ctx, req.Effect)
		}

	case "get_status":
		s.enqueue(statusFromSnapshot(controller.LastKnown(), nil))
		return

	default:
		err = fmt.Errorf("unknown op %q", req.Op)
	}

	if err != nil {
		logging.Warn("Bridge op failed",
			zap.String("session_id", s.id),
			zap.String("op", req.Op),
			zap.Error(err),
		)
		hint := light.GetShortErrorMessage(err)
		if hint == err.Error() {
			hint = ""
		}
		s.enqueue(errorEvent{
			Event:   "error",
			Op:      req.Op,
			Message: err.Error(),
			Hint:    hint,
		})
		return
	}

	s.enqueue(okEvent{Event: "ok", Op: req.Op})
}

// setColor maps the three accepted color encodings onto the controller.
func (s *session) setColor(ctx context.Context, req *request) error {
	given := 0
	if req.Hex != "" {
		given++
	}
	if len(req.RGB) > 0 {
		given++
	}
	if len(req.HSV) > 0 {
		given++
	}
	if given != 1 {
		return fmt.Errorf("set_color needs exactly one of \"hex\", \"rgb\" or \"hsv\"")
	}

	controller := s.bridge.controller

	switch {
	case req.Hex != "":
		r, g, b, err := light.ParseHexColor(req.Hex)
		if err != nil {
			return err
		}
		return controller.SetColorRGB(ctx, r, g, b)

	case len(req.RGB) > 0:
		if len(req.RGB) != 3 {
			return fmt.Errorf("\"rgb\" needs three components, got %d", len(req.RGB))
		}
		for _, v := range req.RGB {
			if v < 0 || v > 255 {
				return fmt.Errorf("rgb component %d out of range 0-255", v)
			}
		}
		return controller.SetColorRGB(ctx, uint8(req.RGB[0]), uint8(req.RGB[1]), uint8(req.RGB[2]))

	default:
		if len(req.HSV) != 3 {
			return fmt.Errorf("\"hsv\" needs three components, got %d", len(req.HSV))
		}
		return controller.SetColorHSV(ctx, req.HSV[0], req.HSV[1], req.HSV[2])
	}
}
