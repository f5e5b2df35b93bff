// Package ws mirrors the strip to browser previews over websockets and
// streams game diagnostics.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	diag "github.com/coreman2200/gridglow/internal/diagnostics"
	"github.com/coreman2200/gridglow/internal/model"
)

const writeTimeout = 200 * time.Millisecond

// Hub is a led.Sink: every committed frame goes to the /ws clients as RGB bytes.
type Hub struct {
	// Driver names the hardware sink, for the topology message.
	Driver string
	// Status adds live fields to /health, e.g. the game state.
	Status func() map[string]any

	mu          sync.Mutex
	count       int
	rgb         []byte
	frameID     uint64
	startTime   time.Time
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
}

func NewHub(count int) *Hub {
	return &Hub{
		count:       count,
		rgb:         make([]byte, count*3),
		startTime:   time.Now(),
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (h *Hub) HandleFrames(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	h.clients[conn] = true
	h.sendTopology(conn)
	h.mu.Unlock()

	go h.drain(conn, h.clients)
}

func (h *Hub) HandleDiag(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	h.diagClients[conn] = true
	h.writeJSON(conn, diag.Diagnostic{Severity: diag.Info, Code: "DIAG.CONNECTED", Summary: "Diagnostics attached"})
	h.mu.Unlock()

	go h.drain(conn, h.diagClients)
}

// drain reads until the peer goes away, then forgets it.
func (h *Hub) drain(conn *websocket.Conn, set map[*websocket.Conn]bool) {
	defer func() {
		h.mu.Lock()
		delete(set, conn)
		h.mu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	resp := map[string]any{
		"frame_id": h.frameID,
		"uptime_s": time.Since(h.startTime).Seconds(),
		"count":    h.count,
		"driver":   h.Driver,
	}
	status := h.Status
	h.mu.Unlock()

	if status != nil {
		for k, v := range status() {
			resp[k] = v
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Write broadcasts one GRB frame.
func (h *Hub) Write(frame []uint32) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := 0; i < h.count; i++ {
		var r, g, b uint8
		if i < len(frame) {
			r, g, b = model.UnpackGRB(frame[i])
		}
		h.rgb[i*3+0], h.rgb[i*3+1], h.rgb[i*3+2] = r, g, b
	}
	h.frameID++

	type message struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	b, _ := json.Marshal(message{T: time.Now().UnixNano(), FrameID: h.frameID, RGB: h.rgb})
	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
	return nil
}

func (h *Hub) PushDiag(d diag.Diagnostic) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.diagClients {
		h.writeJSON(c, d)
	}
}

// Close drops every client.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.Close()
	}
	for c := range h.diagClients {
		c.Close()
	}
	return nil
}

// FrameID is the number of frames written so far.
func (h *Hub) FrameID() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frameID
}

// callers hold h.mu
func (h *Hub) sendTopology(conn *websocket.Conn) {
	h.writeJSON(conn, map[string]any{
		"count":  h.count,
		"grid":   model.GridSize,
		"order":  "GRB",
		"driver": h.Driver,
	})
}

// callers hold h.mu
func (h *Hub) writeJSON(conn *websocket.Conn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Debug().Err(err).Msg("marshal")
		return
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = conn.WriteMessage(websocket.TextMessage, b)
}
