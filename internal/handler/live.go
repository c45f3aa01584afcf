package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/brixwork/portal-server/internal/live"
)

const (
	initReadTimeout = 10 * time.Second
	writeTimeout    = 5 * time.Second
)

// wireMessage is the live channel envelope. Client to server it carries the
// registration handshake ({"type":"init","jobId":...}); server to client it
// carries the ack ({"type":"connected"}) and update events
// ({"type":"update","data":{...}}).
type wireMessage struct {
	Type    string       `json:"type"`
	JobID   string       `json:"jobId,omitempty"`
	Message string       `json:"message,omitempty"`
	Data    *live.Update `json:"data,omitempty"`
}

const (
	msgInit      = "init"
	msgConnected = "connected"
	msgUpdate    = "update"
	msgError     = "error"
)

// LiveHandler upgrades the live channel endpoint to a websocket and bridges
// the connection to the fanout hub.
type LiveHandler struct {
	hub            *live.Hub
	originPatterns []string
}

func NewLiveHandler(hub *live.Hub, originPatterns []string) *LiveHandler {
	return &LiveHandler{hub: hub, originPatterns: originPatterns}
}

func (h *LiveHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/api/live", h.Serve)
	return r
}

// GET /portal/api/live
func (h *LiveHandler) Serve(w http.ResponseWriter, r *http.Request) {
	opts := &websocket.AcceptOptions{}
	if len(h.originPatterns) > 0 {
		opts.OriginPatterns = h.originPatterns
	}
	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		log.Debug().Err(err).Msg("websocket accept failed")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The first message must be the init registration; until it arrives the
	// connection receives nothing.
	initCtx, cancelInit := context.WithTimeout(ctx, initReadTimeout)
	var init wireMessage
	err = wsjson.Read(initCtx, conn, &init)
	cancelInit()
	if err != nil {
		_ = conn.Close(websocket.StatusPolicyViolation, "init required")
		return
	}
	if init.Type != msgInit || init.JobID == "" {
		writeCtx, cancelWrite := context.WithTimeout(ctx, writeTimeout)
		_ = wsjson.Write(writeCtx, conn, wireMessage{Type: msgError, Message: "init message with jobId required"})
		cancelWrite()
		_ = conn.Close(websocket.StatusPolicyViolation, "init required")
		return
	}

	client := h.hub.Subscribe(init.JobID)
	defer h.hub.Unsubscribe(client)

	writeCtx, cancelWrite := context.WithTimeout(ctx, writeTimeout)
	err = wsjson.Write(writeCtx, conn, wireMessage{Type: msgConnected, JobID: client.JobID})
	cancelWrite()
	if err != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "write_failed")
		return
	}

	// Reader: subsequent init messages rebind the client to a different job;
	// anything else is ignored. A read error means the connection is gone.
	readErr := make(chan error, 1)
	go func() {
		for {
			var msg wireMessage
			if err := wsjson.Read(ctx, conn, &msg); err != nil {
				readErr <- err
				return
			}
			if msg.Type == msgInit && msg.JobID != "" {
				h.hub.Rebind(client, msg.JobID)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return

		case <-readErr:
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return

		case <-client.Done:
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return

		case update := <-client.Updates:
			writeCtx, cancelWrite := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, conn, wireMessage{Type: msgUpdate, Data: &update})
			cancelWrite()
			if err != nil {
				_ = conn.Close(websocket.StatusNormalClosure, "write_failed")
				return
			}
		}
	}
}
