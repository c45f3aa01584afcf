// Package live routes server-side job mutations to the portal viewers
// currently watching each job. Delivery is at-most-once and best-effort: a
// slow or disconnected viewer never blocks or fails the mutation that
// triggered the event.
package live

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	redisclient "github.com/brixwork/portal-server/internal/redis"
)

const clientBufferSize = 100

// Client is one registered live channel. A client is bound to exactly one job
// at a time; rebinding replaces the previous binding.
type Client struct {
	ID      string
	JobID   string
	Updates chan Update
	Done    chan struct{}
}

type jobSub struct {
	clients map[*Client]bool
	cancel  context.CancelFunc
}

// Hub is the channel registry: job id -> set of connected clients. With a
// redis client configured, publishes travel through a per-job pub/sub channel
// so every instance fans out; without one the hub broadcasts locally.
type Hub struct {
	redis *redisclient.Client
	jobs  map[string]*jobSub
	mu    sync.RWMutex
	ctx   context.Context
	stop  context.CancelFunc
}

func NewHub(redisClient *redisclient.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		redis: redisClient,
		jobs:  make(map[string]*jobSub),
		ctx:   ctx,
		stop:  cancel,
	}
}

// Subscribe registers a new client for jobID and starts the redis fan-in for
// that job if it is the first viewer.
func (h *Hub) Subscribe(jobID string) *Client {
	client := &Client{
		ID:      uuid.NewString(),
		JobID:   jobID,
		Updates: make(chan Update, clientBufferSize),
		Done:    make(chan struct{}),
	}

	h.mu.Lock()
	h.addLocked(client, jobID)
	count := len(h.jobs[jobID].clients)
	h.mu.Unlock()

	log.Info().
		Str("jobId", jobID).
		Str("clientId", client.ID).
		Int("clientCount", count).
		Msg("live client subscribed")

	return client
}

// Rebind moves an already-registered client to a different job. The previous
// binding is replaced, never duplicated. Rebinding to the current job is a
// no-op.
func (h *Hub) Rebind(client *Client, jobID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.JobID == jobID {
		return
	}
	if !h.removeLocked(client) {
		// already unsubscribed; do not resurrect a closed client
		return
	}
	h.addLocked(client, jobID)

	log.Info().
		Str("jobId", jobID).
		Str("clientId", client.ID).
		Msg("live client rebound")
}

// Unsubscribe removes the client's registration and closes it. Idempotent:
// unsubscribing twice, or a client that never registered with this hub, is a
// no-op and never disturbs other registrations.
func (h *Hub) Unsubscribe(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.removeLocked(client) {
		return
	}
	close(client.Done)

	log.Info().
		Str("jobId", client.JobID).
		Str("clientId", client.ID).
		Msg("live client unsubscribed")
}

// Publish delivers an update to every open client registered for jobID. The
// error return covers redis transport only; callers on the mutation path log
// and continue.
func (h *Hub) Publish(ctx context.Context, jobID string, update Update) error {
	if h.redis == nil {
		h.broadcast(jobID, update)
		return nil
	}

	data, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return h.redis.Publish(ctx, redisclient.JobChannel(jobID), data).Err()
}

// Close shuts the hub down, closing every client.
func (h *Hub) Close() {
	h.stop()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.jobs {
		for client := range sub.clients {
			close(client.Done)
		}
		if sub.cancel != nil {
			sub.cancel()
		}
	}
	h.jobs = make(map[string]*jobSub)
}

func (h *Hub) ClientCount(jobID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if sub, ok := h.jobs[jobID]; ok {
		return len(sub.clients)
	}
	return 0
}

// addLocked registers the client under jobID; caller holds h.mu.
func (h *Hub) addLocked(client *Client, jobID string) {
	client.JobID = jobID
	sub, ok := h.jobs[jobID]
	if !ok {
		sub = &jobSub{clients: make(map[*Client]bool)}
		if h.redis != nil {
			subCtx, cancel := context.WithCancel(h.ctx)
			sub.cancel = cancel
			go h.fanInFromRedis(subCtx, jobID)
		}
		h.jobs[jobID] = sub
	}
	sub.clients[client] = true
}

// removeLocked reports whether the client was actually registered; caller
// holds h.mu.
func (h *Hub) removeLocked(client *Client) bool {
	sub, ok := h.jobs[client.JobID]
	if !ok || !sub.clients[client] {
		return false
	}
	delete(sub.clients, client)
	if len(sub.clients) == 0 {
		if sub.cancel != nil {
			sub.cancel()
		}
		delete(h.jobs, client.JobID)
	}
	return true
}

func (h *Hub) fanInFromRedis(ctx context.Context, jobID string) {
	channel := redisclient.JobChannel(jobID)
	pubsub := h.redis.Subscribe(ctx, channel)
	defer pubsub.Close()

	log.Debug().
		Str("jobId", jobID).
		Str("channel", channel).
		Msg("redis pubsub subscribed")

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}

			var update Update
			if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
				log.Error().Err(err).Msg("failed to unmarshal live update")
				continue
			}

			h.broadcast(jobID, update)
		}
	}
}

func (h *Hub) broadcast(jobID string, update Update) {
	h.mu.RLock()
	var clients []*Client
	if sub, ok := h.jobs[jobID]; ok {
		clients = make([]*Client, 0, len(sub.clients))
		for client := range sub.clients {
			clients = append(clients, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Updates <- update:
		default:
			log.Warn().
				Str("jobId", jobID).
				Str("clientId", client.ID).
				Msg("client update buffer full, dropping event")
		}
	}
}
