package broadcast

import (
	"context"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/chessarena/server/internal/logger"
	"github.com/chessarena/server/internal/models"
)

const writeTimeout = 5 * time.Second

type subscriber struct {
	conn *websocket.Conn
}

// Hub is a websocket Publisher: subscribers attach per game and receive
// every snapshot published after (and including) the one sent on attach.
type Hub struct {
	log *logger.Logger

	mu   sync.RWMutex
	subs map[string]map[*subscriber]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		log:  logger.Default().WithPrefix("hub"),
		subs: make(map[string]map[*subscriber]struct{}),
	}
}

var _ Publisher = (*Hub)(nil)

// Publish sends the snapshot to every subscriber of the game. Dead
// subscribers are dropped; delivery is best-effort and partial failure
// is not an error for the caller.
func (h *Hub) Publish(ctx context.Context, gameID string, snapshot models.Snapshot) error {
	h.mu.RLock()
	targets := make([]*subscriber, 0, len(h.subs[gameID]))
	for sub := range h.subs[gameID] {
		targets = append(targets, sub)
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return nil
	}

	h.log.Debug("publishing snapshot for game %s to %d subscribers", gameID, len(targets))
	for _, sub := range targets {
		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := wsjson.Write(writeCtx, sub.conn, snapshot)
		cancel()
		if err != nil {
			h.log.Warn("dropping subscriber of game %s: %v", gameID, err)
			h.remove(gameID, sub)
			sub.conn.Close(websocket.StatusPolicyViolation, "write failed")
		}
	}
	return nil
}

// Subscribe upgrades the request to a websocket, sends the initial
// snapshot and blocks until the client disconnects.
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request, gameID string, initial models.Snapshot) error {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return err
	}

	sub := &subscriber{conn: conn}
	h.add(gameID, sub)
	defer func() {
		h.remove(gameID, sub)
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	ctx := r.Context()
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	err = wsjson.Write(writeCtx, conn, initial)
	cancel()
	if err != nil {
		return err
	}

	h.log.Debug("subscriber attached to game %s", gameID)

	// Drain client frames until it goes away; subscribers only listen.
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			h.log.Debug("subscriber left game %s: %v", gameID, err)
			return nil
		}
	}
}

// SubscriberCount reports the number of live subscribers for a game.
func (h *Hub) SubscriberCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[gameID])
}

func (h *Hub) add(gameID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[gameID] == nil {
		h.subs[gameID] = make(map[*subscriber]struct{})
	}
	h.subs[gameID][sub] = struct{}{}
}

func (h *Hub) remove(gameID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[gameID], sub)
	if len(h.subs[gameID]) == 0 {
		delete(h.subs, gameID)
	}
}
