// Package broadcast carries game snapshots to the outside world: a
// websocket hub fanning snapshots out to subscribers, and a Janus
// videoroom client provisioning per-player broadcast rooms. Both are
// best-effort collaborators; their failures never roll back game state.
package broadcast

import (
	"context"
	"fmt"

	"github.com/chessarena/server/internal/models"
	"github.com/chessarena/server/internal/worker"
)

// Publisher fans a serialized game snapshot out to subscribers.
type Publisher interface {
	Publish(ctx context.Context, gameID string, snapshot models.Snapshot) error
}

// RoomProvisioner creates video broadcast rooms for a seated player.
type RoomProvisioner interface {
	CreateSession(ctx context.Context) (sessionID, attachID int64, err error)
	CreateRoomsForUser(ctx context.Context, sessionID, attachID int64, displayName string) (camRoom, boardRoom string, err error)
}

// AsyncPublisher runs publishes as jobs on a worker pool so a slow
// subscriber can never hold up a game mutation.
type AsyncPublisher struct {
	pool  *worker.Pool
	inner Publisher
}

// NewAsyncPublisher wraps a Publisher with the given pool.
func NewAsyncPublisher(pool *worker.Pool, inner Publisher) *AsyncPublisher {
	return &AsyncPublisher{pool: pool, inner: inner}
}

// Publish queues the snapshot for delivery and returns immediately.
func (p *AsyncPublisher) Publish(ctx context.Context, gameID string, snapshot models.Snapshot) error {
	p.pool.Submit(&publishJob{inner: p.inner, gameID: gameID, snapshot: snapshot})
	return nil
}

type publishJob struct {
	inner    Publisher
	gameID   string
	snapshot models.Snapshot
}

func (j *publishJob) Name() string {
	return fmt.Sprintf("publish_snapshot:%s", j.gameID)
}

func (j *publishJob) Run(ctx context.Context) error {
	return j.inner.Publish(ctx, j.gameID, j.snapshot)
}
