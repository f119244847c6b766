// broadcast.go fans cache invalidations out to other catalogd nodes over a
// Valkey pub/sub channel. Local expiry is applied immediately and
// synchronously; the broadcast is best-effort — a dropped message only
// means another node serves a stale entry until its TTL runs out.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Channel is the pub/sub channel invalidation messages travel on.
const Channel = "catalogd:invalidate"

// Bus couples the local region cache with cross-node invalidation. With a
// nil client it degrades to local-only expiry, so single-node deployments
// run without Valkey.
type Bus struct {
	local  *Cache
	client *redis.Client
	node   string // excludes our own broadcasts when they echo back
}

// NewBus wraps the local cache with an invalidation broadcast.
func NewBus(local *Cache, client *redis.Client) *Bus {
	return &Bus{
		local:  local,
		client: client,
		node:   uuid.NewString(),
	}
}

// ExpireRegion expires the region locally and broadcasts the expiry.
func (b *Bus) ExpireRegion(ctx context.Context, name string) {
	b.local.ExpireRegion(name)
	b.publish(ctx, "region", name)
}

// ExpireEntity expires entries depending on the entity id locally and
// broadcasts the expiry.
func (b *Bus) ExpireEntity(ctx context.Context, id uuid.UUID) {
	b.local.ExpireEntity(id)
	b.publish(ctx, "entity", id.String())
}

func (b *Bus) publish(ctx context.Context, kind, value string) {
	if b.client == nil {
		return
	}
	msg := fmt.Sprintf("%s|%s|%s", b.node, kind, value)
	if err := b.client.Publish(ctx, Channel, msg).Err(); err != nil {
		slog.Warn("invalidation broadcast failed", "kind", kind, "value", value, "error", err)
	}
}

// Listen subscribes to the invalidation channel and applies remote
// expiries to the local cache until ctx is canceled. Run in a goroutine.
func (b *Bus) Listen(ctx context.Context) {
	if b.client == nil {
		return
	}
	sub := b.client.Subscribe(ctx, Channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.apply(msg.Payload)
		}
	}
}

// apply parses "node|kind|value" and expires locally, skipping our own echoes.
func (b *Bus) apply(payload string) {
	parts := strings.SplitN(payload, "|", 3)
	if len(parts) != 3 {
		slog.Warn("malformed invalidation message", "payload", payload)
		return
	}
	node, kind, value := parts[0], parts[1], parts[2]
	if node == b.node {
		return
	}
	switch kind {
	case "region":
		b.local.ExpireRegion(value)
	case "entity":
		id, err := uuid.Parse(value)
		if err != nil {
			slog.Warn("malformed invalidation entity id", "value", value)
			return
		}
		b.local.ExpireEntity(id)
	default:
		slog.Warn("unknown invalidation kind", "kind", kind)
	}
}
