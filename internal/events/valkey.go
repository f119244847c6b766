// valkey.go publishes change events to a Valkey channel for external
// consumers (search indexers, feed builders). Delivery is fire-and-await:
// the publish round trip completes before the write path moves on, but a
// failed publish of a post-commit event never fails the write.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Channel is the pub/sub channel change events are published on.
const Channel = "catalogd:events"

// ValkeyPublisher forwards events to a Valkey pub/sub channel.
type ValkeyPublisher struct {
	client *redis.Client
}

// NewValkeyPublisher returns a publisher writing to the given client.
func NewValkeyPublisher(client *redis.Client) *ValkeyPublisher {
	return &ValkeyPublisher{client: client}
}

// Publish implements Publisher. Only post-commit events leave the
// process; pre-commit "changing" events are for in-process subscribers.
func (p *ValkeyPublisher) Publish(ctx context.Context, ev Event) error {
	if ev.Phase != PhaseChanged {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	if err := p.client.Publish(ctx, Channel, payload).Err(); err != nil {
		slog.Warn("change event publish failed", "entries", len(ev.Entries), "error", err)
	}
	return nil
}
