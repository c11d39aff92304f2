package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// feedChannel matches the pg_notify channel used by the orders trigger.
const feedChannel = "orders_feed"

// Listener holds one dedicated Postgres connection on LISTEN and republishes
// every orders_feed payload into the hub. If the connection drops, events are
// silently missed until the next full refresh; there is no backfill.
type Listener struct {
	pool *pgxpool.Pool
	hub  *Hub
}

func NewListener(pool *pgxpool.Pool, hub *Hub) *Listener {
	return &Listener{pool: pool, hub: hub}
}

func (l *Listener) Run(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("listener: failed to acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, "LISTEN "+feedChannel)
	if err != nil {
		return fmt.Errorf("listener: failed to listen on %s: %w", feedChannel, err)
	}

	log.Info().Str("channel", feedChannel).Msg("listener: subscribed to orders feed")

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("listener: feed connection lost: %w", err)
		}

		var ev Event
		if err := json.Unmarshal([]byte(notification.Payload), &ev); err != nil {
			log.Error().Err(err).Str("payload", notification.Payload).Msg("listener: failed to decode feed payload")
			continue
		}

		l.hub.Publish(ev)
	}
}
