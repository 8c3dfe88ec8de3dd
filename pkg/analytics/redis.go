// Package analytics emits product events to a Redis stream. Emission is
// fire-and-forget: it never blocks the caller and failures are logged,
// never returned, so the primary operation cannot fail on analytics.
package analytics

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const stream = "analytics:events"

type Sink struct {
	client *redis.Client
}

func NewSink(client *redis.Client) *Sink { return &Sink{client: client} }

func (s *Sink) Emit(event string, fields map[string]any) {
	values := map[string]any{"event": event, "at": time.Now().UTC().Format(time.RFC3339)}
	for k, v := range fields {
		values[k] = v
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.client.XAdd(ctx, &redis.XAddArgs{Stream: stream, Values: values}).Err(); err != nil {
			log.Printf("analytics: emit %s: %v", event, err)
		}
	}()
}

// Nop is used in tests and when analytics is disabled.
type Nop struct{}

func (Nop) Emit(string, map[string]any) {}
