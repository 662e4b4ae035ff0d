package service

import (
	"context"
	"log"
	"time"

	"github.com/navikt/roomboard/internal/broadcast"
	"github.com/navikt/roomboard/internal/models"
)

// StatusPusher re-broadcasts the full status snapshot on a fixed cadence,
// independent of mutation traffic. Subscribers that missed individual
// events (reconnected, joined late) converge on the next push.
type StatusPusher struct {
	service   *RoomService
	publisher Publisher
	interval  time.Duration
}

// NewStatusPusher creates a pusher for the given service and publisher
func NewStatusPusher(service *RoomService, publisher Publisher, interval time.Duration) *StatusPusher {
	return &StatusPusher{
		service:   service,
		publisher: publisher,
		interval:  interval,
	}
}

// Start launches the push loop. The loop stops when the context is
// cancelled; there is no per-connection timer to leak.
func (p *StatusPusher) Start(ctx context.Context) {
	go p.run(ctx)
}

func (p *StatusPusher) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.pushOnce(ctx)
		case <-ctx.Done():
			log.Printf("status pusher stopped")
			return
		}
	}
}

// pushOnce publishes one snapshot event. Failures are logged and the next
// tick tries again; a mutation racing the snapshot read is resolved by a
// later push (eventual, not transactional).
func (p *StatusPusher) pushOnce(ctx context.Context) {
	snapshot, err := p.service.Snapshot(ctx)
	if err != nil {
		log.Printf("error building periodic status snapshot: %v", err)
		return
	}

	p.publisher.Publish(broadcast.Event{
		Name: models.EventPeriodicStatusUpdate,
		Data: snapshot,
	})
}
