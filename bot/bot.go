// Package bot drives the chat ledger: it polls the transport for messages,
// routes them, and manages per-partner confirmation of parsed records.
package bot

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ldyuan/tradenote/store"
)

// maxBackoff caps the pause after consecutive receive failures.
const maxBackoff = 30 * time.Second

// Bot ties the router, coordinator and store to one transport.
type Bot struct {
	tr       Transport
	store    *store.Store
	coord    *Coordinator
	interval time.Duration
}

// New builds a bot polling tr every interval, auto-confirming pending
// drafts after confirmTimeout.
func New(tr Transport, st *store.Store, interval, confirmTimeout time.Duration) *Bot {
	return &Bot{
		tr:       tr,
		store:    st,
		coord:    NewCoordinator(st, tr.Send, confirmTimeout),
		interval: interval,
	}
}

// Run polls the transport until ctx is cancelled. Messages are processed
// sequentially; a failed receive is logged and followed by a bounded
// backoff instead of terminating the loop. In-flight confirmation timers
// are abandoned on shutdown.
func (b *Bot) Run(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	backoff := b.interval

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		msgs, err := b.tr.Receive(ctx)
		if err != nil {
			log.Error().Err(err).Dur("backoff", backoff).Msg("receive failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff *= 2; backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		backoff = b.interval

		for _, m := range msgs {
			log.Debug().Str("partner", m.Partner).Str("text", m.Text).Msg("message received")
			reply := b.Handle(m.Partner, m.Text)
			if err := b.tr.Send(m.Partner, reply); err != nil {
				log.Error().Err(err).Str("partner", m.Partner).Msg("send reply failed")
			}
		}
	}
}
