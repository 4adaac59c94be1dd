// Package notify shows transient success banners and forwards booking
// events to external listeners.
package notify

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultTTL is how long a banner stays visible.
const DefaultTTL = 5 * time.Second

// Banner is a single success notification slot that clears itself.
type Banner struct {
	mu      sync.Mutex
	ttl     time.Duration
	text    string
	visible bool
	gen     uint64
	timer   *time.Timer
	pub     Publisher
}

// NewBanner creates a banner hiding after ttl. A non-positive ttl means
// DefaultTTL. pub may be nil.
func NewBanner(ttl time.Duration, pub Publisher) *Banner {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Banner{ttl: ttl, pub: pub}
}

// Show displays msg and restarts the dismiss timer.
func (b *Banner) Show(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}
	b.gen++
	gen := b.gen
	b.text = msg
	b.visible = true
	b.timer = time.AfterFunc(b.ttl, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.gen == gen {
			b.visible = false
			b.text = ""
		}
	})
}

// Notify shows ev's message and hands ev to the publisher. Publish failures
// are logged; the banner is shown either way.
func (b *Banner) Notify(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b.Show(ev.Message)
	if b.pub == nil {
		return
	}
	if err := b.pub.Publish(ctx, ev); err != nil {
		log.WithFields(log.Fields{"kind": ev.Kind, "booking_id": ev.BookingID}).WithError(err).Warn("Failed to publish notification")
	}
}

// Hide clears the banner now.
func (b *Banner) Hide() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.gen++
	b.visible = false
	b.text = ""
}

// Current returns the visible text, if any.
func (b *Banner) Current() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text, b.visible
}
