package report

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Builder stamps reports with sortable unique IDs.
type Builder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewBuilder creates a new report builder
func NewBuilder() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Stamp returns a copy of rep with a fresh ID and generation time.
func (b *Builder) Stamp(rep Report) Report {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now().UTC()
	rep.ID = ulid.MustNew(ulid.Timestamp(now), b.entropy).String()
	rep.GeneratedAt = now
	return rep
}
