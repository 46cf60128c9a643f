// Package memory provides an in-memory session Persistence. Data is lost
// when the process exits.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/wolfeidau/ecotrack/internal/session"
)

// Persistence implements session.Persistence in memory.
type Persistence struct {
	mu     sync.RWMutex
	record *session.Record
}

var _ session.Persistence = (*Persistence)(nil)

// NewPersistence creates an empty in-memory persistence.
func NewPersistence() *Persistence {
	return &Persistence{}
}

// Load returns a copy of the saved record.
func (p *Persistence) Load(ctx context.Context) (*session.Record, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.record == nil {
		return nil, session.ErrSessionNotFound
	}

	clone := cloneRecord(*p.record)
	return &clone, nil
}

// Save replaces the saved record.
func (p *Persistence) Save(ctx context.Context, rec session.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	clone := cloneRecord(rec)
	p.record = &clone
	return nil
}

// Clear erases the saved record.
func (p *Persistence) Clear(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.record = nil
	return nil
}

// Clone to avoid external modifications
func cloneRecord(rec session.Record) session.Record {
	rec.User.Achievements = slices.Clone(rec.User.Achievements)
	return rec
}
