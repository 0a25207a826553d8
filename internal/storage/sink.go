package storage

import (
	"github.com/SeamusWaldron/bitcube/internal/search"
)

// CubeSink persists every discovery of one run.
type CubeSink struct {
	repo  *DiscoveryRepository
	runID string
}

// NewCubeSink returns a sink that writes discoveries under runID.
func NewCubeSink(db *DB, runID string) *CubeSink {
	return &CubeSink{repo: NewDiscoveryRepository(db), runID: runID}
}

// Save implements search.Sink.
func (s *CubeSink) Save(d search.Discovery) error {
	return s.repo.Create(s.runID, d)
}

var _ search.Sink = (*CubeSink)(nil)
