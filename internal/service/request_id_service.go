package service

import (
	"errors"
	"fmt"

	"github.com/Siddarth2230/kiters/pkg/idgen"
	"github.com/Siddarth2230/kiters/pkg/metrics"
)

// MaxBatch caps how many request IDs one Issue call returns.
const MaxBatch = 1000

var (
	ErrInvalidCount       = fmt.Errorf("count must be between 1 and %d", MaxBatch)
	ErrGeneratorNotServed = errors.New("no generator for requested width and mode")
)

type generatorKey struct {
	width idgen.Width
	mixed bool
}

// RequestIDService issues batches of request IDs from generators owned by
// the caller. Each width/mode combination maps to one shared generator.
type RequestIDService struct {
	generators map[generatorKey]*idgen.Generator
}

// NewRequestIDService indexes gens by width and mode. A later generator
// with the same combination replaces an earlier one.
func NewRequestIDService(gens ...*idgen.Generator) *RequestIDService {
	s := &RequestIDService{generators: make(map[generatorKey]*idgen.Generator, len(gens))}
	for _, g := range gens {
		s.generators[generatorKey{g.Width(), g.Mixed()}] = g
	}
	return s
}

// Generator returns the generator serving width w and mode mixed.
func (s *RequestIDService) Generator(w idgen.Width, mixed bool) (*idgen.Generator, bool) {
	g, ok := s.generators[generatorKey{w, mixed}]
	return g, ok
}

// Issue returns count fresh IDs.
func (s *RequestIDService) Issue(w idgen.Width, mixed bool, count int) ([]string, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if count < 1 || count > MaxBatch {
		return nil, ErrInvalidCount
	}
	g, ok := s.Generator(w, mixed)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrGeneratorNotServed, w, metrics.Mode(mixed))
	}

	ids := make([]string, count)
	for i := range ids {
		ids[i] = g.NextIDString()
	}
	metrics.IDsIssued.WithLabelValues(w.String(), metrics.Mode(mixed)).Add(float64(count))
	return ids, nil
}
