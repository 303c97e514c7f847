package internal

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/BurntSushi/toml"
)

// RandomSource produces Count random integers in [0, Max), the demo data
// feed. A series that is all zero is drawn again, since a chart cannot
// scale to a zero peak.
type RandomSource struct {
	count int
	limit int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource creates a RandomSource. A nil rng uses a randomly seeded
// PCG generator.
func NewRandomSource(count, limit int, rng *rand.Rand) (*RandomSource, error) {
	if count < 1 {
		return nil, fmt.Errorf("random source needs at least one sample, got %d", count)
	}
	if limit < 2 {
		return nil, fmt.Errorf("random source max must be at least 2, got %d", limit)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &RandomSource{count: count, limit: limit, rng: rng}, nil
}

// Samples draws a fresh series.
func (s *RandomSource) Samples(ctx context.Context) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]float64, s.count)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = float64(s.rng.IntN(s.limit))
		}
		if slices.Max(out) > 0 {
			return out, nil
		}
	}
}

// FileSource reads samples from a TOML file on every call, so edits show
// up on the next refresh:
//
//	samples = [2, 5, 3, 8, 1, 6, 4]
type FileSource struct {
	Path string
}

type sampleFile struct {
	Samples []float64 `toml:"samples"`
}

// Samples decodes the file. An absent or empty samples key is an error.
func (s FileSource) Samples(ctx context.Context) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var f sampleFile
	if _, err := toml.DecodeFile(s.Path, &f); err != nil {
		return nil, fmt.Errorf("reading samples from %s: %w", s.Path, err)
	}
	if len(f.Samples) == 0 {
		return nil, fmt.Errorf("reading samples from %s: no samples defined", s.Path)
	}
	return f.Samples, nil
}

// MockSource is a SampleSource for tests. A nil SamplesFunc returns no
// samples and no error.
type MockSource struct {
	SamplesFunc func(ctx context.Context) ([]float64, error)
}

// Samples calls SamplesFunc.
func (m *MockSource) Samples(ctx context.Context) ([]float64, error) {
	if m.SamplesFunc == nil {
		return nil, nil
	}
	return m.SamplesFunc(ctx)
}
