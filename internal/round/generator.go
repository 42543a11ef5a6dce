package round

import (
	"math/rand/v2"
)

// Source is the randomness a Generator draws from. *rand.Rand satisfies it.
type Source interface {
	Uint64N(n uint64) uint64
	Uint64() uint64
}

// Generator produces uniformly distributed targets within an inclusive range.
type Generator struct {
	src Source
}

// NewGenerator returns a Generator backed by src. A nil src uses a
// time-seeded PCG source.
func NewGenerator(src Source) *Generator {
	if src == nil {
		src = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{src: src}
}

// Generate returns an integer in [min, max], both ends inclusive.
// It returns ErrInvalidRange when min > max.
func (g *Generator) Generate(min, max int) (int, error) {
	if min > max {
		return 0, ErrInvalidRange
	}

	// Computed in uint64 so spans wider than MaxInt64 do not overflow.
	span := uint64(max) - uint64(min)
	if span == ^uint64(0) {
		return int(g.src.Uint64()), nil
	}
	return int(uint64(min) + g.src.Uint64N(span+1)), nil
}

// NewRound draws a fresh unscored Round for the range in s.
func (g *Generator) NewRound(s Settings) (*Round, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	target, err := g.Generate(s.Min, s.Max)
	if err != nil {
		return nil, err
	}
	return &Round{Target: target}, nil
}
