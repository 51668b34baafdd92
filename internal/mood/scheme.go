package mood

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Scheme is a rule for building a destination color from random draws.
type Scheme uint8

const (
	// OneFull lights one random channel fully, the others off.
	OneFull Scheme = iota
	// TwoFull turns one random channel off, the others fully on.
	TwoFull
	// ThreeFull is white.
	ThreeFull
	// OneFullRestRandom gives every channel a random level, then one
	// random channel full.
	OneFullRestRandom
	// OneRandomRestFull is white with one random channel at a random level.
	OneRandomRestFull

	schemeCount
)

var schemeNames = [schemeCount]string{
	OneFull:           "one-full",
	TwoFull:           "two-full",
	ThreeFull:         "three-full",
	OneFullRestRandom: "one-full-rest-random",
	OneRandomRestFull: "one-random-rest-full",
}

func (s Scheme) String() string {
	if s < schemeCount {
		return schemeNames[s]
	}
	return "scheme(" + strconv.Itoa(int(s)) + ")"
}

// Weights are the relative shares of each scheme, indexed by Scheme.
type Weights [schemeCount]uint16

// DefaultWeights favours the saturated single and double channel colors.
var DefaultWeights = Weights{2, 2, 1, 1, 1}

// WeightsFromInts converts configured weights, checking count and range.
func WeightsFromInts(v []int) (Weights, error) {
	var w Weights
	if len(v) != len(w) {
		return w, errors.Errorf("need %d scheme weights, got %d", len(w), len(v))
	}
	for i, n := range v {
		if n <= 0 || n > 0xFFFF {
			return w, errors.Errorf("weight for %s must be in [1, 65535], got %d", Scheme(i), n)
		}
		w[i] = uint16(n)
	}
	return w, nil
}

func (w Weights) total() uint32 {
	var sum uint32
	for _, n := range w {
		sum += uint32(n)
	}
	return sum
}

func (w Weights) validate() error {
	for i, n := range w {
		if n == 0 {
			return errors.Errorf("weight for %s must be positive", Scheme(i))
		}
	}
	if sum := w.total(); sum > 0xFFFF {
		return errors.Errorf("weights sum to %d, above the 16-bit draw range", sum)
	}
	return nil
}

// Source is a deterministic 16-bit random stream.
type Source interface {
	Uint16() uint16
}

// Selector picks destination colors. Draw order is fixed so a given seed
// always yields the same color sequence.
type Selector struct {
	rand    Source
	weights Weights
	total   uint16
}

func NewSelector(rand Source, weights Weights) (*Selector, error) {
	if err := weights.validate(); err != nil {
		return nil, err
	}
	return &Selector{
		rand:    rand,
		weights: weights,
		total:   uint16(weights.total()),
	}, nil
}

func (s *Selector) Weights() Weights {
	return s.weights
}

// Bucket maps a raw draw to the scheme it selects.
func (s *Selector) Bucket(r uint16) Scheme {
	v := r % s.total
	var upper uint16
	for i, n := range s.weights {
		upper += n
		if v < upper {
			return Scheme(i)
		}
	}
	// unreachable: v < total
	return OneRandomRestFull
}

func (s *Selector) channel() Channel {
	return Channel(s.rand.Uint16() % 3)
}

// Next draws a scheme and builds its destination color.
func (s *Selector) Next() (Color, Scheme) {
	scheme := s.Bucket(s.rand.Uint16())

	var c Color
	switch scheme {
	case OneFull:
		c[s.channel()] = Full
	case TwoFull:
		c = Color{Full, Full, Full}
		c[s.channel()] = 0
	case ThreeFull:
		c = Color{Full, Full, Full}
	case OneFullRestRandom:
		for _, ch := range Channels {
			c[ch] = s.rand.Uint16()
		}
		c[s.channel()] = Full
	case OneRandomRestFull:
		c = Color{Full, Full, Full}
		ch := s.channel()
		c[ch] = s.rand.Uint16()
	default:
		panic(fmt.Sprintf("mood: unhandled scheme %d", scheme))
	}
	return c, scheme
}
