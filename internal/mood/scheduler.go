package mood

import (
	"time"

	"go.uber.org/zap"

	"github.com/scheerer/mood-lamp/internal/logging"
)

var logger = logging.New("mood")

// Output receives gamma-corrected duty values. Implementations ignore
// channels outside Red..Blue.
type Output interface {
	SetLevel(ch Channel, duty uint16)
}

// State of the scheduler between ticks.
type State uint8

const (
	AtDestination State = iota
	Stepping
)

func (s State) String() string {
	if s == AtDestination {
		return "at-destination"
	}
	return "stepping"
}

// Scheduler walks the current color toward a destination one level per
// channel per tick and draws a new destination on arrival.
type Scheduler struct {
	out      Output
	selector *Selector
	hold     time.Duration
	sleep    func(time.Duration)

	current      Color
	destination  Color
	firstArrival bool
}

type Option func(*Scheduler)

// WithSleep replaces time.Sleep for the post-arrival hold.
func WithSleep(sleep func(time.Duration)) Option {
	return func(s *Scheduler) {
		s.sleep = sleep
	}
}

func NewScheduler(out Output, selector *Selector, hold time.Duration, opts ...Option) *Scheduler {
	s := &Scheduler{
		out:          out,
		selector:     selector,
		hold:         hold,
		sleep:        time.Sleep,
		firstArrival: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tick advances every channel by at most one level. It reports whether
// the tick ended at the destination, in which case a new destination
// has been drawn and, after the first arrival, the hold has elapsed.
func (s *Scheduler) Tick() bool {
	for _, ch := range Channels {
		switch {
		case s.current[ch] < s.destination[ch]:
			s.current[ch]++
			s.out.SetLevel(ch, Gamma(s.current[ch]))
		case s.current[ch] > s.destination[ch]:
			s.current[ch]--
			s.out.SetLevel(ch, Gamma(s.current[ch]))
		}
	}
	if s.current != s.destination {
		return false
	}

	reached := s.destination
	var scheme Scheme
	s.destination, scheme = s.selector.Next()
	logger.With(
		zap.Stringer("reached", reached),
		zap.Stringer("destination", s.destination),
		zap.Stringer("scheme", scheme)).
		Debug("New destination color")

	if !s.firstArrival {
		s.sleep(s.hold)
	}
	s.firstArrival = false
	return true
}

func (s *Scheduler) Current() Color {
	return s.current
}

func (s *Scheduler) Destination() Color {
	return s.destination
}

func (s *Scheduler) State() State {
	if s.current == s.destination {
		return AtDestination
	}
	return Stepping
}
