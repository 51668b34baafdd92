package lights

import (
	"sync"

	"github.com/scheerer/mood-lamp/internal/logging"
	"github.com/scheerer/mood-lamp/internal/mood"
)

var logger = logging.New("lights")

// Color is a gamma-corrected duty per channel, as sent to a light.
type Color struct {
	Red   uint16
	Green uint16
	Blue  uint16
}

// LightService is a lamp output. Channels outside Red..Blue are ignored.
type LightService interface {
	mood.Output
	LightCount() int
	Stop()
}

// Levels holds the latest duty of each channel for outputs that render
// on their own schedule. Safe for concurrent use.
type Levels struct {
	mu      sync.Mutex
	duty    [3]uint16
	version uint64
}

func (l *Levels) SetLevel(ch mood.Channel, duty uint16) {
	if !ch.Valid() {
		return
	}
	l.mu.Lock()
	if l.duty[ch] != duty {
		l.duty[ch] = duty
		l.version++
	}
	l.mu.Unlock()
}

// Snapshot returns the current color and a counter that changes whenever
// the color does.
func (l *Levels) Snapshot() (Color, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Color{
		Red:   l.duty[mood.Red],
		Green: l.duty[mood.Green],
		Blue:  l.duty[mood.Blue],
	}, l.version
}
