package lights

import "github.com/scheerer/mood-lamp/internal/mood"

// Multi drives several outputs with the same levels.
type Multi []LightService

var _ LightService = Multi(nil)

func (m Multi) SetLevel(ch mood.Channel, duty uint16) {
	for _, l := range m {
		l.SetLevel(ch, duty)
	}
}

func (m Multi) LightCount() int {
	count := 0
	for _, l := range m {
		count += l.LightCount()
	}
	return count
}

func (m Multi) Stop() {
	for _, l := range m {
		l.Stop()
	}
}
