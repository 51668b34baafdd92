package mood

import "fmt"

// Channel indexes one of the lamp's three color outputs.
type Channel uint8

const (
	Red Channel = iota
	Green
	Blue
)

// Channels lists every channel in output order.
var Channels = [...]Channel{Red, Green, Blue}

func (c Channel) Valid() bool {
	return c <= Blue
}

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return fmt.Sprintf("channel(%d)", uint8(c))
	}
}

// Full is the top level of a channel.
const Full = 0xFFFF

// Color holds one linear 16-bit level per channel.
type Color [3]uint16

func (c Color) String() string {
	return fmt.Sprintf("#%04x%04x%04x", c[Red], c[Green], c[Blue])
}

// Gamma maps a linear level to a PWM duty with the quadratic curve
// duty = v*v / 2^16, so equal level steps look like equal brightness steps.
func Gamma(v uint16) uint16 {
	return uint16((uint32(v) * uint32(v)) >> 16)
}
