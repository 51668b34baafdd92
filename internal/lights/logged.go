package lights

import (
	"go.uber.org/zap"

	"github.com/scheerer/mood-lamp/internal/mood"
)

var levelLog = logger.Desugar()

// Logged writes every level change to the debug log. It stands in for a
// PWM timer when no physical light is attached.
type Logged struct {
	levels Levels
}

var _ LightService = (*Logged)(nil)

func NewLogged() *Logged {
	return &Logged{}
}

func (l *Logged) SetLevel(ch mood.Channel, duty uint16) {
	if !ch.Valid() {
		return
	}
	l.levels.SetLevel(ch, duty)
	if ce := levelLog.Check(zap.DebugLevel, "Channel level"); ce != nil {
		ce.Write(zap.Stringer("channel", ch), zap.Uint16("duty", duty))
	}
}

func (l *Logged) Color() Color {
	c, _ := l.levels.Snapshot()
	return c
}

func (l *Logged) LightCount() int {
	return 1
}

func (l *Logged) Stop() {}
