package lifx

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/pdf/golifx"
	"github.com/pdf/golifx/common"
	"github.com/pdf/golifx/protocol"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/scheerer/mood-lamp/internal/lights"
	"github.com/scheerer/mood-lamp/internal/logging"
	"github.com/scheerer/mood-lamp/internal/mood"
	"github.com/scheerer/mood-lamp/internal/util"
)

var logger = logging.New("lifx")

// LifxLights mirrors the lamp color onto one LIFX group. The scheduler
// moves far faster than a LIFX bulb accepts packets, so levels are
// latched and the latest color is pushed once per flush interval.
type LifxLights struct {
	config Config
	client *golifx.Client
	levels lights.Levels

	groupMu sync.RWMutex
	group   common.Group

	stopOnce sync.Once
}

type Config struct {
	GroupName     string
	MaxBrightness float64
	MinBrightness float64
	FlushInterval time.Duration
}

var _ lights.LightService = (*LifxLights)(nil)

func NewLifx(ctx context.Context, config Config) (*LifxLights, error) {
	if config.FlushInterval <= 0 {
		return nil, errors.Errorf("lifx flush interval must be positive, got %s", config.FlushInterval)
	}

	client, err := golifx.NewClient(&protocol.V2{})
	if err != nil {
		return nil, errors.Wrap(err, "create lifx client")
	}

	l := &LifxLights{
		config: config,
		client: client,
	}
	go l.Start(ctx)
	return l, nil
}

func (l *LifxLights) Start(ctx context.Context) {
	go l.flushLoop(ctx)

	discoveryInterval := 15 * time.Second
	ticker := time.NewTicker(discoveryInterval)
	defer ticker.Stop()

	l.client.SetDiscoveryInterval(discoveryInterval)

	timeout := 5 * time.Second
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	l.discover(ctxWithTimeout)
	cancel()

	for {
		select {
		case <-ticker.C:
			if l.LightCount() > 0 {
				continue
			}
			ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
			l.discover(ctxWithTimeout)
			cancel()
		case <-ctx.Done():
			return
		}
	}
}

func (l *LifxLights) discover(ctx context.Context) {
	logger.With(zap.String("group", l.config.GroupName)).Info("LIFX discovery starting...")

	type result struct {
		group common.Group
		err   error
	}
	completed := make(chan result, 1)

	go func() {
		g, err := l.client.GetGroupByLabel(l.config.GroupName)
		completed <- result{group: g, err: err}
	}()

	select {
	case <-ctx.Done():
		logger.With(zap.Error(ctx.Err())).Warn("LIFX discovery timed out.")
	case r := <-completed:
		if r.err != nil {
			logger.With(zap.Error(r.err)).Warn("Failed to get LIFX group by label")
			break
		}
		if r.group == nil {
			logger.Warn("Couldn't discover group.")
			break
		}
		logger.With(zap.String("group", l.config.GroupName)).Info("LIFX group found")
		l.groupMu.Lock()
		l.group = r.group
		l.groupMu.Unlock()
	}

	logger.Info("LIFX discovery complete")
}

func (l *LifxLights) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(l.config.FlushInterval)
	defer ticker.Stop()

	var sent uint64
	for {
		select {
		case <-ticker.C:
			color, version := l.levels.Snapshot()
			if version == sent {
				continue
			}
			if l.push(color) {
				sent = version
			}
		case <-ctx.Done():
			return
		}
	}
}

// push sends one color to the group and reports whether it was delivered.
func (l *LifxLights) push(color lights.Color) bool {
	l.groupMu.RLock()
	group := l.group
	l.groupMu.RUnlock()
	if group == nil {
		return false
	}

	lifxColor := adjustColor(newLifxColor(color), l.config)
	logger.With(zap.Any("color", color),
		zap.Any("lifxColor", lifxColor)).
		Debug("Setting LIFX group color")

	// fade over one flush interval so steps blend into each other
	if err := group.SetColor(lifxColor, l.config.FlushInterval); err != nil {
		logger.With(zap.Error(err)).Warn("Failed to set color for LIFX group")
		return false
	}
	return true
}

func (l *LifxLights) SetLevel(ch mood.Channel, duty uint16) {
	l.levels.SetLevel(ch, duty)
}

func (l *LifxLights) LightCount() int {
	l.groupMu.RLock()
	defer l.groupMu.RUnlock()

	if l.group == nil {
		return 0
	}
	count := 0
	for range l.group.Lights() {
		count++
	}
	return count
}

func (l *LifxLights) Stop() {
	l.stopOnce.Do(func() {
		if err := l.client.Close(); err != nil {
			logger.With(zap.Error(err)).Warn("Failed to close LIFX client")
		}
	})
}

func newLifxColor(color lights.Color) common.Color {
	hue, saturation, brightness := util.RgbToHsb(color.Red, color.Green, color.Blue)

	return common.Color{
		Hue:        hue,
		Saturation: saturation,
		Brightness: brightness,
		Kelvin:     3500,
	}
}

func adjustColor(color common.Color, config Config) common.Color {
	if color.Brightness == 0 {
		return common.Color{Kelvin: 3500}
	}

	color.Brightness = uint16(math.Min(config.MaxBrightness*0xFFFF, math.Max(config.MinBrightness*0xFFFF, float64(color.Brightness))))

	return color
}
