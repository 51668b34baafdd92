// Package lamp wires the seed store, generator and scheduler together:
// one boot sequence, then ticks forever at a fixed cadence.
package lamp

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/scheerer/mood-lamp/internal/logging"
)

var logger = logging.New("lamp")

// SeedStore is the persistence side of the boot sequence.
type SeedStore interface {
	Init()
	Load() uint16
	Save(v uint16)
	Deinit()
}

// Random is a reseedable 16-bit generator.
type Random interface {
	Seed(v uint16)
	Uint16() uint16
}

// Ticker advances the lamp by one step and reports a completed transition.
type Ticker interface {
	Tick() bool
}

// Boot restores the generator from the store and immediately persists a
// fresh draw, so the next power-up starts elsewhere in the sequence even
// if this run never draws again. The store is locked on return.
func Boot(store SeedStore, rng Random) (loaded, saved uint16) {
	store.Init()
	defer store.Deinit()

	loaded = store.Load()
	rng.Seed(loaded)
	saved = rng.Uint16()
	store.Save(saved)

	logger.With(zap.Uint16("loaded", loaded), zap.Uint16("saved", saved)).Info("Seed restored")
	return loaded, saved
}

// Run ticks until ctx is done. A tick that ends in a hold is expected to
// overrun; any other overrun is reported at most every 10 seconds.
func Run(ctx context.Context, t Ticker, interval time.Duration) {
	var lastWarning time.Time
	var overruns int
	for {
		select {
		case <-ctx.Done():
			logger.Info("Tick loop stopped")
			return
		default:
		}

		startTime := time.Now()
		held := t.Tick()
		tickDuration := time.Since(startTime)

		if tickDuration > interval {
			if held {
				continue
			}
			overruns++
			if time.Since(lastWarning) > 10*time.Second {
				logger.With(
					zap.Stringer("tickDuration", tickDuration),
					zap.Stringer("tickInterval", interval),
					zap.Int("overruns", overruns)).
					Warn("Cannot keep up with TICK_INTERVAL. Transitions will run slower than configured.")
				lastWarning = time.Now()
				overruns = 0
			}
			continue
		}
		time.Sleep(interval - tickDuration)
	}
}
