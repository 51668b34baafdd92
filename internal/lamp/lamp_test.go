package lamp

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheerer/mood-lamp/internal/lights"
	"github.com/scheerer/mood-lamp/internal/mood"
	"github.com/scheerer/mood-lamp/internal/nvm"
	"github.com/scheerer/mood-lamp/internal/seedstore"
	"github.com/scheerer/mood-lamp/internal/xorshift"
)

var region = seedstore.Region{Base: 0x4000, End: 0x4400}

func TestBootRestoresAndAdvancesSeed(t *testing.T) {
	m := nvm.NewImage(region.Base, int(region.Size()))
	m.Unlock()
	m.SetByte(region.Base, 0x00)
	m.SetByte(region.Base+1, 0x02)
	m.SetByte(region.Base+2, 0x12)
	m.SetByte(region.Base+3, 0x34)
	m.Lock()

	store, err := seedstore.New(m, region)
	require.NoError(t, err)

	loaded, saved := Boot(store, xorshift.New())
	assert.Equal(t, uint16(0x1234), loaded)

	want := xorshift.New()
	want.Seed(0x1234)
	assert.Equal(t, want.Uint16(), saved)

	assert.True(t, m.Locked())
	assert.Equal(t, uint16(2), store.Pointer())
	assert.Equal(t, saved, store.Load())
}

func TestBootFromErasedFileAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lamp.eeprom")

	boot := func() (uint16, uint16) {
		m, err := nvm.Open(path, region.Base, int(region.Size()))
		require.NoError(t, err)
		defer m.Close()
		store, err := seedstore.New(m, region)
		require.NoError(t, err)
		return Boot(store, xorshift.New())
	}

	loaded1, saved1 := boot()
	assert.Zero(t, loaded1)
	// a zero seed leaves the generator at its initial state
	assert.Equal(t, xorshift.New().Uint16(), saved1)

	loaded2, saved2 := boot()
	assert.Equal(t, saved1, loaded2)
	assert.NotEqual(t, saved1, saved2)
}

type countingTicker struct {
	n      int
	stopAt int
	cancel context.CancelFunc
}

func (c *countingTicker) Tick() bool {
	c.n++
	if c.n == c.stopAt {
		c.cancel()
	}
	return false
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ticker := &countingTicker{stopAt: 5, cancel: cancel}

	done := make(chan struct{})
	go func() {
		Run(ctx, ticker, time.Microsecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 5, ticker.n)
}

type stopAfter struct {
	Ticker
	n      int
	limit  int
	cancel context.CancelFunc
}

func (s *stopAfter) Tick() bool {
	held := s.Ticker.Tick()
	s.n++
	if s.n == s.limit {
		s.cancel()
	}
	return held
}

func TestRunDrivesScheduler(t *testing.T) {
	sel, err := mood.NewSelector(xorshift.New(), mood.DefaultWeights)
	require.NoError(t, err)
	out := lights.NewLogged()
	sched := mood.NewScheduler(out, sel, time.Hour, mood.WithSleep(func(time.Duration) {}))

	ctx, cancel := context.WithCancel(context.Background())
	Run(ctx, &stopAfter{Ticker: sched, limit: 100, cancel: cancel}, time.Microsecond)

	// every scheme puts at least one channel at full, so 99 steps cannot arrive
	assert.Equal(t, mood.Stepping, sched.State())
	c := sched.Current()
	assert.Equal(t, lights.Color{
		Red:   mood.Gamma(c[mood.Red]),
		Green: mood.Gamma(c[mood.Green]),
		Blue:  mood.Gamma(c[mood.Blue]),
	}, out.Color())
}
