// Package preview paints the lamp color into the terminal so the color
// walk can be watched without hardware.
package preview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/scheerer/mood-lamp/internal/lights"
	"github.com/scheerer/mood-lamp/internal/logging"
	"github.com/scheerer/mood-lamp/internal/mood"
)

var logger = logging.New("preview")

type Screen struct {
	screen   tcell.Screen
	levels   lights.Levels
	interval time.Duration
	onQuit   func()

	stopOnce sync.Once
}

var _ lights.LightService = (*Screen)(nil)

// New takes over the terminal. onQuit runs when the user presses Esc,
// Ctrl+C or q, since the terminal in raw mode swallows SIGINT.
func New(ctx context.Context, interval time.Duration, onQuit func()) (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, "create terminal screen")
	}
	if err := screen.Init(); err != nil {
		return nil, errors.Wrap(err, "init terminal screen")
	}
	s := newScreen(screen, interval, onQuit)
	go s.events()
	go s.drawLoop(ctx)
	return s, nil
}

func newScreen(screen tcell.Screen, interval time.Duration, onQuit func()) *Screen {
	return &Screen{
		screen:   screen,
		interval: interval,
		onQuit:   onQuit,
	}
}

func (s *Screen) SetLevel(ch mood.Channel, duty uint16) {
	s.levels.SetLevel(ch, duty)
}

func (s *Screen) LightCount() int {
	return 1
}

func (s *Screen) Stop() {
	s.stopOnce.Do(s.screen.Fini)
}

func (s *Screen) events() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			// Fini was called
			return
		}
		if !s.handle(ev) {
			logger.Info("Quit requested from terminal")
			s.onQuit()
			return
		}
	}
}

// handle reports false when the event asks to quit.
func (s *Screen) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' ||
			(ev.Rune() == 'c' && ev.Modifiers()&tcell.ModCtrl != 0)) {
			return false
		}
	case *tcell.EventResize:
		s.screen.Sync()
	}
	return true
}

func (s *Screen) drawLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var drawn uint64
	first := true
	for {
		select {
		case <-ticker.C:
			color, version := s.levels.Snapshot()
			if !first && version == drawn {
				continue
			}
			s.draw(color)
			drawn, first = version, false
		case <-ctx.Done():
			return
		}
	}
}

func (s *Screen) draw(c lights.Color) {
	width, height := s.screen.Size()
	bg := tcell.StyleDefault.Background(swatch(c))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s.screen.SetContent(x, y, ' ', nil, bg)
		}
	}

	label := fmt.Sprintf(" R %5d  G %5d  B %5d  (q to quit) ", c.Red, c.Green, c.Blue)
	text := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	for i, r := range label {
		if i >= width || height == 0 {
			break
		}
		s.screen.SetContent(i, height-1, r, nil, text)
	}
	s.screen.Show()
}

// swatch scales a 16-bit duty color to the terminal's 8-bit true color.
func swatch(c lights.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.Red>>8), int32(c.Green>>8), int32(c.Blue>>8))
}
