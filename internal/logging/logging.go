package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfg = zap.Config{
		Level:       zap.NewAtomicLevelAt(zap.InfoLevel),
		Development: false,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	leveler = &levelSetter{
		levelers: make(map[string]zap.AtomicLevel),
		def:      zap.InfoLevel,
	}
)

// Leveler adjusts the level of named loggers after they were built.
type Leveler interface {
	SetLevel(name string, level zapcore.Level)
	GetLevel(name string) zapcore.Level
	SetAll(level zapcore.Level)
}

type levelSetter struct {
	levelers map[string]zap.AtomicLevel
	def      zapcore.Level
	mu       sync.RWMutex
}

var _ Leveler = (*levelSetter)(nil)

func GetLeveler() Leveler {
	return leveler
}

func (lw *levelSetter) SetLevel(name string, level zapcore.Level) {
	_ = lw.setLevel(name, level)
}

func (lw *levelSetter) GetLevel(name string) zapcore.Level {
	lw.mu.RLock()
	defer lw.mu.RUnlock()

	if l, ok := lw.levelers[name]; ok {
		return l.Level()
	}

	return lw.def
}

// SetAll moves every known logger, and every logger built later, to level.
func (lw *levelSetter) SetAll(level zapcore.Level) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	lw.def = level
	for _, l := range lw.levelers {
		l.SetLevel(level)
	}
}

func (lw *levelSetter) register(name string) zap.AtomicLevel {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if l, ok := lw.levelers[name]; ok {
		return l
	}
	l := zap.NewAtomicLevelAt(lw.def)
	lw.levelers[name] = l
	return l
}

func (lw *levelSetter) setLevel(name string, level zapcore.Level) zap.AtomicLevel {
	l := lw.register(name)
	l.SetLevel(level)
	return l
}

// SetLevelString applies a textual level such as "debug" to all loggers.
func SetLevelString(text string) error {
	level, err := zapcore.ParseLevel(text)
	if err != nil {
		return err
	}
	leveler.SetAll(level)
	return nil
}

func New(name string) *zap.SugaredLogger {
	c := cfg
	c.Level = leveler.register(name)
	return zap.Must(c.Build(zap.AddStacktrace(zapcore.PanicLevel))).Named(name).Sugar()
}
