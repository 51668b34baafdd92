package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/scheerer/mood-lamp/internal/config"
	"github.com/scheerer/mood-lamp/internal/lamp"
	"github.com/scheerer/mood-lamp/internal/lights"
	"github.com/scheerer/mood-lamp/internal/lights/lifx"
	"github.com/scheerer/mood-lamp/internal/lights/preview"
	"github.com/scheerer/mood-lamp/internal/logging"
	"github.com/scheerer/mood-lamp/internal/mood"
	"github.com/scheerer/mood-lamp/internal/nvm"
	"github.com/scheerer/mood-lamp/internal/seedstore"
	"github.com/scheerer/mood-lamp/internal/xorshift"
)

var logger = logging.New("main")

func main() {
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.With(zap.Error(err)).Fatal("Invalid configuration")
	}
	if err := logging.SetLevelString(cfg.LogLevel); err != nil {
		logger.With(zap.Error(err)).Fatal("Invalid LOG_LEVEL")
	}

	logger.With(zap.Any("config", cfg)).Info("Starting mood lamp")
	logger.Info("Adjust TICK_INTERVAL to change how fast colors flow. One full fade takes 65535 ticks.")
	logger.Info("Adjust HOLD_DURATION to change how long a reached color is shown.")
	logger.Info("Adjust SCHEME_WEIGHTS to change the mix of color schemes. Five positive integers.")
	logger.Info("LIGHT_TYPE supports PREVIEW, LIFX and LOG.")
	logger.Info("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mem, closeMem := openMemory(cfg)
	defer closeMem()

	store, err := seedstore.New(mem, cfg.Region())
	if err != nil {
		logger.With(zap.Error(err)).Fatal("Failed to create seed store")
	}

	light := newLight(ctx, cfg, cancel)
	defer light.Stop()

	rng := xorshift.New()
	lamp.Boot(store, rng)

	weights, _ := cfg.Weights()
	selector, err := mood.NewSelector(rng, weights)
	if err != nil {
		logger.With(zap.Error(err)).Fatal("Failed to create scheme selector")
	}
	scheduler := mood.NewScheduler(light, selector, cfg.HoldDuration)

	go func() {
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-shutdown:
			logger.Info("Shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	lamp.Run(ctx, scheduler, cfg.TickInterval)
}

func openMemory(cfg config.Config) (seedstore.Memory, func()) {
	region := cfg.Region()
	opts := []nvm.Option{nvm.WithEndurance(uint32(cfg.NvmEndurance))}

	if cfg.NvmInMemory {
		logger.Warn("Using an in-memory EEPROM image; the seed will not survive a restart")
		return nvm.NewImage(region.Base, int(region.Size()), opts...), func() {}
	}

	file, err := nvm.Open(cfg.NvmPath, region.Base, int(region.Size()), opts...)
	if err != nil {
		logger.With(zap.Error(err)).Fatal("Failed to open EEPROM image")
	}
	return file, func() {
		if err := file.Close(); err != nil {
			logger.With(zap.Error(err)).Warn("Failed to close EEPROM image")
		}
	}
}

func newLight(ctx context.Context, cfg config.Config, quit func()) lights.LightService {
	switch cfg.LightType {
	case config.LightLifx:
		l, err := lifx.NewLifx(ctx, lifx.Config{
			GroupName:     cfg.LightGroupName,
			MinBrightness: cfg.MinBrightness,
			MaxBrightness: cfg.MaxBrightness,
			FlushInterval: cfg.FlushInterval,
		})
		if err != nil {
			logger.With(zap.Error(err)).Fatal("Failed to create LIFX light service")
		}
		return l
	case config.LightPreview:
		s, err := preview.New(ctx, cfg.FlushInterval, quit)
		if err != nil {
			logger.With(zap.Error(err)).Fatal("Failed to open terminal preview")
		}
		// the preview owns the terminal; only errors may print over it
		logging.GetLeveler().SetAll(zap.ErrorLevel)
		return s
	case config.LightLog:
		return lights.NewLogged()
	default:
		logger.Fatalf("unknown light type: %v", cfg.LightType)
		return nil
	}
}
