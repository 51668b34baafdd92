// Command eeprom inspects a lamp EEPROM image and can plant a seed in it.
package main

import (
	"go.uber.org/zap"

	"github.com/scheerer/mood-lamp/internal/logging"
	"github.com/scheerer/mood-lamp/internal/nvm"
	"github.com/scheerer/mood-lamp/internal/seedstore"
	"github.com/scheerer/mood-lamp/internal/util"
	"github.com/scheerer/mood-lamp/internal/xorshift"
)

var logger = logging.New("eeprom")

func main() {
	defer logger.Sync()

	path := util.Getenv("NVM_PATH", "mood-lamp.eeprom")
	base := util.Getenv("NVM_BASE", uint32(0x4000))
	end := util.Getenv("NVM_END", uint32(0x4400))
	setSeed := util.Getenv("SET_SEED", -1)

	region := seedstore.Region{Base: base, End: end}
	if err := region.Validate(); err != nil {
		logger.With(zap.Error(err)).Fatal("Invalid region")
	}

	mem, err := nvm.Open(path, region.Base, int(region.Size()))
	if err != nil {
		logger.With(zap.Error(err)).Fatal("Failed to open EEPROM image")
	}
	defer mem.Close()

	store, err := seedstore.New(mem, region)
	if err != nil {
		logger.With(zap.Error(err)).Fatal("Failed to create seed store")
	}

	raw := store.Pointer()
	if setSeed >= 0 {
		if setSeed > 0xFFFF {
			logger.Fatalf("SET_SEED must fit in 16 bits, got %d", setSeed)
		}
		store.Init()
		store.Save(uint16(setSeed))
		store.Deinit()
		logger.With(zap.Int("seed", setSeed)).Info("Seed written")
	}

	seed := store.Load()
	rng := xorshift.New()
	rng.Seed(seed)

	logger.With(
		zap.String("path", path),
		zap.Uint32("base", region.Base),
		zap.Uint32("end", region.End),
		zap.Uint16("storedPointer", raw),
		zap.Uint16("pointer", store.Pointer()),
		zap.Uint16("seed", seed),
		zap.Uint16("savedOnNextBoot", rng.Uint16())).
		Info("EEPROM image")
}
