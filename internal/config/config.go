package config

import (
	"math"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/scheerer/mood-lamp/internal/mood"
	"github.com/scheerer/mood-lamp/internal/seedstore"
)

const (
	LightPreview = "PREVIEW"
	LightLifx    = "LIFX"
	LightLog     = "LOG"
)

type Config struct {
	ConfigFile string `env:"CONFIG_FILE" toml:"-"`

	TickInterval  time.Duration `env:"TICK_INTERVAL" envDefault:"100us" toml:"tick_interval"`
	HoldDuration  time.Duration `env:"HOLD_DURATION" envDefault:"1s" toml:"hold_duration"`
	SchemeWeights []int         `env:"SCHEME_WEIGHTS" envSeparator:"," envDefault:"2,2,1,1,1" toml:"scheme_weights"`

	NvmPath      string `env:"NVM_PATH" envDefault:"mood-lamp.eeprom" toml:"nvm_path"`
	NvmInMemory  bool   `env:"NVM_IN_MEMORY" envDefault:"false" toml:"nvm_in_memory"`
	NvmBase      int    `env:"NVM_BASE" envDefault:"16384" toml:"nvm_base"`
	NvmEnd       int    `env:"NVM_END" envDefault:"17408" toml:"nvm_end"`
	NvmEndurance int    `env:"NVM_ENDURANCE" envDefault:"0" toml:"nvm_endurance"`

	LightType      string        `env:"LIGHT_TYPE" envDefault:"PREVIEW" toml:"light_type"`
	LightGroupName string        `env:"LIGHT_GROUP_NAME" envDefault:"MOOD" toml:"light_group_name"`
	MinBrightness  float64       `env:"MIN_BRIGHTNESS" envDefault:"0" toml:"min_brightness"`
	MaxBrightness  float64       `env:"MAX_BRIGHTNESS" envDefault:"1" toml:"max_brightness"`
	FlushInterval  time.Duration `env:"FLUSH_INTERVAL" envDefault:"100ms" toml:"flush_interval"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info" toml:"log_level"`
}

// Load reads the environment, then overlays the TOML file named by
// CONFIG_FILE. Keys present in the file win over the environment.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return c, errors.Wrap(err, "parse environment")
	}
	if c.ConfigFile != "" {
		if _, err := toml.DecodeFile(c.ConfigFile, &c); err != nil {
			return c, errors.Wrapf(err, "parse config file %s", c.ConfigFile)
		}
	}
	c.LightType = strings.ToUpper(c.LightType)
	return c, c.Validate()
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var err error
	if c.TickInterval <= 0 {
		err = multierr.Append(err, errors.Errorf("TICK_INTERVAL must be positive, got %s", c.TickInterval))
	}
	if c.HoldDuration < 0 {
		err = multierr.Append(err, errors.Errorf("HOLD_DURATION must not be negative, got %s", c.HoldDuration))
	}
	if _, werr := c.Weights(); werr != nil {
		err = multierr.Append(err, errors.Wrap(werr, "SCHEME_WEIGHTS"))
	}
	if c.NvmBase < 0 || c.NvmEnd < 0 || int64(c.NvmEnd) > math.MaxUint32 {
		err = multierr.Append(err, errors.Errorf("NVM_BASE %d and NVM_END %d must be 32-bit addresses", c.NvmBase, c.NvmEnd))
	} else if rerr := c.Region().Validate(); rerr != nil {
		err = multierr.Append(err, errors.Wrap(rerr, "NVM_BASE/NVM_END"))
	}
	if c.NvmEndurance < 0 || int64(c.NvmEndurance) > math.MaxUint32 {
		err = multierr.Append(err, errors.Errorf("NVM_ENDURANCE out of range: %d", c.NvmEndurance))
	}
	switch c.LightType {
	case LightPreview, LightLifx, LightLog:
	default:
		err = multierr.Append(err, errors.Errorf("unknown LIGHT_TYPE %q", c.LightType))
	}
	if c.MinBrightness < 0 || c.MaxBrightness > 1 || c.MinBrightness > c.MaxBrightness {
		err = multierr.Append(err, errors.Errorf("need 0 <= MIN_BRIGHTNESS (%v) <= MAX_BRIGHTNESS (%v) <= 1", c.MinBrightness, c.MaxBrightness))
	}
	if c.FlushInterval <= 0 {
		err = multierr.Append(err, errors.Errorf("FLUSH_INTERVAL must be positive, got %s", c.FlushInterval))
	}
	if _, lerr := zapcore.ParseLevel(c.LogLevel); lerr != nil {
		err = multierr.Append(err, errors.Wrap(lerr, "LOG_LEVEL"))
	}
	return err
}

func (c Config) Weights() (mood.Weights, error) {
	return mood.WeightsFromInts(c.SchemeWeights)
}

func (c Config) Region() seedstore.Region {
	return seedstore.Region{Base: uint32(c.NvmBase), End: uint32(c.NvmEnd)}
}
