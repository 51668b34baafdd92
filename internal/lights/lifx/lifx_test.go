package lifx

import (
	"testing"

	"github.com/pdf/golifx/common"
	"github.com/stretchr/testify/assert"

	"github.com/scheerer/mood-lamp/internal/lights"
	"github.com/scheerer/mood-lamp/internal/mood"
)

func TestNewLifxColor(t *testing.T) {
	c := newLifxColor(lights.Color{Red: mood.Full})
	assert.Equal(t, common.Color{Hue: 0, Saturation: 0xFFFF, Brightness: 0xFFFF, Kelvin: 3500}, c)

	white := newLifxColor(lights.Color{Red: 0x4000, Green: 0x4000, Blue: 0x4000})
	assert.Zero(t, white.Saturation)
	assert.Equal(t, uint16(0x4000), white.Brightness)
}

func TestAdjustColorClampsBrightness(t *testing.T) {
	config := Config{MinBrightness: 0.25, MaxBrightness: 0.5}

	dim := adjustColor(common.Color{Hue: 100, Saturation: 0xFFFF, Brightness: 10}, config)
	assert.Equal(t, uint16(config.MinBrightness*0xFFFF), dim.Brightness)
	assert.Equal(t, uint16(100), dim.Hue)

	bright := adjustColor(common.Color{Brightness: 0xFFFF}, config)
	assert.Equal(t, uint16(config.MaxBrightness*0xFFFF), bright.Brightness)
}

func TestAdjustColorKeepsOff(t *testing.T) {
	off := adjustColor(common.Color{Hue: 5, Saturation: 7}, Config{MinBrightness: 0.3, MaxBrightness: 1})
	assert.Equal(t, common.Color{Kelvin: 3500}, off)
}
