package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStringAs(t *testing.T) {
	assert.Equal(t, 16384, ParseStringAs("0x4000", 0))
	assert.Equal(t, 42, ParseStringAs(`"42"`, 0))
	assert.Equal(t, 7, ParseStringAs("seven", 7))
	assert.Equal(t, []int{2, 2, 1, 1, 1}, ParseStringAs("2, 2,1,1 ,1", []int(nil)))
	assert.Equal(t, uint32(0x4400), ParseStringAs("17408", uint32(0)))
	assert.Equal(t, 250*time.Millisecond, ParseStringAs("250ms", time.Second))
	assert.Equal(t, true, ParseStringAs("true", false))
	assert.Equal(t, []string{"a", "b"}, ParseStringAs("a,b", []string(nil)))
}

func TestGetenv(t *testing.T) {
	t.Setenv("MOOD_TEST_INTERVAL", "5ms")
	assert.Equal(t, 5*time.Millisecond, Getenv("MOOD_TEST_INTERVAL", time.Second))
	assert.Equal(t, "fallback", Getenv("MOOD_TEST_UNSET", "fallback"))
}

func TestRgbToHsb(t *testing.T) {
	h, s, b := RgbToHsb(0xFFFF, 0, 0)
	assert.Equal(t, [3]uint16{0, 0xFFFF, 0xFFFF}, [3]uint16{h, s, b})

	h, s, b = RgbToHsb(0, 0xFFFF, 0)
	assert.InDelta(t, 0xFFFF/3, int(h), 1)
	assert.Equal(t, uint16(0xFFFF), s)
	assert.Equal(t, uint16(0xFFFF), b)

	h, s, b = RgbToHsb(0x8000, 0x8000, 0x8000)
	assert.Zero(t, h)
	assert.Zero(t, s)
	assert.Equal(t, uint16(0x8000), b)
}

func TestGetenvEmptyUsesDefault(t *testing.T) {
	t.Setenv("MOOD_TEST_EMPTY", "")
	assert.Equal(t, uint32(0x4000), Getenv("MOOD_TEST_EMPTY", uint32(0x4000)))
}
