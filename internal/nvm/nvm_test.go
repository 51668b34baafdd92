package nvm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = 0x4000

func TestImageStartsErasedAndLocked(t *testing.T) {
	m := NewImage(base, 16)
	assert.True(t, m.Locked())
	assert.Equal(t, make([]byte, 16), m.Bytes())

	m.SetByte(base, 0xAA)
	assert.Equal(t, Erased, m.ByteAt(base))
	assert.Zero(t, m.Writes(base))
}

func TestImageWritesWhileUnlocked(t *testing.T) {
	m := NewImage(base, 16)
	m.Unlock()
	m.SetByte(base+3, 0x5A)
	assert.Equal(t, byte(0x5A), m.ByteAt(base+3))
	assert.Equal(t, uint32(1), m.Writes(base+3))

	m.Lock()
	m.SetByte(base+3, 0x00)
	assert.Equal(t, byte(0x5A), m.ByteAt(base+3))
}

func TestImageIgnoresOutOfRange(t *testing.T) {
	m := NewImage(base, 16)
	m.Unlock()
	m.SetByte(base-1, 0x11)
	m.SetByte(base+16, 0x11)
	assert.Equal(t, Erased, m.ByteAt(base-1))
	assert.Equal(t, Erased, m.ByteAt(base+16))
	assert.Equal(t, make([]byte, 16), m.Bytes())
}

func TestWornCellKeepsOldValue(t *testing.T) {
	m := NewImage(base, 16)
	m.Unlock()
	m.SetByte(base+4, 0x01)
	m.Wear(base + 4)
	m.SetByte(base+4, 0x02)
	assert.Equal(t, byte(0x01), m.ByteAt(base+4))
	assert.Equal(t, uint32(2), m.Writes(base+4))
}

func TestEndurance(t *testing.T) {
	m := NewImage(base, 16, WithEndurance(2))
	m.Unlock()
	m.SetByte(base, 1)
	m.SetByte(base, 2)
	m.SetByte(base, 3)
	assert.Equal(t, byte(2), m.ByteAt(base))
}

func TestFileCreatesErasedImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lamp.eeprom")

	m, err := Open(path, base, 32)
	require.NoError(t, err)
	defer m.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(32), info.Size())
	assert.Equal(t, make([]byte, 32), m.Bytes())
}

func TestFileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lamp.eeprom")

	m, err := Open(path, base, 32)
	require.NoError(t, err)
	m.Unlock()
	m.SetByte(base+2, 0x12)
	m.SetByte(base+3, 0x34)
	m.Lock()
	require.NoError(t, m.Close())

	m, err = Open(path, base, 32)
	require.NoError(t, err)
	defer m.Close()
	assert.Equal(t, byte(0x12), m.ByteAt(base+2))
	assert.Equal(t, byte(0x34), m.ByteAt(base+3))
}

func TestFileRejectsWrongSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lamp.eeprom")
	require.NoError(t, os.WriteFile(path, make([]byte, 10), 0o644))

	_, err := Open(path, base, 32)
	assert.Error(t, err)
}

func TestFileWriteFailureLeavesCell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lamp.eeprom")

	m, err := Open(path, base, 32)
	require.NoError(t, err)
	m.Unlock()
	m.SetByte(base, 0x01)
	require.NoError(t, m.f.Close())

	m.SetByte(base, 0x02)
	assert.Equal(t, byte(0x01), m.ByteAt(base))
}
