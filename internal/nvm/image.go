// Package nvm provides host stand-ins for the lamp's data EEPROM: an
// in-memory image with simulated cell wear, and a file-backed image that
// outlives the process the way EEPROM outlives a power cycle.
package nvm

import (
	"go.uber.org/zap"

	"github.com/scheerer/mood-lamp/internal/logging"
)

var logger = logging.New("nvm")

// Erased is the value of a never-written cell.
const Erased byte = 0x00

// Image is byte-addressable memory covering [base, base+size). Writes are
// accepted only between Unlock and Lock. A cell past its endurance, or
// marked with Wear, keeps its old value when written.
type Image struct {
	base      uint32
	data      []byte
	writes    []uint32
	worn      []bool
	endurance uint32
	unlocked  bool

	// persist, when set, must succeed before a write lands in data.
	persist func(off int, v byte) error
}

type Option func(*Image)

// WithEndurance makes each cell fail after n accepted writes. Zero means
// cells never wear out.
func WithEndurance(n uint32) Option {
	return func(m *Image) {
		m.endurance = n
	}
}

func NewImage(base uint32, size int, opts ...Option) *Image {
	m := &Image{
		base:   base,
		data:   make([]byte, size),
		writes: make([]uint32, size),
		worn:   make([]bool, size),
	}
	for i := range m.data {
		m.data[i] = Erased
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Image) offset(addr uint32) (int, bool) {
	if addr < m.base {
		return 0, false
	}
	off := addr - m.base
	if off >= uint32(len(m.data)) {
		return 0, false
	}
	return int(off), true
}

// ByteAt reads a cell. Addresses outside the image read as Erased.
func (m *Image) ByteAt(addr uint32) byte {
	off, ok := m.offset(addr)
	if !ok {
		return Erased
	}
	return m.data[off]
}

// SetByte programs a cell. Failures are silent by contract and show up
// only when the cell is read back.
func (m *Image) SetByte(addr uint32, v byte) {
	off, ok := m.offset(addr)
	if !ok {
		logger.With(zap.Uint32("addr", addr)).Debug("Write outside image ignored")
		return
	}
	if !m.unlocked {
		logger.With(zap.Uint32("addr", addr)).Warn("Write while locked ignored")
		return
	}

	m.writes[off]++
	if m.worn[off] || (m.endurance > 0 && m.writes[off] > m.endurance) {
		logger.With(zap.Uint32("addr", addr), zap.Uint32("writes", m.writes[off])).Debug("Write to worn cell dropped")
		return
	}
	if m.persist != nil {
		if err := m.persist(off, v); err != nil {
			logger.With(zap.Uint32("addr", addr), zap.Error(err)).Warn("Write did not persist")
			return
		}
	}
	m.data[off] = v
}

func (m *Image) Unlock() {
	m.unlocked = true
}

func (m *Image) Lock() {
	m.unlocked = false
}

func (m *Image) Locked() bool {
	return !m.unlocked
}

// Wear marks a cell as permanently failed.
func (m *Image) Wear(addr uint32) {
	if off, ok := m.offset(addr); ok {
		m.worn[off] = true
	}
}

// Writes returns how many writes a cell has received, including failed ones.
func (m *Image) Writes(addr uint32) uint32 {
	off, ok := m.offset(addr)
	if !ok {
		return 0
	}
	return m.writes[off]
}

func (m *Image) Base() uint32 {
	return m.base
}

func (m *Image) Size() int {
	return len(m.data)
}

// Bytes returns a copy of the image contents.
func (m *Image) Bytes() []byte {
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out
}
