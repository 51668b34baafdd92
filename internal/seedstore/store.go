// Package seedstore keeps the generator seed in a small byte-addressable
// non-volatile region with limited write endurance.
//
// The first two bytes of the region hold a big-endian offset to the
// active seed record. When a record fails to read back after a write,
// the offset moves two bytes forward, wrapping to the first slot at the
// end of the region, so a worn cell is stepped over instead of retried.
package seedstore

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/scheerer/mood-lamp/internal/logging"
)

var logger = logging.New("seedstore")

// firstSlot is the offset of the first record, just past the pointer.
const firstSlot = 2

// Memory is byte-addressable non-volatile storage. SetByte may silently
// fail on a worn cell; the only way to notice is reading the byte back.
type Memory interface {
	ByteAt(addr uint32) byte
	SetByte(addr uint32, v byte)
	Unlock()
	Lock()
}

// Region is the address range [Base, End) reserved for the seed.
type Region struct {
	Base uint32
	End  uint32
}

func (r Region) Size() uint32 {
	return r.End - r.Base
}

func (r Region) Validate() error {
	if r.End <= r.Base {
		return errors.Errorf("region end %#x must be above base %#x", r.End, r.Base)
	}
	size := r.Size()
	if size < 2*firstSlot {
		return errors.Errorf("region of %d bytes cannot hold a pointer and a record", size)
	}
	if size%2 != 0 {
		return errors.Errorf("region size %d must be even", size)
	}
	if size > 0x10000 {
		return errors.Errorf("region size %d exceeds the 16-bit pointer", size)
	}
	return nil
}

type Store struct {
	mem    Memory
	region Region
}

func New(mem Memory, region Region) (*Store, error) {
	if err := region.Validate(); err != nil {
		return nil, errors.Wrap(err, "seed store")
	}
	return &Store{mem: mem, region: region}, nil
}

// Init opens the memory for writing and repairs a pointer left out of
// range or misaligned by an erased or corrupted region.
func (s *Store) Init() {
	s.mem.Unlock()

	ptr := s.Pointer()
	switch {
	case ptr < firstSlot || uint32(ptr) >= s.region.Size():
		logger.With(zap.Uint16("pointer", ptr)).Warn("Seed pointer out of range, resetting to first slot")
		s.writePointer(firstSlot)
	case ptr&1 != 0:
		logger.With(zap.Uint16("pointer", ptr)).Warn("Seed pointer misaligned, clearing low bit")
		s.mem.SetByte(s.region.Base+1, byte(ptr&0xFE))
	}
}

// Load returns the seed at the active slot.
func (s *Store) Load() uint16 {
	return s.read16(s.slotAddr())
}

// Save persists v. A failed read-back moves the record to the next slot
// and writes it there once, unverified.
func (s *Store) Save(v uint16) {
	addr := s.slotAddr()
	s.write16(addr, v)
	if s.read16(addr) == v {
		return
	}

	from := s.Pointer()
	next := s.nextSlot(from)
	logger.With(
		zap.Uint16("from", from),
		zap.Uint16("to", next),
		zap.Uint16("seed", v)).
		Warn("Seed record failed verification, relocating")

	s.writePointer(next)
	s.write16(s.region.Base+uint32(next), v)
}

// Deinit closes the write window for the rest of the run.
func (s *Store) Deinit() {
	s.mem.Lock()
}

// Pointer returns the stored offset of the active record.
func (s *Store) Pointer() uint16 {
	return s.read16(s.region.Base)
}

func (s *Store) Region() Region {
	return s.region
}

func (s *Store) nextSlot(ptr uint16) uint16 {
	next := uint32(ptr) + 2
	if next+2 > s.region.Size() {
		return firstSlot
	}
	return uint16(next)
}

func (s *Store) slotAddr() uint32 {
	return s.region.Base + uint32(s.Pointer())
}

func (s *Store) writePointer(ptr uint16) {
	s.write16(s.region.Base, ptr)
}

func (s *Store) read16(addr uint32) uint16 {
	return uint16(s.mem.ByteAt(addr))<<8 | uint16(s.mem.ByteAt(addr+1))
}

func (s *Store) write16(addr uint32, v uint16) {
	s.mem.SetByte(addr, byte(v>>8))
	s.mem.SetByte(addr+1, byte(v))
}
