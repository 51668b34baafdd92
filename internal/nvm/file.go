package nvm

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// File is an Image whose accepted writes go straight through to a file.
type File struct {
	*Image
	path string
	f    *os.File
}

// Open maps the image at path, creating an erased one when the file is
// missing or empty. A file of any other size than size is rejected.
func Open(path string, base uint32, size int, opts ...Option) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open eeprom image %s", path)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat eeprom image %s", path)
	}

	img := NewImage(base, size, opts...)
	switch info.Size() {
	case 0:
		if _, err := f.WriteAt(img.data, 0); err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "format eeprom image %s", path)
		}
		logger.With(zap.String("path", path), zap.Int("size", size)).Info("Created erased EEPROM image")
	case int64(size):
		if _, err := io.ReadFull(io.NewSectionReader(f, 0, int64(size)), img.data); err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "read eeprom image %s", path)
		}
	default:
		f.Close()
		return nil, errors.Errorf("eeprom image %s is %d bytes, want %d", path, info.Size(), size)
	}

	img.persist = func(off int, v byte) error {
		_, err := f.WriteAt([]byte{v}, int64(off))
		return err
	}

	return &File{Image: img, path: path, f: f}, nil
}

// Lock closes the write window and flushes the file.
func (m *File) Lock() {
	m.Image.Lock()
	if err := m.f.Sync(); err != nil {
		logger.With(zap.String("path", m.path), zap.Error(err)).Warn("Failed to sync EEPROM image")
	}
}

func (m *File) Path() string {
	return m.path
}

func (m *File) Close() error {
	return errors.Wrapf(m.f.Close(), "close eeprom image %s", m.path)
}
