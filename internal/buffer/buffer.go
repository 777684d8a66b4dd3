// Package buffer memory-maps an input file read-only and exposes it as a
// byte slice whose lifetime is bound to the Buffer (spec.md §4.1, C1).
package buffer

import (
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/theSprog/FlameCrafter/internal/errs"
	"github.com/theSprog/FlameCrafter/internal/flamelog"
)

// Buffer owns a read-only memory mapping of an input file.
type Buffer struct {
	file *os.File
	mm   mmap.MMap
}

// Open maps path read-only. The returned Buffer must be Closed.
func Open(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.FileNotFound, err, "open %q", path)
		}
		return nil, errs.Wrap(errs.IO, err, "open %q", path)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errs.Wrap(errs.IO, err, "stat %q", path)
	}

	if info.Size() == 0 {
		flamelog.Debugf("buffer: %q is empty", path)
		return &Buffer{file: f, mm: nil}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, errs.Wrap(errs.IO, err, "mmap %q", path)
	}

	flamelog.Debugf("buffer: mapped %q (%d bytes)", path, len(m))
	return &Buffer{file: f, mm: m}, nil
}

// Bytes returns the mapped view. It is valid only until Close is called.
func (b *Buffer) Bytes() []byte {
	if b.mm == nil {
		return nil
	}
	return b.mm
}

// Close unmaps the buffer and closes the underlying file handle. It is
// idempotent.
func (b *Buffer) Close() error {
	var mmErr error
	if b.mm != nil {
		mmErr = b.mm.Unmap()
		b.mm = nil
	}
	var fErr error
	if b.file != nil {
		fErr = b.file.Close()
		b.file = nil
	}
	if mmErr != nil {
		return errs.Wrap(errs.IO, mmErr, "unmap")
	}
	if fErr != nil {
		return errs.Wrap(errs.IO, fErr, "close")
	}
	return nil
}
