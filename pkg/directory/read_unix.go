//go:build linux || darwin

package directory

import (
	"io"

	"github.com/marmos91/dirsnap/pkg/bufpool"
	"golang.org/x/sys/unix"
)

// Stream syscalls. Tests replace them to inject failures.
var (
	readDirent      = unix.ReadDirent
	closeDescriptor = unix.Close
)

func (r *Reader) readNames(dirfd int) (*Listing, error) {
	s, err := openStream(dirfd, r.bufferSize)
	if err != nil {
		return nil, err
	}

	names := newNameBuffer()
	if err := s.readAll(names); err != nil {
		names.discard()
		_ = s.close()
		return nil, err
	}
	if err := s.close(); err != nil {
		names.discard()
		return nil, err
	}
	return names.listing(), nil
}

// stream iterates the raw entries of a private directory descriptor.
type stream struct {
	fd int

	// shared is set when fd shares its file offset with the caller's
	// handle. origin is the caller's offset to restore on close.
	shared bool
	origin int64

	buf     []byte
	scratch []string
}

func openStream(dirfd int, bufferSize int) (*stream, error) {
	fd, shared, err := duplicate(dirfd)
	if err != nil {
		return nil, err
	}

	var st unix.Stat_t
	if err := ignoringEINTR(func() error { return unix.Fstat(fd, &st) }); err != nil {
		_ = unix.Close(fd)
		return nil, newError(OpenStreamFailure, err)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFDIR {
		_ = unix.Close(fd)
		return nil, newError(OpenStreamFailure, unix.ENOTDIR)
	}

	s := &stream{fd: fd, shared: shared}
	if shared {
		origin, err := unix.Seek(fd, 0, io.SeekCurrent)
		if err != nil {
			_ = unix.Close(fd)
			return nil, newError(OpenStreamFailure, err)
		}
		if _, err := unix.Seek(fd, 0, io.SeekStart); err != nil {
			_ = unix.Close(fd)
			return nil, newError(OpenStreamFailure, err)
		}
		s.origin = origin
	}
	s.buf = bufpool.Get(bufferSize)
	return s, nil
}

// readAll appends every name to names until the stream is exhausted.
func (s *stream) readAll(names *nameBuffer) error {
	for {
		var n int
		err := ignoringEINTR(func() error {
			var err error
			n, err = readDirent(s.fd, s.buf)
			return err
		})
		if err != nil {
			return newError(ReadFailure, err)
		}
		if n <= 0 {
			return nil
		}

		_, _, s.scratch = unix.ParseDirent(s.buf[:n], -1, s.scratch[:0])
		for _, name := range s.scratch {
			if name == "." || name == ".." {
				continue
			}
			if err := names.append(name); err != nil {
				return err
			}
		}
	}
}

// close rewinds the stream and releases the descriptor. In shared mode the
// caller's original offset is put back instead.
func (s *stream) close() error {
	var offset int64
	if s.shared {
		offset = s.origin
	}
	_, seekErr := unix.Seek(s.fd, offset, io.SeekStart)
	closeErr := closeDescriptor(s.fd)
	s.fd = -1
	bufpool.Put(s.buf)
	s.buf = nil
	clear(s.scratch)
	s.scratch = nil

	if closeErr != nil {
		return newError(CloseFailure, closeErr)
	}
	if s.shared && seekErr != nil {
		return newError(CloseFailure, seekErr)
	}
	return nil
}

// StatAt queries metadata for name relative to dirfd without following a
// trailing symbolic link.
func StatAt(dirfd int, name string) (Metadata, error) {
	var st unix.Stat_t
	err := ignoringEINTR(func() error {
		return unix.Fstatat(dirfd, name, &st, unix.AT_SYMLINK_NOFOLLOW)
	})
	if err != nil {
		return Metadata{}, err
	}
	return metadataFromStat(&st), nil
}

func ignoringEINTR(fn func() error) error {
	for {
		err := fn()
		if err != unix.EINTR {
			return err
		}
	}
}
