// Package directory takes point-in-time snapshots of a single directory's
// immediate children.
//
// ReadNames lists entry names. ReadContents additionally captures no-follow
// metadata for every name, silently dropping entries that are removed by
// another process between enumeration and the metadata query. Both work on
// a handle the caller already opened and never move that handle's cursor.
//
// Results are owned by the caller and released with Release. The package
// keeps no references to them and does not log.
package directory

import (
	"errors"
	"io/fs"
	"syscall"
)

const (
	// DefaultBufferSize is the size of the buffer raw directory entries are
	// read into.
	DefaultBufferSize = 32 * 1024

	// MinBufferSize is the smallest buffer able to hold any single entry.
	MinBufferSize = 4 * 1024
)

// Handle is an open directory owned by the caller. *os.File satisfies it.
// The handle is only borrowed for the duration of a call.
type Handle interface {
	SyscallConn() (syscall.RawConn, error)
}

// FD adapts a raw descriptor to Handle. The caller must keep the
// descriptor open for the duration of the call.
type FD int

func (fd FD) SyscallConn() (syscall.RawConn, error) {
	return rawConn(fd), nil
}

type rawConn int

func (c rawConn) Control(f func(fd uintptr)) error {
	f(uintptr(c))
	return nil
}

func (c rawConn) Read(f func(fd uintptr) bool) error {
	f(uintptr(c))
	return nil
}

func (c rawConn) Write(f func(fd uintptr) bool) error {
	f(uintptr(c))
	return nil
}

// StatFunc resolves metadata for name relative to the directory descriptor
// dirfd without following a trailing symbolic link. An error matching
// fs.ErrNotExist means the entry no longer exists.
type StatFunc func(dirfd int, name string) (Metadata, error)

// Options tunes a Reader. The zero value is ready to use.
type Options struct {
	// BufferSize is the raw entry buffer size. Values below MinBufferSize
	// are raised to it; zero selects DefaultBufferSize.
	BufferSize int

	// Stat replaces the metadata query used by ReadContents. Defaults to
	// StatAt.
	Stat StatFunc

	// OnEnumerated is called by ReadContents with a copy of the names once
	// enumeration has finished and before any metadata is queried.
	OnEnumerated func(names []string)
}

// Reader reads directory snapshots. A Reader holds no per-call state and
// may be used from multiple goroutines.
type Reader struct {
	bufferSize   int
	stat         StatFunc
	onEnumerated func(names []string)
}

// NewReader creates a Reader from opts.
func NewReader(opts Options) *Reader {
	r := &Reader{
		bufferSize:   opts.BufferSize,
		stat:         opts.Stat,
		onEnumerated: opts.OnEnumerated,
	}
	switch {
	case r.bufferSize == 0:
		r.bufferSize = DefaultBufferSize
	case r.bufferSize < MinBufferSize:
		r.bufferSize = MinBufferSize
	}
	if r.stat == nil {
		r.stat = StatAt
	}
	return r
}

var defaultReader = NewReader(Options{})

// ReadNames lists the names in the directory behind h using default
// options. See Reader.ReadNames.
func ReadNames(h Handle) (*Listing, error) {
	return defaultReader.ReadNames(h)
}

// ReadContents lists the entries of the directory behind h together with
// their metadata using default options. See Reader.ReadContents.
func ReadContents(h Handle) (*Snapshot, error) {
	return defaultReader.ReadContents(h)
}

// ReadNames enumerates every entry in the directory behind h except "."
// and "..". On failure no partial listing is returned.
//
// The enumeration runs on a private descriptor. When the directory cannot
// be re-opened (for example because it lacks search permission) the
// private descriptor is a duplicate sharing h's file offset; the offset is
// restored afterwards but concurrent reads of the same handle must then be
// serialized by the caller.
func (r *Reader) ReadNames(h Handle) (*Listing, error) {
	var listing *Listing
	err := withDescriptor(h, func(fd int) error {
		var err error
		listing, err = r.readNames(fd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// ReadContents enumerates the directory behind h and queries metadata for
// each name. Entries that disappear before their metadata is read are
// skipped and counted in Snapshot.Vanished; any other metadata failure
// aborts the call with a StatFailure.
func (r *Reader) ReadContents(h Handle) (*Snapshot, error) {
	var snapshot *Snapshot
	err := withDescriptor(h, func(fd int) error {
		listing, err := r.readNames(fd)
		if err != nil {
			return err
		}
		defer listing.Release()

		if r.onEnumerated != nil {
			r.onEnumerated(listing.Names())
		}

		snapshot, err = r.resolve(fd, listing)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (r *Reader) resolve(dirfd int, listing *Listing) (*Snapshot, error) {
	if listing.IsEmpty() {
		return &Snapshot{}, nil
	}

	entries := make([]Entry, 0, listing.Len())
	vanished := 0
	for _, name := range listing.names {
		metadata, err := r.stat(dirfd, name)
		if errors.Is(err, fs.ErrNotExist) {
			vanished++
			continue
		}
		if err != nil {
			clear(entries)
			return nil, &Error{Code: StatFailure, Name: name, Err: err}
		}
		entries = append(entries, Entry{Name: name, Metadata: metadata})
	}

	if len(entries) == 0 {
		return &Snapshot{vanished: vanished}, nil
	}
	return &Snapshot{entries: entries, vanished: vanished}, nil
}

// withDescriptor runs f with h's descriptor, keeping it valid for the
// duration of f.
func withDescriptor(h Handle, f func(fd int) error) error {
	if h == nil {
		return newError(DuplicateFailure, syscall.EBADF)
	}
	conn, err := h.SyscallConn()
	if err != nil {
		return newError(DuplicateFailure, err)
	}
	var ferr error
	if err := conn.Control(func(fd uintptr) {
		ferr = f(int(fd))
	}); err != nil {
		return newError(DuplicateFailure, err)
	}
	return ferr
}
