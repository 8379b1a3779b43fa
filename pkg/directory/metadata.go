package directory

import (
	"io/fs"
	"time"
)

// Mode is a raw POSIX st_mode value: file type bits plus permission bits.
type Mode uint32

// File type bits, as found in st_mode.
const (
	ModeTypeMask         Mode = 0o170000
	ModeTypeDirectory    Mode = 0o040000
	ModeTypeFile         Mode = 0o100000
	ModeTypeSymbolicLink Mode = 0o120000
	ModeTypeFIFO         Mode = 0o010000
	ModeTypeSocket       Mode = 0o140000
	ModeTypeBlockDevice  Mode = 0o060000
	ModeTypeCharDevice   Mode = 0o020000

	ModePermissionsMask Mode = 0o777
	ModeSetuid          Mode = 0o4000
	ModeSetgid          Mode = 0o2000
	ModeSticky          Mode = 0o1000
)

// Type returns only the file type bits.
func (m Mode) Type() Mode {
	return m & ModeTypeMask
}

// Perm returns only the permission bits.
func (m Mode) Perm() Mode {
	return m & ModePermissionsMask
}

func (m Mode) IsDir() bool          { return m.Type() == ModeTypeDirectory }
func (m Mode) IsRegular() bool      { return m.Type() == ModeTypeFile }
func (m Mode) IsSymbolicLink() bool { return m.Type() == ModeTypeSymbolicLink }

// FileMode converts to the portable io/fs representation.
func (m Mode) FileMode() fs.FileMode {
	mode := fs.FileMode(m.Perm())
	switch m.Type() {
	case ModeTypeDirectory:
		mode |= fs.ModeDir
	case ModeTypeSymbolicLink:
		mode |= fs.ModeSymlink
	case ModeTypeFIFO:
		mode |= fs.ModeNamedPipe
	case ModeTypeSocket:
		mode |= fs.ModeSocket
	case ModeTypeBlockDevice:
		mode |= fs.ModeDevice
	case ModeTypeCharDevice:
		mode |= fs.ModeDevice | fs.ModeCharDevice
	case ModeTypeFile:
	default:
		mode |= fs.ModeIrregular
	}
	if m&ModeSetuid != 0 {
		mode |= fs.ModeSetuid
	}
	if m&ModeSetgid != 0 {
		mode |= fs.ModeSetgid
	}
	if m&ModeSticky != 0 {
		mode |= fs.ModeSticky
	}
	return mode
}

// Metadata is the information captured for a single entry without
// following symbolic links.
type Metadata struct {
	// Mode is the raw st_mode value.
	Mode Mode
	// Size is the size in bytes. For symbolic links it is the length of the
	// target path.
	Size int64
	// ModificationTime is the last content modification time.
	ModificationTime time.Time
	AccessTime       time.Time
	// ChangeTime is the last inode change time.
	ChangeTime time.Time
	LinkCount  uint64
	UserID     uint32
	GroupID    uint32
	// DeviceID is the device containing the entry.
	DeviceID uint64
	// FileID is the inode number.
	FileID uint64
}
