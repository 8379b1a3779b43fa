package scan

import (
	"time"

	"github.com/marmos91/dirsnap/pkg/directory"
)

// Operation names a kind of scan.
type Operation string

const (
	// OperationNames lists entry names only.
	OperationNames Operation = "names"
	// OperationContents lists entries with their metadata.
	OperationContents Operation = "contents"
)

// Entry is the serializable view of a directory entry. Metadata is nil for
// names-only scans.
type Entry struct {
	Name     string         `json:"name" yaml:"name"`
	Metadata *EntryMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// EntryMetadata is the no-follow metadata captured for an entry.
type EntryMetadata struct {
	Type       string    `json:"type" yaml:"type"`
	Mode       string    `json:"mode" yaml:"mode"`
	RawMode    uint32    `json:"raw_mode" yaml:"raw_mode"`
	Size       int64     `json:"size" yaml:"size"`
	ModifiedAt time.Time `json:"modified_at" yaml:"modified_at"`
	AccessedAt time.Time `json:"accessed_at" yaml:"accessed_at"`
	ChangedAt  time.Time `json:"changed_at" yaml:"changed_at"`
	Links      uint64    `json:"links" yaml:"links"`
	UID        uint32    `json:"uid" yaml:"uid"`
	GID        uint32    `json:"gid" yaml:"gid"`
	Device     uint64    `json:"device" yaml:"device"`
	Inode      uint64    `json:"inode" yaml:"inode"`
}

// Result is the outcome of a successful scan.
type Result struct {
	ID        string    `json:"id" yaml:"id"`
	Path      string    `json:"path" yaml:"path"`
	Operation Operation `json:"operation" yaml:"operation"`
	Entries   []Entry   `json:"entries" yaml:"entries"`
	// Vanished counts entries removed between enumeration and their
	// metadata query. Always zero for names-only scans.
	Vanished   int       `json:"vanished" yaml:"vanished"`
	Attempts   int       `json:"attempts" yaml:"attempts"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	DurationMs float64   `json:"duration_ms" yaml:"duration_ms"`
}

// TypeName returns a lowercase name for the file type bits of mode.
func TypeName(mode directory.Mode) string {
	switch mode.Type() {
	case directory.ModeTypeFile:
		return "file"
	case directory.ModeTypeDirectory:
		return "directory"
	case directory.ModeTypeSymbolicLink:
		return "symlink"
	case directory.ModeTypeFIFO:
		return "fifo"
	case directory.ModeTypeSocket:
		return "socket"
	case directory.ModeTypeBlockDevice:
		return "block_device"
	case directory.ModeTypeCharDevice:
		return "char_device"
	default:
		return "unknown"
	}
}

func newEntryMetadata(m directory.Metadata) *EntryMetadata {
	return &EntryMetadata{
		Type:       TypeName(m.Mode),
		Mode:       m.Mode.FileMode().String(),
		RawMode:    uint32(m.Mode),
		Size:       m.Size,
		ModifiedAt: m.ModificationTime,
		AccessedAt: m.AccessTime,
		ChangedAt:  m.ChangeTime,
		Links:      m.LinkCount,
		UID:        m.UserID,
		GID:        m.GroupID,
		Device:     m.DeviceID,
		Inode:      m.FileID,
	}
}

func entriesFromListing(l *directory.Listing) []Entry {
	entries := make([]Entry, l.Len())
	for i := range entries {
		entries[i] = Entry{Name: l.At(i)}
	}
	return entries
}

func entriesFromSnapshot(s *directory.Snapshot) []Entry {
	entries := make([]Entry, s.Len())
	for i := range entries {
		e := s.At(i)
		entries[i] = Entry{Name: e.Name, Metadata: newEntryMetadata(e.Metadata)}
	}
	return entries
}
