package directory

import (
	"math"
	"syscall"
)

const (
	// initialNameCapacity is the number of name slots reserved before the
	// first entry is read.
	initialNameCapacity = 15

	// nameCapacityGrowthFactor multiplies the capacity each time the name
	// sequence fills up.
	nameCapacityGrowthFactor = 2
)

// maxNameCapacity bounds the name sequence. Tests lower it to exercise
// AllocationFailure.
var maxNameCapacity = math.MaxInt32

// nameBuffer accumulates names in enumeration order with an explicit
// capacity policy.
type nameBuffer struct {
	names []string
}

func newNameBuffer() *nameBuffer {
	return &nameBuffer{names: make([]string, 0, min(initialNameCapacity, maxNameCapacity))}
}

func (b *nameBuffer) append(name string) error {
	if len(b.names) == cap(b.names) {
		if err := b.grow(); err != nil {
			return err
		}
	}
	b.names = append(b.names, name)
	return nil
}

func (b *nameBuffer) grow() error {
	current := cap(b.names)
	if current >= maxNameCapacity {
		return newError(AllocationFailure, syscall.ENOMEM)
	}
	next := current * nameCapacityGrowthFactor
	if next > maxNameCapacity || next <= current {
		next = maxNameCapacity
	}
	grown := make([]string, len(b.names), next)
	copy(grown, b.names)
	clear(b.names)
	b.names = grown
	return nil
}

func (b *nameBuffer) discard() {
	clear(b.names)
	b.names = nil
}

// listing hands the accumulated names over to a Listing. The buffer must
// not be used afterwards.
func (b *nameBuffer) listing() *Listing {
	names := b.names
	b.names = nil
	if len(names) == 0 {
		return &Listing{}
	}
	return &Listing{names: names}
}

// Listing is the ordered set of names found in a directory, excluding "."
// and "..". Order is whatever the operating system returned.
//
// A Listing belongs to the caller until Release is called. The empty
// Listing has no backing storage.
type Listing struct {
	names []string
}

// Len returns the number of names.
func (l *Listing) Len() int {
	if l == nil {
		return 0
	}
	return len(l.names)
}

// At returns the i-th name.
func (l *Listing) At(i int) string {
	return l.names[i]
}

// Names returns a copy of the names.
func (l *Listing) Names() []string {
	if l.IsEmpty() {
		return nil
	}
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// IsEmpty reports whether the listing holds no names.
func (l *Listing) IsEmpty() bool {
	return l.Len() == 0
}

// Release drops every name. It is safe to call on the empty value, on a
// nil Listing and more than once.
func (l *Listing) Release() {
	if l == nil || l.names == nil {
		return
	}
	clear(l.names)
	l.names = nil
}

// Entry pairs a directory entry name with the metadata observed for it.
type Entry struct {
	Name     string
	Metadata Metadata
}

// Snapshot is the result of ReadContents: every entry that still existed
// when its metadata was queried, in enumeration order.
type Snapshot struct {
	entries  []Entry
	vanished int
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// At returns the i-th entry.
func (s *Snapshot) At(i int) Entry {
	return s.entries[i]
}

// Entries returns a copy of the entries.
func (s *Snapshot) Entries() []Entry {
	if s.IsEmpty() {
		return nil
	}
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Names returns the entry names in order.
func (s *Snapshot) Names() []string {
	if s.IsEmpty() {
		return nil
	}
	out := make([]string, len(s.entries))
	for i := range s.entries {
		out[i] = s.entries[i].Name
	}
	return out
}

// Vanished returns how many enumerated names disappeared before their
// metadata could be read.
func (s *Snapshot) Vanished() int {
	if s == nil {
		return 0
	}
	return s.vanished
}

// IsEmpty reports whether the snapshot holds no entries.
func (s *Snapshot) IsEmpty() bool {
	return s.Len() == 0
}

// Release drops every entry. Like Listing.Release it is idempotent and
// safe on the empty value.
func (s *Snapshot) Release() {
	if s == nil || s.entries == nil {
		return
	}
	clear(s.entries)
	s.entries = nil
}
