// Package bufpool recycles the byte slices raw directory entries are read
// into.
//
// Buffers come in three size classes. The small class matches the minimum
// entry buffer, the medium class the default one and the large class covers
// generously configured readers. Requests above the large class are
// allocated directly and never pooled.
//
// All operations are safe for concurrent use.
//
//	buf := bufpool.Get(size)
//	defer bufpool.Put(buf)
package bufpool

import (
	"slices"
	"sync"
)

// Default size classes.
const (
	DefaultSmallSize  = 4 << 10
	DefaultMediumSize = 32 << 10
	DefaultLargeSize  = 1 << 20
)

// Pool hands out buffers from one of three size classes.
type Pool struct {
	classes [3]class
}

type class struct {
	size int
	pool sync.Pool
}

// Config holds the size classes of a Pool. Zero values select the defaults.
type Config struct {
	SmallSize  int
	MediumSize int
	LargeSize  int
}

// DefaultConfig returns the default size classes.
func DefaultConfig() Config {
	return Config{
		SmallSize:  DefaultSmallSize,
		MediumSize: DefaultMediumSize,
		LargeSize:  DefaultLargeSize,
	}
}

// NewPool creates a pool. A nil cfg selects DefaultConfig. Sizes are
// ordered ascending, so classes given out of order still serve each
// request from the smallest class that fits.
func NewPool(cfg *Config) *Pool {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.SmallSize > 0 {
			c.SmallSize = cfg.SmallSize
		}
		if cfg.MediumSize > 0 {
			c.MediumSize = cfg.MediumSize
		}
		if cfg.LargeSize > 0 {
			c.LargeSize = cfg.LargeSize
		}
	}

	sizes := []int{c.SmallSize, c.MediumSize, c.LargeSize}
	slices.Sort(sizes)

	p := &Pool{}
	for i, size := range sizes {
		size := size
		p.classes[i].size = size
		p.classes[i].pool.New = func() any {
			buf := make([]byte, size)
			return &buf
		}
	}
	return p
}

// Get returns a slice of length size. Its capacity may be larger when it
// is backed by a pooled buffer. Pair every Get with a Put.
func (p *Pool) Get(size int) []byte {
	for i := range p.classes {
		c := &p.classes[i]
		if size <= c.size {
			buf := *c.pool.Get().(*[]byte)
			return buf[:size]
		}
	}
	return make([]byte, size)
}

// Put returns buf to its size class. Buffers whose capacity matches no
// class are left to the garbage collector. buf must not be used afterwards.
func (p *Pool) Put(buf []byte) {
	if buf == nil {
		return
	}
	for i := range p.classes {
		c := &p.classes[i]
		if cap(buf) == c.size {
			full := buf[:c.size]
			c.pool.Put(&full)
			return
		}
	}
}

var globalPool = NewPool(nil)

// Get returns a buffer of length size from the package pool.
func Get(size int) []byte {
	return globalPool.Get(size)
}

// Put returns buf to the package pool.
func Put(buf []byte) {
	globalPool.Put(buf)
}
