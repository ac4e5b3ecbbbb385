// Package bufpool pools the copy buffers used when streaming file bodies
// between the network and the disk.
//
//	n, err := bufpool.Copy(dst, src)
//
// A Pool hands out buffers of one fixed size. Buffers of any other length
// passed to Put are dropped.
package bufpool

import (
	"io"
	"sync"
)

// DefaultSize is the buffer size of the default pool (64KiB).
const DefaultSize = 64 << 10

// Pool is a pool of equally sized byte slices. Safe for concurrent use.
type Pool struct {
	size int
	pool sync.Pool
}

// NewPool creates a pool of size-byte buffers. A non-positive size means
// DefaultSize.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	p := &Pool{size: size}
	p.pool.New = func() any {
		buf := make([]byte, p.size)
		return &buf
	}
	return p
}

// Size returns the length of the pool's buffers.
func (p *Pool) Size() int {
	return p.size
}

// Get returns a buffer of exactly Size bytes. Return it with Put.
func (p *Pool) Get() []byte {
	return *p.pool.Get().(*[]byte)
}

// Put returns buf to the pool.
func (p *Pool) Put(buf []byte) {
	if cap(buf) != p.size {
		return
	}
	buf = buf[:p.size]
	p.pool.Put(&buf)
}

// Copy is io.Copy through a pooled buffer. dst's ReadFrom, if any, is
// bypassed so the pooled buffer is the one used.
func (p *Pool) Copy(dst io.Writer, src io.Reader) (int64, error) {
	buf := p.Get()
	defer p.Put(buf)
	return io.CopyBuffer(writerOnly{dst}, src, buf)
}

type writerOnly struct {
	io.Writer
}

var defaultPool = NewPool(DefaultSize)

// Get returns a buffer from the default pool.
func Get() []byte {
	return defaultPool.Get()
}

// Put returns a buffer to the default pool.
func Put(buf []byte) {
	defaultPool.Put(buf)
}

// Copy copies src to dst through a buffer from the default pool.
func Copy(dst io.Writer, src io.Reader) (int64, error) {
	return defaultPool.Copy(dst, src)
}
