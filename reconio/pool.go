package reconio

import "sync"

// BufferPool hands out scratch []byte buffers sized for one record kind's
// typical payload (spec.md §5: "Buffer sizes per handler are tuned per
// record kind, typical sizes 256 B to 64 KiB"). Acquire/Release is scoped
// per record read: handlers.readBody acquires one buffer for each record
// and releases it on every exit path, including error; no buffer is held
// across a handler's whole enumeration. This mirrors the teacher's single reused
// decoder.buf field generalized to a pool since handlers run their own
// independent enumerations rather than one shared decoder.
type BufferPool struct {
	capacity int
	pool     sync.Pool
}

// NewBufferPool creates a pool whose buffers have the given capacity.
// Records whose data exceeds capacity are truncated to it; this is an
// intentional trade-off matching the engine's own limits (spec.md §5).
func NewBufferPool(capacity int) *BufferPool {
	return &BufferPool{
		capacity: capacity,
		pool: sync.Pool{
			New: func() any {
				b := make([]byte, capacity)
				return &b
			},
		},
	}
}

// Acquire returns a buffer of exactly p.capacity bytes. Callers must call
// Release when done, on every exit path.
func (p *BufferPool) Acquire() *[]byte {
	return p.pool.Get().(*[]byte)
}

// Release returns buf to the pool.
func (p *BufferPool) Release(buf *[]byte) {
	p.pool.Put(buf)
}

// Capacity returns the fixed buffer size this pool hands out.
func (p *BufferPool) Capacity() int {
	return p.capacity
}

// Standard pool capacities per spec.md §5's "typical sizes 256 B to 64 KiB"
// range. Handlers pick the pool matching their record kind's usual size;
// there is no single global pool because contention between a 64 KiB
// buffer and a 256 B global-variable buffer would otherwise
// force every handler to pay for the largest kind's footprint.
var (
	SmallBufferPool  = NewBufferPool(256)
	MediumBufferPool = NewBufferPool(4096)
	LargeBufferPool  = NewBufferPool(65536)
)
