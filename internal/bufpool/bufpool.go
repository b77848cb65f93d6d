// Package bufpool provides a sync.Pool of reusable byte slices sized
// for one AVTPDU frame, so the hot send path (every Controller/Talker/
// Listener transmit, including AECP retries) does not allocate a fresh
// buffer on every call.
package bufpool

import "sync"

// frameCapacity comfortably covers the largest AVTPDU frame this
// engine builds (a full READ_DESCRIPTOR response never exceeds a few
// hundred bytes; 1500 leaves headroom without chasing the Ethernet
// jumbo-frame case this engine does not support).
const frameCapacity = 1500

var pool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, frameCapacity)
		return &b
	},
}

// Get returns a zero-length buffer with at least frameCapacity of
// backing capacity. Callers must return it with Put once the bytes are
// no longer needed.
func Get() *[]byte {
	return pool.Get().(*[]byte)
}

// Put returns buf to the pool. Callers must not use buf, or any slice
// derived from it, after calling Put.
func Put(buf *[]byte) {
	*buf = (*buf)[:0]
	pool.Put(buf)
}
