package exec

import "bytes"

// TruncationMarker is appended to a captured stream that exceeded the
// configured size limit.
const TruncationMarker = "\n... [output truncated]"

// cappedBuffer accumulates up to max bytes and silently discards the rest.
// Overflow never fails the write: output volume must not abort an execution.
// Each stream gets its own buffer, so no locking is needed.
type cappedBuffer struct {
	buf       bytes.Buffer
	max       int64
	truncated bool
}

// newCappedBuffer creates a buffer capped at max bytes. Zero or negative
// means unlimited.
func newCappedBuffer(max int64) *cappedBuffer {
	return &cappedBuffer{max: max}
}

// Write stores p up to the cap. It always reports full consumption so the
// writing side keeps draining the pipe.
func (b *cappedBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if b.max <= 0 {
		b.buf.Write(p)
		return n, nil
	}

	remaining := b.max - int64(b.buf.Len())
	switch {
	case remaining <= 0:
		b.truncated = true
	case int64(n) > remaining:
		b.buf.Write(p[:remaining])
		b.truncated = true
	default:
		b.buf.Write(p)
	}
	return n, nil
}

// Contents returns the captured bytes, with the truncation marker appended
// when the cap was hit, and whether truncation occurred.
func (b *cappedBuffer) Contents() ([]byte, bool) {
	if !b.truncated {
		return b.buf.Bytes(), false
	}
	out := make([]byte, 0, b.buf.Len()+len(TruncationMarker))
	out = append(out, b.buf.Bytes()...)
	out = append(out, TruncationMarker...)
	return out, true
}
