package wazero

import "bytes"

// DefaultMaxOutputSize bounds the captured stdout and stderr of one run (1 MiB).
const DefaultMaxOutputSize = 1 << 20

// boundedBuffer captures guest output up to limit bytes and drops the rest.
type boundedBuffer struct {
	buffer    bytes.Buffer
	limit     int
	truncated bool
}

func newBoundedBuffer(limit int) *boundedBuffer {
	return &boundedBuffer{limit: limit}
}

// Write never fails short, so the guest does not see an error from fd_write.
func (b *boundedBuffer) Write(p []byte) (int, error) {
	remaining := b.limit - b.buffer.Len()
	if remaining <= 0 {
		b.truncated = len(p) > 0 || b.truncated
		return len(p), nil
	}
	if len(p) > remaining {
		b.truncated = true
		if _, err := b.buffer.Write(p[:remaining]); err != nil {
			return 0, err
		}
		return len(p), nil
	}
	return b.buffer.Write(p)
}

func (b *boundedBuffer) Bytes() []byte { return b.buffer.Bytes() }
