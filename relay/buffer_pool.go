package relay

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/jpillora/sizestr"
)

const (
	// defaultInitialBufferSize is the starting capacity of pooled buffers.
	// Most JSON-RPC responses fit; large ones (e.g. debug traces) grow the buffer.
	defaultInitialBufferSize = 64 * 1024

	// maxPooledBufferSize keeps buffers grown by unusually large responses out of the pool.
	maxPooledBufferSize = 4 * 1024 * 1024

	// DefaultMaxResponseBodyBytes bounds a single upstream response body.
	DefaultMaxResponseBodyBytes = 16 * 1024 * 1024
)

// bufferPool recycles the buffers upstream response bodies are read into.
type bufferPool struct {
	pool          sync.Pool
	maxReaderSize int64
}

func newBufferPool(maxReaderSize int64) *bufferPool {
	if maxReaderSize <= 0 {
		maxReaderSize = DefaultMaxResponseBodyBytes
	}
	return &bufferPool{
		pool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, defaultInitialBufferSize))
			},
		},
		maxReaderSize: maxReaderSize,
	}
}

func (bp *bufferPool) getBuffer() *bytes.Buffer {
	buf := bp.pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func (bp *bufferPool) putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBufferSize {
		return
	}
	bp.pool.Put(buf)
}

// readAll reads r fully into a pooled buffer and returns an independent copy.
// It fails with ErrResponseTooLarge rather than truncating.
func (bp *bufferPool) readAll(r io.Reader) ([]byte, error) {
	buf := bp.getBuffer()
	defer bp.putBuffer(buf)

	// One byte past the limit tells a body of exactly maxReaderSize apart from a larger one.
	if _, err := buf.ReadFrom(io.LimitReader(r, bp.maxReaderSize+1)); err != nil {
		return nil, err
	}
	if int64(buf.Len()) > bp.maxReaderSize {
		return nil, fmt.Errorf("%w: limit is %s", ErrResponseTooLarge, sizestr.ToString(bp.maxReaderSize))
	}

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}
