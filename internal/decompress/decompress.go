// Package decompress wraps a compressed byte stream in a
// constant-memory decompressing io.Reader, per spec §2 and §6.
package decompress

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// Reader decompresses a zstd stream (multi-frame archives, as
// produced by concatenating monthly dumps, are handled transparently
// by the underlying decoder). Grounded on the teacher's own use of
// github.com/klauspost/compress/zstd in internal/store for L2 block
// compression.
type Reader struct {
	dec *zstd.Decoder
}

// New wraps r. Close must be called to release the decoder's
// background goroutines even though Reader does not own r.
func New(r io.Reader) (*Reader, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &Reader{dec: dec}, nil
}

func (z *Reader) Read(p []byte) (int, error) {
	return z.dec.Read(p)
}

// Close releases the decoder. It does not close the underlying
// reader: ownership of the byte source stays with its caller (spec §2
// "byte source" is a separate, cancellable component).
func (z *Reader) Close() {
	z.dec.Close()
}
