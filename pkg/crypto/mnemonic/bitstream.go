package mnemonic

import "github.com/Davincible/seedphrase/pkg/secure"

// bitWriter appends bits MSB-first into a fixed buffer, tracking a global
// bit offset so groups may straddle byte boundaries.
type bitWriter struct {
	buf []byte
	off int
}

func newBitWriter(capacityBits int) *bitWriter {
	return &bitWriter{buf: make([]byte, (capacityBits+7)/8)}
}

// writeBits appends the low width bits of v, most significant first.
func (w *bitWriter) writeBits(v uint32, width int) {
	for i := width - 1; i >= 0; i-- {
		if v>>uint(i)&1 == 1 {
			w.buf[w.off/8] |= 0x80 >> uint(w.off%8)
		}
		w.off++
	}
}

func (w *bitWriter) writeBytes(b []byte) {
	for _, c := range b {
		w.writeBits(uint32(c), 8)
	}
}

// len returns the number of bits written.
func (w *bitWriter) len() int { return w.off }

func (w *bitWriter) bytes() []byte { return w.buf }

func (w *bitWriter) wipe() {
	secure.Zero(w.buf)
	w.off = 0
}

// bitReader consumes bits MSB-first from the first size bits of buf.
type bitReader struct {
	buf  []byte
	off  int
	size int
}

func newBitReader(buf []byte, size int) *bitReader {
	if size > len(buf)*8 {
		panic("mnemonic: bit reader size exceeds buffer")
	}
	return &bitReader{buf: buf, size: size}
}

// readBits returns the next width bits right-aligned. width must not
// exceed 32 or the remaining bit count.
func (r *bitReader) readBits(width int) uint32 {
	if width > 32 || width > r.remaining() {
		panic("mnemonic: read past end of bitstream")
	}

	var v uint32
	for i := 0; i < width; i++ {
		bit := r.buf[r.off/8] >> uint(7-r.off%8) & 1
		v = v<<1 | uint32(bit)
		r.off++
	}
	return v
}

func (r *bitReader) remaining() int { return r.size - r.off }
