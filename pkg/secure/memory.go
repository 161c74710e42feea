// Package secure holds helpers for handling secret bytes: wiping, constant
// time comparison and reading entropy from the operating system.
package secure

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
)

var ErrDestroyed = errors.New("secret already destroyed")

// Reader is the entropy source used by RandomEntropy. Tests may replace it.
var Reader io.Reader = rand.Reader

func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ZeroAll wipes every slice in bs.
func ZeroAll(bs ...[]byte) {
	for _, b := range bs {
		Zero(b)
	}
}

func ConstantTimeCompare(x, y []byte) bool {
	if len(x) != len(y) {
		return false
	}
	return subtle.ConstantTimeCompare(x, y) == 1
}

// RandomEntropy reads n bytes from Reader. It is the external entropy
// source for phrase generation; the codec itself never calls it.
func RandomEntropy(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid length: %d", n)
	}

	b := make([]byte, n)
	if _, err := io.ReadFull(Reader, b); err != nil {
		Zero(b)
		return nil, fmt.Errorf("failed to read entropy: %w", err)
	}
	return b, nil
}

// Bytes owns a secret buffer until Destroy wipes it. Own does not copy, so
// the caller hands over the slice and reads it back through Use or Hex.
type Bytes struct {
	mu   sync.Mutex
	data []byte
}

func Own(data []byte) *Bytes {
	return &Bytes{data: data}
}

// Use calls fn with the buffer while holding the lock. fn must not retain
// the slice.
func (b *Bytes) Use(fn func([]byte) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.data == nil {
		return ErrDestroyed
	}
	return fn(b.data)
}

func (b *Bytes) Hex() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return hex.EncodeToString(b.data)
}

func (b *Bytes) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Destroy wipes the buffer. It is safe to call more than once.
func (b *Bytes) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	Zero(b.data)
	b.data = nil
}
