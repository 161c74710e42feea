package mnemonic

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/Davincible/seedphrase/pkg/secure"
	"github.com/zeebo/blake3"
)

// minDigestSize is the smallest digest a ChecksumFunc may return. The
// longest checksum is 8 bits, but only hashes with at least 256-bit output
// are accepted.
const minDigestSize = 32

// ChecksumFunc hashes entropy. The leading ENT/32 bits of its output form
// the phrase checksum.
type ChecksumFunc func(data []byte) []byte

// SHA256Checksum is the BIP39 checksum hash.
func SHA256Checksum(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// Blake3Checksum uses BLAKE3-256. Phrases produced with it are not
// interoperable with BIP39 wallets.
func Blake3Checksum(data []byte) []byte {
	h := blake3.Sum256(data)
	return h[:]
}

// ChecksumFuncByName resolves "sha256" (or "") and "blake3".
func ChecksumFuncByName(name string) (ChecksumFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sha256":
		return SHA256Checksum, nil
	case "blake3":
		return Blake3Checksum, nil
	default:
		return nil, fmt.Errorf("unsupported checksum hash %q", name)
	}
}

// ChecksumBitsForEntropyBits returns ENT/32.
func ChecksumBitsForEntropyBits(entropyBits int) int {
	return entropyBits / 32
}

// checksumBits returns the leading n bits of sum(entropy), right-aligned.
func checksumBits(sum ChecksumFunc, entropy []byte, n int) (uint32, error) {
	digest := sum(entropy)
	defer secure.Zero(digest)

	if len(digest) < minDigestSize {
		return 0, &DigestSizeError{Size: len(digest)}
	}
	return newBitReader(digest, n).readBits(n), nil
}
