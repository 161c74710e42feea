package mnemonic

import (
	"crypto/subtle"
	"errors"
	"strings"
	"unicode"

	"github.com/Davincible/seedphrase/pkg/crypto/wordlist"
	"github.com/Davincible/seedphrase/pkg/secure"
)

const (
	MinEntropyBits = 128
	MaxEntropyBits = 256

	// BitsPerWord is the width of one wordlist index.
	BitsPerWord = 11
)

// Codec converts between entropy and phrases for a single wordlist and
// checksum hash. A Codec is immutable and safe for concurrent use.
type Codec struct {
	wordlist *wordlist.Wordlist
	checksum ChecksumFunc
}

type Option func(*Codec)

// WithChecksum replaces the SHA-256 checksum hash. Encoder and decoder must
// agree on the function.
func WithChecksum(fn ChecksumFunc) Option {
	return func(c *Codec) {
		c.checksum = fn
	}
}

func NewCodec(wl *wordlist.Wordlist, opts ...Option) (*Codec, error) {
	if wl == nil {
		return nil, errors.New("wordlist is required")
	}

	c := &Codec{
		wordlist: wl,
		checksum: SHA256Checksum,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.checksum == nil {
		return nil, errors.New("checksum function is required")
	}
	if n := len(c.checksum(make([]byte, MinEntropyBits/8))); n < minDigestSize {
		return nil, &DigestSizeError{Size: n}
	}

	return c, nil
}

func (c *Codec) Wordlist() *wordlist.Wordlist {
	return c.wordlist
}

// Encode turns entropy into a phrase of (ENT+CS)/11 words joined by the
// wordlist separator.
func (c *Codec) Encode(entropy []byte) (string, error) {
	if !ValidateEntropyLength(len(entropy)) {
		return "", &EntropyLengthError{Length: len(entropy)}
	}

	entropyBits := len(entropy) * 8
	csBits := ChecksumBitsForEntropyBits(entropyBits)
	totalBits := entropyBits + csBits

	w := newBitWriter(totalBits)
	defer w.wipe()

	cs, err := checksumBits(c.checksum, entropy, csBits)
	if err != nil {
		return "", err
	}

	w.writeBytes(entropy)
	w.writeBits(cs, csBits)

	r := newBitReader(w.bytes(), w.len())
	words := make([]string, totalBits/BitsPerWord)
	for i := range words {
		words[i] = c.wordlist.Word(int(r.readBits(BitsPerWord)))
	}

	return strings.Join(words, c.wordlist.Separator()), nil
}

// Decode recovers the entropy behind phrase. Words may be separated by any
// Unicode whitespace. On any error the returned slice is nil.
func (c *Codec) Decode(phrase string) ([]byte, error) {
	words := strings.FieldsFunc(phrase, unicode.IsSpace)
	if !ValidateWordCount(len(words)) {
		return nil, &WordCountError{Count: len(words)}
	}

	totalBits := len(words) * BitsPerWord
	w := newBitWriter(totalBits)
	defer w.wipe()

	for i, word := range words {
		idx, ok := c.wordlist.Index(word)
		if !ok {
			return nil, &UnknownWordError{Word: word, Position: i}
		}
		w.writeBits(uint32(idx), BitsPerWord)
	}

	// 33 bits of phrase carry 32 bits of entropy and 1 checksum bit.
	csBits := totalBits / 33
	entropyBits := totalBits - csBits

	r := newBitReader(w.bytes(), w.len())
	entropy := make([]byte, entropyBits/8)
	for i := range entropy {
		entropy[i] = byte(r.readBits(8))
	}

	got := r.readBits(csBits)
	want, err := checksumBits(c.checksum, entropy, csBits)
	if err != nil {
		secure.Zero(entropy)
		return nil, err
	}
	if subtle.ConstantTimeEq(int32(got), int32(want)) != 1 {
		secure.Zero(entropy)
		return nil, ErrChecksumMismatch
	}

	return entropy, nil
}

// Validate reports whether phrase decodes with a valid checksum.
func (c *Codec) Validate(phrase string) error {
	entropy, err := c.Decode(phrase)
	secure.Zero(entropy)
	return err
}

// Encode encodes entropy with wl and the BIP39 SHA-256 checksum.
func Encode(entropy []byte, wl *wordlist.Wordlist) (string, error) {
	c, err := NewCodec(wl)
	if err != nil {
		return "", err
	}
	return c.Encode(entropy)
}

// Decode decodes phrase with wl and the BIP39 SHA-256 checksum.
func Decode(phrase string, wl *wordlist.Wordlist) ([]byte, error) {
	c, err := NewCodec(wl)
	if err != nil {
		return nil, err
	}
	return c.Decode(phrase)
}

// Validate checks phrase against wl and the BIP39 SHA-256 checksum.
func Validate(phrase string, wl *wordlist.Wordlist) error {
	c, err := NewCodec(wl)
	if err != nil {
		return err
	}
	return c.Validate(phrase)
}

func ValidateEntropyLength(size int) bool {
	switch size {
	case 16, 20, 24, 28, 32:
		return true
	default:
		return false
	}
}

func ValidateWordCount(count int) bool {
	validCounts := []int{12, 15, 18, 21, 24}
	for _, valid := range validCounts {
		if count == valid {
			return true
		}
	}
	return false
}

func EntropyBitsFromWordCount(wordCount int) (int, error) {
	if !ValidateWordCount(wordCount) {
		return 0, &WordCountError{Count: wordCount}
	}
	return wordCount * BitsPerWord * 32 / 33, nil
}

func WordCountFromEntropyLength(size int) (int, error) {
	if !ValidateEntropyLength(size) {
		return 0, &EntropyLengthError{Length: size}
	}
	bits := size * 8
	return (bits + ChecksumBitsForEntropyBits(bits)) / BitsPerWord, nil
}
