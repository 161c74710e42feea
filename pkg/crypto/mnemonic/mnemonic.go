// Package mnemonic encodes entropy as checksummed word phrases, validates
// and reverses that encoding, and derives 64-byte seeds from phrases.
//
// The default codec follows BIP39 exactly: SHA-256 checksum of ENT/32 bits
// appended to the entropy, 11-bit MSB-first groups, and
// PBKDF2-HMAC-SHA512 with 2048 iterations over NFKD-normalized text.
package mnemonic

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/Davincible/seedphrase/pkg/crypto/normalize"
	"github.com/Davincible/seedphrase/pkg/crypto/wordlist"
	"github.com/Davincible/seedphrase/pkg/secure"
)

// Mnemonic is a checksum-verified phrase in canonical form: normalized
// words joined by the wordlist separator.
type Mnemonic struct {
	words []string
	codec *Codec
}

// FromEntropy encodes entropy with the default codec for wl.
func FromEntropy(entropy []byte, wl *wordlist.Wordlist) (*Mnemonic, error) {
	c, err := NewCodec(wl)
	if err != nil {
		return nil, err
	}
	return c.FromEntropy(entropy)
}

// FromPhrase validates phrase with the default codec for wl.
func FromPhrase(phrase string, wl *wordlist.Wordlist) (*Mnemonic, error) {
	c, err := NewCodec(wl)
	if err != nil {
		return nil, err
	}
	return c.Parse(phrase)
}

func (c *Codec) FromEntropy(entropy []byte) (*Mnemonic, error) {
	phrase, err := c.Encode(entropy)
	if err != nil {
		return nil, err
	}
	return &Mnemonic{
		words: normalize.Fields(phrase),
		codec: c,
	}, nil
}

// Parse validates phrase and returns it in canonical form.
func (c *Codec) Parse(phrase string) (*Mnemonic, error) {
	if err := c.Validate(phrase); err != nil {
		return nil, err
	}
	return &Mnemonic{
		words: normalize.Fields(phrase),
		codec: c,
	}, nil
}

// Phrase returns the words joined by the wordlist separator.
func (m *Mnemonic) Phrase() string {
	return strings.Join(m.words, m.codec.wordlist.Separator())
}

func (m *Mnemonic) String() string {
	return m.Phrase()
}

func (m *Mnemonic) WordList() []string {
	result := make([]string, len(m.words))
	copy(result, m.words)
	return result
}

func (m *Mnemonic) WordCount() int {
	return len(m.words)
}

func (m *Mnemonic) Language() string {
	return m.codec.wordlist.Language()
}

// Entropy decodes the phrase again. The caller owns and should wipe the
// result.
func (m *Mnemonic) Entropy() ([]byte, error) {
	return m.codec.Decode(m.Phrase())
}

// Fingerprint is the hex of the first 4 bytes of SHA-256(entropy). It lets a
// user recognise a backup without revealing it.
func (m *Mnemonic) Fingerprint() (string, error) {
	entropy, err := m.Entropy()
	if err != nil {
		return "", err
	}
	defer secure.Zero(entropy)

	h := sha256.Sum256(entropy)
	return hex.EncodeToString(h[:4]), nil
}

// Equal compares canonical phrases in constant time.
func (m *Mnemonic) Equal(other *Mnemonic) bool {
	if other == nil {
		return false
	}
	return secure.ConstantTimeCompare([]byte(m.Phrase()), []byte(other.Phrase()))
}

// SecureCompareWords reports whether two phrases hold the same normalized
// words, ignoring whitespace differences. Every word is compared.
func SecureCompareWords(a, b string) bool {
	aWords := normalize.Fields(a)
	bWords := normalize.Fields(b)

	if len(aWords) != len(bWords) {
		return false
	}

	match := true
	for i := range aWords {
		if !secure.ConstantTimeCompare([]byte(aWords[i]), []byte(bWords[i])) {
			match = false
		}
	}
	return match
}
