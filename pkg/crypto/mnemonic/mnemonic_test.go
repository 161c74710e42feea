package mnemonic

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Davincible/seedphrase/pkg/crypto/wordlist"
)

func TestFromEntropy(t *testing.T) {
	tests := []struct {
		name      string
		entropy   []byte
		wantWords int
		wantError bool
	}{
		{"16 bytes", make([]byte, 16), 12, false},
		{"20 bytes", make([]byte, 20), 15, false},
		{"24 bytes", make([]byte, 24), 18, false},
		{"28 bytes", make([]byte, 28), 21, false},
		{"32 bytes", make([]byte, 32), 24, false},
		{"Invalid: 15 bytes", make([]byte, 15), 0, true},
		{"Invalid: 33 bytes", make([]byte, 33), 0, true},
		{"Invalid: 18 bytes", make([]byte, 18), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := FromEntropy(tt.entropy, english)
			if tt.wantError {
				assert.ErrorIs(t, err, ErrInvalidEntropyLength)
				assert.Nil(t, m)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantWords, m.WordCount())
			assert.Equal(t, wordlist.English, m.Language())

			recovered, err := m.Entropy()
			require.NoError(t, err)
			assert.Equal(t, tt.entropy, recovered)
		})
	}
}

func TestFromPhrase(t *testing.T) {
	m, err := FromPhrase("  abandon abandon abandon abandon abandon abandon\n abandon abandon abandon abandon abandon about", english)
	require.NoError(t, err)
	assert.Equal(t, 12, m.WordCount())
	assert.Equal(t, referenceVectors[0].phrase, m.Phrase())
	assert.Equal(t, m.Phrase(), m.String())

	_, err = FromPhrase("invalid invalid invalid invalid invalid invalid invalid invalid invalid invalid invalid invalid", english)
	assert.ErrorIs(t, err, ErrUnknownWord)

	_, err = FromPhrase(repeatWords("abandon", 12, ""), english)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestMnemonicSeed(t *testing.T) {
	m, err := FromPhrase(referenceVectors[0].phrase, english)
	require.NoError(t, err)

	assert.Equal(t, trezorSeeds[0], hex.EncodeToString(m.Seed("TREZOR")))
	assert.Equal(t, DeriveSeed(m.Phrase(), ""), m.Seed(""))
}

func TestMnemonicSeedUsesCanonicalPhrase(t *testing.T) {
	messy := "abandon  abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon\tabout"
	m, err := FromPhrase(messy, english)
	require.NoError(t, err)

	assert.Equal(t, trezorSeeds[0], hex.EncodeToString(m.Seed("TREZOR")))
}

func TestWordListImmutability(t *testing.T) {
	m, err := FromEntropy(bytes.Repeat([]byte{0x42}, 32), english)
	require.NoError(t, err)

	words := m.WordList()
	original := m.Phrase()
	words[0] = "modified"

	assert.Equal(t, original, m.Phrase())
}

func TestFingerprint(t *testing.T) {
	m, err := FromEntropy(make([]byte, 16), english)
	require.NoError(t, err)

	fp, err := m.Fingerprint()
	require.NoError(t, err)
	assert.Len(t, fp, 8)
	// SHA-256 of 16 zero bytes starts with 374708ff.
	assert.Equal(t, "374708ff", fp)
}

func TestMnemonicEqual(t *testing.T) {
	a, err := FromPhrase(referenceVectors[0].phrase, english)
	require.NoError(t, err)
	b, err := FromEntropy(make([]byte, 16), english)
	require.NoError(t, err)
	c, err := FromPhrase(referenceVectors[1].phrase, english)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestSecureCompareWords(t *testing.T) {
	tests := []struct {
		name  string
		a     string
		b     string
		equal bool
	}{
		{"Equal mnemonics", referenceVectors[0].phrase, referenceVectors[0].phrase, true},
		{"Different mnemonics", referenceVectors[0].phrase, referenceVectors[1].phrase, false},
		{"Different word count", "abandon abandon abandon", "abandon abandon", false},
		{"Extra spaces", "abandon  abandon", "abandon abandon", true},
		{"Unicode forms", "caf\u00e9", "cafe\u0301", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, SecureCompareWords(tt.a, tt.b))
		})
	}
}

func TestCodecFromEntropyWithCustomChecksum(t *testing.T) {
	c, err := NewCodec(english, WithChecksum(Blake3Checksum))
	require.NoError(t, err)

	m, err := c.FromEntropy(bytes.Repeat([]byte{0x07}, 20))
	require.NoError(t, err)

	entropy, err := m.Entropy()
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0x07}, 20), entropy)

	parsed, err := c.Parse(m.Phrase())
	require.NoError(t, err)
	assert.True(t, parsed.Equal(m))
}
