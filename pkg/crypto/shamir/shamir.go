// Package shamir splits the entropy behind a phrase into threshold shares
// and recovers the phrase from them.
package shamir

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/vault/shamir"

	"github.com/Davincible/seedphrase/pkg/crypto/mnemonic"
	"github.com/Davincible/seedphrase/pkg/secure"
)

// ErrShareMismatch means shares belong to different phrases, or too few
// shares were combined to recover the phrase they claim to belong to.
var ErrShareMismatch = errors.New("shares do not reconstruct the fingerprinted phrase")

// Share is one point of the split entropy. Fingerprint identifies the phrase
// the share belongs to.
type Share struct {
	Fingerprint string
	Data        []byte
}

// Index is the x coordinate vault appends to every share.
func (s Share) Index() byte {
	if len(s.Data) == 0 {
		return 0
	}
	return s.Data[len(s.Data)-1]
}

// String renders the share as "<fingerprint>-<hex>".
func (s Share) String() string {
	return s.Fingerprint + "-" + hex.EncodeToString(s.Data)
}

func ParseShare(text string) (Share, error) {
	fp, data, ok := strings.Cut(strings.TrimSpace(text), "-")
	if !ok {
		return Share{}, fmt.Errorf("share must have the form <fingerprint>-<hex>")
	}
	if len(fp) != 8 {
		return Share{}, fmt.Errorf("invalid share fingerprint %q", fp)
	}
	if _, err := hex.DecodeString(fp); err != nil {
		return Share{}, fmt.Errorf("invalid share fingerprint %q", fp)
	}

	raw, err := hex.DecodeString(data)
	if err != nil {
		return Share{}, fmt.Errorf("invalid share data: %w", err)
	}
	if len(raw) < 2 {
		return Share{}, fmt.Errorf("share is too short")
	}

	return Share{Fingerprint: strings.ToLower(fp), Data: raw}, nil
}

type Config struct {
	Parts     int
	Threshold int
}

func (c *Config) Validate() error {
	if c.Parts < 2 {
		return fmt.Errorf("parts must be at least 2, got %d", c.Parts)
	}
	if c.Threshold < 2 {
		return fmt.Errorf("threshold must be at least 2, got %d", c.Threshold)
	}
	if c.Threshold > c.Parts {
		return fmt.Errorf("threshold (%d) cannot be greater than parts (%d)", c.Threshold, c.Parts)
	}
	if c.Parts > 255 {
		return fmt.Errorf("parts cannot exceed 255, got %d", c.Parts)
	}
	return nil
}

// Split divides the entropy of m into config.Parts shares.
func Split(m *mnemonic.Mnemonic, config Config) ([]Share, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	entropy, err := m.Entropy()
	if err != nil {
		return nil, fmt.Errorf("failed to read entropy: %w", err)
	}
	defer secure.Zero(entropy)

	fp, err := m.Fingerprint()
	if err != nil {
		return nil, err
	}

	parts, err := shamir.Split(entropy, config.Parts, config.Threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to split secret: %w", err)
	}

	shares := make([]Share, len(parts))
	for i, part := range parts {
		shares[i] = Share{Fingerprint: fp, Data: part}
	}
	return shares, nil
}

// Combine recovers the phrase from shares and checks it against the shares'
// fingerprint.
func Combine(shares []Share, codec *mnemonic.Codec) (*mnemonic.Mnemonic, error) {
	if len(shares) < 2 {
		return nil, fmt.Errorf("at least 2 shares are required for reconstruction")
	}

	fp := shares[0].Fingerprint
	parts := make([][]byte, len(shares))
	for i, share := range shares {
		if len(share.Data) == 0 {
			return nil, fmt.Errorf("share %d has empty data", i+1)
		}
		if share.Fingerprint != fp {
			return nil, fmt.Errorf("%w: share %d has fingerprint %s, expected %s",
				ErrShareMismatch, i+1, share.Fingerprint, fp)
		}
		parts[i] = share.Data
	}

	entropy, err := shamir.Combine(parts)
	if err != nil {
		return nil, fmt.Errorf("failed to combine shares: %w", err)
	}
	defer secure.Zero(entropy)

	m, err := codec.FromEntropy(entropy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShareMismatch, err)
	}

	got, err := m.Fingerprint()
	if err != nil {
		return nil, err
	}
	if !secure.ConstantTimeCompare([]byte(got), []byte(fp)) {
		return nil, ErrShareMismatch
	}

	return m, nil
}
