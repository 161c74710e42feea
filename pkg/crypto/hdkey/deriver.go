package hdkey

import (
	"errors"
	"fmt"
	"strings"
)

var ErrDerivationDisabled = errors.New("key derivation is disabled")

// Deriver turns a seed into the root of a key tree. Implementations are
// selected by configuration.
type Deriver interface {
	Name() string
	Derive(seed []byte) (*HDKey, error)
}

type BIP32Deriver struct{}

func (BIP32Deriver) Name() string { return "bip32" }

func (BIP32Deriver) Derive(seed []byte) (*HDKey, error) {
	return NewMasterKey(seed)
}

// DisabledDeriver is used when the deployment only needs seeds.
type DisabledDeriver struct{}

func (DisabledDeriver) Name() string { return "none" }

func (DisabledDeriver) Derive([]byte) (*HDKey, error) {
	return nil, ErrDerivationDisabled
}

// NewDeriver returns the deriver registered under name.
func NewDeriver(name string) (Deriver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "bip32":
		return BIP32Deriver{}, nil
	case "none", "disabled":
		return DisabledDeriver{}, nil
	default:
		return nil, fmt.Errorf("unknown key deriver %q", name)
	}
}
