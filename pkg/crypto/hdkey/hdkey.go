// Package hdkey builds BIP32 key trees from 64-byte seeds or imported
// extended keys.
package hdkey

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tyler-smith/go-bip32"
	"golang.org/x/crypto/ripemd160"
)

const HardenedKeyOffset = uint32(0x80000000)

// DefaultPath is the first BIP44 Bitcoin receive address.
const DefaultPath = "m/44'/0'/0'/0/0"

var ErrHardenedFromPublic = errors.New("hardened child requires a private key")

// SLIP-44 registered coin types accepted by name.
var coinTypes = map[string]uint32{
	"bitcoin":  0,
	"btc":      0,
	"testnet":  1,
	"litecoin": 2,
	"ltc":      2,
	"ethereum": 60,
	"eth":      60,
}

// CoinType resolves a coin name or a decimal SLIP-44 coin type.
func CoinType(name string) (uint32, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if ct, ok := coinTypes[name]; ok {
		return ct, nil
	}
	ct, err := strconv.ParseUint(name, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("unknown coin type %q", name)
	}
	return uint32(ct), nil
}

// HDKey is one node of a key tree together with the path that reached it.
type HDKey struct {
	key  *bip32.Key
	path string
}

type DerivationPath struct {
	Purpose  uint32
	CoinType uint32
	Account  uint32
	Change   uint32
	Index    uint32
}

func NewMasterKey(seed []byte) (*HDKey, error) {
	if len(seed) < 16 {
		return nil, fmt.Errorf("seed must be at least 16 bytes")
	}

	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}
	return &HDKey{key: master, path: "m"}, nil
}

// FromExtendedKey imports a serialized xpub or xprv. Paths of keys derived
// from it start at "m", relative to the imported node.
func FromExtendedKey(xkey string) (*HDKey, error) {
	key, err := bip32.B58Deserialize(strings.TrimSpace(xkey))
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize extended key: %w", err)
	}
	return &HDKey{key: key, path: "m"}, nil
}

// Child derives the child at index; indexes from HardenedKeyOffset up are
// hardened.
func (h *HDKey) Child(index uint32) (*HDKey, error) {
	if index >= HardenedKeyOffset && !h.key.IsPrivate {
		return nil, fmt.Errorf("%w: %s", ErrHardenedFromPublic, formatIndex(index))
	}

	child, err := h.key.NewChildKey(index)
	if err != nil {
		return nil, fmt.Errorf("failed to derive child %s of %s: %w", formatIndex(index), h.path, err)
	}
	return &HDKey{key: child, path: h.path + "/" + formatIndex(index)}, nil
}

// DerivePath walks path from this key. Hardened segments may be marked with
// ' or h.
func (h *HDKey) DerivePath(path string) (*HDKey, error) {
	indexes, err := parseIndexes(path)
	if err != nil {
		return nil, err
	}

	key := h
	for _, index := range indexes {
		if key, err = key.Child(index); err != nil {
			return nil, err
		}
	}
	return key, nil
}

// DeriveAccount derives the hardened account node m/purpose'/coin'/account'.
func (h *HDKey) DeriveAccount(purpose, coinType, account uint32) (*HDKey, error) {
	key := h
	for _, n := range []uint32{purpose, coinType, account} {
		if n >= HardenedKeyOffset {
			return nil, fmt.Errorf("account level %d out of range", n)
		}
		var err error
		if key, err = key.Child(n + HardenedKeyOffset); err != nil {
			return nil, err
		}
	}
	return key, nil
}

// DeriveAddress derives the non-hardened change/index pair below an
// account node. It works on public keys.
func (h *HDKey) DeriveAddress(change, index uint32) (*HDKey, error) {
	if change >= HardenedKeyOffset || index >= HardenedKeyOffset {
		return nil, fmt.Errorf("address level out of range: %d/%d", change, index)
	}

	changeKey, err := h.Child(change)
	if err != nil {
		return nil, err
	}
	return changeKey.Child(index)
}

// PublicKey is the 33-byte compressed public key.
func (h *HDKey) PublicKey() []byte {
	return h.key.PublicKey().Key
}

func (h *HDKey) PublicKeyHex() string {
	return hex.EncodeToString(h.PublicKey())
}

// PrivateKeyHex is empty for public nodes.
func (h *HDKey) PrivateKeyHex() string {
	if !h.key.IsPrivate {
		return ""
	}
	return hex.EncodeToString(h.key.Key)
}

func (h *HDKey) ExtendedPublicKey() string {
	return h.key.PublicKey().String()
}

// ExtendedPrivateKey is empty for public nodes.
func (h *HDKey) ExtendedPrivateKey() string {
	if !h.key.IsPrivate {
		return ""
	}
	return h.key.String()
}

// Identifier is HASH160 of the compressed public key.
func (h *HDKey) Identifier() []byte {
	sum := sha256.Sum256(h.PublicKey())
	r := ripemd160.New()
	r.Write(sum[:])
	return r.Sum(nil)
}

func (h *HDKey) Path() string {
	return h.path
}

func (h *HDKey) IsPrivate() bool {
	return h.key.IsPrivate
}

// ParseDerivationPath parses a BIP44-shaped path with at least purpose,
// coin type and account.
func ParseDerivationPath(path string) (*DerivationPath, error) {
	indexes, err := parseIndexes(path)
	if err != nil {
		return nil, err
	}
	if len(indexes) < 3 {
		return nil, fmt.Errorf("incomplete derivation path")
	}
	if len(indexes) > 5 {
		return nil, fmt.Errorf("derivation path has %d levels, at most 5 allowed", len(indexes))
	}

	levels := make([]uint32, 5)
	for i, index := range indexes {
		levels[i] = index &^ HardenedKeyOffset
	}
	return &DerivationPath{
		Purpose:  levels[0],
		CoinType: levels[1],
		Account:  levels[2],
		Change:   levels[3],
		Index:    levels[4],
	}, nil
}

func (dp *DerivationPath) String() string {
	return fmt.Sprintf("m/%d'/%d'/%d'/%d/%d",
		dp.Purpose, dp.CoinType, dp.Account, dp.Change, dp.Index)
}

func ValidatePath(path string) error {
	_, err := ParseDerivationPath(path)
	return err
}

func parseIndexes(path string) ([]uint32, error) {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "m/") && !strings.HasPrefix(path, "M/") {
		return nil, fmt.Errorf("path must start with 'm/' or 'M/'")
	}

	segments := strings.Split(path[2:], "/")
	indexes := make([]uint32, len(segments))
	for i, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("empty segment at position %d", i+1)
		}
		index, err := parseSegment(segment)
		if err != nil {
			return nil, err
		}
		indexes[i] = index
	}
	return indexes, nil
}

func parseSegment(segment string) (uint32, error) {
	digits := strings.TrimRight(segment, "'h")
	hardened := digits != segment
	if hardened && len(segment)-len(digits) > 1 {
		return 0, fmt.Errorf("invalid path segment '%s'", segment)
	}

	index, err := strconv.ParseUint(digits, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("invalid path segment '%s': %w", segment, err)
	}
	if hardened {
		return uint32(index) + HardenedKeyOffset, nil
	}
	return uint32(index), nil
}

func formatIndex(index uint32) string {
	if index >= HardenedKeyOffset {
		return strconv.FormatUint(uint64(index-HardenedKeyOffset), 10) + "'"
	}
	return strconv.FormatUint(uint64(index), 10)
}
