package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Davincible/seedphrase/internal/validation"
	"github.com/Davincible/seedphrase/pkg/crypto/hdkey"
)

type DeriveResult struct {
	Path               string `json:"path"`
	PublicKey          string `json:"public_key"`
	Identifier         string `json:"identifier"`
	ExtendedPublicKey  string `json:"xpub"`
	PrivateKey         string `json:"private_key,omitempty"`
	ExtendedPrivateKey string `json:"xprv,omitempty"`
}

func NewDeriveCommand() *cobra.Command {
	var (
		path          string
		language      string
		count         int
		askPassphrase bool
		showPrivate   bool
		account       uint32
		coin          string
		change        uint32
		index         uint32
		xkey          string
	)

	cmd := &cobra.Command{
		Use:   "derive [words...]",
		Short: "Derive keys from a mnemonic phrase",
		Long: `Derive HD (Hierarchical Deterministic) keys from a mnemonic phrase using
BIP32 derivation paths. The phrase is validated, stretched into a seed and
handed to the key deriver selected in the config.

With --account the keys are the BIP44 addresses change/index below
m/44'/coin'/account'. With --xkey no phrase is read: addresses are derived
from an exported account xpub (or xprv) and their paths are relative to it.`,
		Example: `  # Derive the default path
  seedphrase derive < phrase.txt

  # Derive five Ethereum addresses
  seedphrase derive --path "m/44'/60'/0'/0/0" --count 5 < phrase.txt

  # Derive change addresses 10-14 of the second Bitcoin account
  seedphrase derive --account 1 --change 1 --index 10 --count 5 < phrase.txt

  # Derive receive addresses from a watch-only account xpub
  seedphrase derive --xkey "$(cat account.xpub)" --count 3

  # Include private keys
  seedphrase derive --show-private --passphrase < phrase.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be at least 1")
			}

			flags := cmd.Flags()
			accountMode := flags.Changed("account") || flags.Changed("coin")
			addressMode := accountMode || xkey != ""
			if xkey != "" && (accountMode || flags.Changed("path")) {
				return fmt.Errorf("--xkey cannot be combined with --path, --account or --coin")
			}
			if accountMode && flags.Changed("path") {
				return fmt.Errorf("--path cannot be combined with --account or --coin")
			}
			if !addressMode && (flags.Changed("change") || flags.Changed("index")) {
				return fmt.Errorf("--change and --index need --account or --xkey")
			}
			if addressMode && uint64(index)+uint64(count) > uint64(hdkey.HardenedKeyOffset) {
				return fmt.Errorf("address index range exceeds %d", uint64(hdkey.HardenedKeyOffset)-1)
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			var keys []*hdkey.HDKey
			if xkey != "" {
				root, err := hdkey.FromExtendedKey(xkey)
				if err != nil {
					return err
				}
				if showPrivate && !root.IsPrivate() {
					return fmt.Errorf("--show-private needs an extended private key")
				}
				if keys, err = deriveAddresses(root, change, index, count); err != nil {
					return err
				}
			} else {
				master, err := s.masterKey(args, language, askPassphrase)
				if err != nil {
					return err
				}

				if accountMode {
					if keys, err = s.deriveAccount(master, coin, account, change, index, count); err != nil {
						return err
					}
				} else {
					if keys, err = derivePaths(master, s.derivationPath(path), count); err != nil {
						return err
					}
				}
			}

			results := make([]DeriveResult, len(keys))
			for i, key := range keys {
				results[i] = newDeriveResult(key, showPrivate)
			}

			slog.Debug("Derived keys", "count", len(results), "account_mode", accountMode, "extended_key", xkey != "")

			if s.outputJSON {
				if len(results) == 1 {
					return s.printJSON(results[0])
				}
				return s.printJSON(results)
			}

			return outputDeriveText(s.out, results)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "BIP32 derivation path (default from config)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Wordlist language")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of consecutive keys to derive")
	cmd.Flags().BoolVar(&askPassphrase, "passphrase", false, "Prompt for a passphrase")
	cmd.Flags().BoolVar(&showPrivate, "show-private", false, "Show private keys (DANGEROUS)")
	cmd.Flags().Uint32Var(&account, "account", 0, "BIP44 account number")
	cmd.Flags().StringVar(&coin, "coin", "", "Coin name or SLIP-44 coin type for --account (default from config path)")
	cmd.Flags().Uint32Var(&change, "change", 0, "Change level for --account and --xkey (0 receive, 1 change)")
	cmd.Flags().Uint32Var(&index, "index", 0, "First address index for --account and --xkey")
	cmd.Flags().StringVar(&xkey, "xkey", "", "Derive from an extended public or private key instead of a phrase")

	return cmd
}

func (s *session) derivationPath(path string) string {
	if path == "" {
		return s.config().Derivation.DefaultPath
	}
	return path
}

// masterKey reads and validates the phrase and passphrase and returns the
// root key built by the configured deriver. The seed stays held by the
// session until it closes.
func (s *session) masterKey(args []string, language string, askPassphrase bool) (*hdkey.HDKey, error) {
	deriver, err := s.cm.Deriver()
	if err != nil {
		return nil, err
	}

	phrase, err := s.readPhrase(args)
	if err != nil {
		return nil, err
	}

	codec, err := s.codec(language)
	if err != nil {
		return nil, err
	}
	m, err := codec.Parse(phrase)
	if err != nil {
		return nil, fmt.Errorf("invalid mnemonic: %w", explain(err, codec.Wordlist()))
	}

	var passphrase string
	if askPassphrase {
		if passphrase, err = s.readPassphrase(false); err != nil {
			return nil, err
		}
	} else if err := s.checkPassphrase(""); err != nil {
		return nil, err
	}

	var master *hdkey.HDKey
	seed := s.hold(m.Seed(passphrase))
	if err := seed.Use(func(b []byte) (err error) {
		master, err = deriver.Derive(b)
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}

	slog.Debug("Created master key", "deriver", deriver.Name())
	return master, nil
}

// deriveAccount takes purpose and coin type from the configured default path
// unless coin names another coin.
func (s *session) deriveAccount(master *hdkey.HDKey, coin string, account, change, index uint32, count int) ([]*hdkey.HDKey, error) {
	dp, err := hdkey.ParseDerivationPath(s.config().Derivation.DefaultPath)
	if err != nil {
		return nil, err
	}

	coinType := dp.CoinType
	if coin != "" {
		if coinType, err = hdkey.CoinType(coin); err != nil {
			return nil, err
		}
	}

	accountKey, err := master.DeriveAccount(dp.Purpose, coinType, account)
	if err != nil {
		return nil, fmt.Errorf("failed to derive account: %w", err)
	}
	return deriveAddresses(accountKey, change, index, count)
}

func deriveAddresses(root *hdkey.HDKey, change, index uint32, count int) ([]*hdkey.HDKey, error) {
	keys := make([]*hdkey.HDKey, count)
	for i := range keys {
		key, err := root.DeriveAddress(change, index+uint32(i))
		if err != nil {
			return nil, fmt.Errorf("failed to derive address: %w", err)
		}
		keys[i] = key
	}
	return keys, nil
}

func derivePaths(master *hdkey.HDKey, path string, count int) ([]*hdkey.HDKey, error) {
	if err := validation.ValidateDerivationPath(path); err != nil {
		return nil, err
	}
	paths, err := expandPaths(path, count)
	if err != nil {
		return nil, err
	}

	keys := make([]*hdkey.HDKey, len(paths))
	for i, p := range paths {
		key, err := master.DerivePath(p)
		if err != nil {
			return nil, fmt.Errorf("failed to derive key: %w", err)
		}
		keys[i] = key
	}
	return keys, nil
}

// expandPaths returns count paths that differ only in the last segment,
// starting at the index path names.
func expandPaths(path string, count int) ([]string, error) {
	path = strings.TrimSpace(path)
	if count == 1 {
		return []string{path}, nil
	}

	cut := strings.LastIndex(path, "/")
	prefix, last := path[:cut], path[cut+1:]

	marker := ""
	if strings.HasSuffix(last, "'") || strings.HasSuffix(last, "h") {
		marker = last[len(last)-1:]
		last = last[:len(last)-1]
	}

	start, err := strconv.ParseUint(last, 10, 31)
	if err != nil {
		return nil, fmt.Errorf("invalid path index %q: %w", last, err)
	}
	if start+uint64(count) > uint64(hdkey.HardenedKeyOffset) {
		return nil, fmt.Errorf("path index range exceeds %d", uint64(hdkey.HardenedKeyOffset)-1)
	}

	paths := make([]string, count)
	for i := range paths {
		paths[i] = fmt.Sprintf("%s/%d%s", prefix, start+uint64(i), marker)
	}
	return paths, nil
}

func newDeriveResult(key *hdkey.HDKey, showPrivate bool) DeriveResult {
	result := DeriveResult{
		Path:              key.Path(),
		PublicKey:         key.PublicKeyHex(),
		Identifier:        hex.EncodeToString(key.Identifier()),
		ExtendedPublicKey: key.ExtendedPublicKey(),
	}
	if showPrivate && key.IsPrivate() {
		result.PrivateKey = key.PrivateKeyHex()
		result.ExtendedPrivateKey = key.ExtendedPrivateKey()
	}
	return result
}

func outputDeriveText(w io.Writer, results []DeriveResult) error {
	fmt.Fprintln(w)
	green.Fprintln(w, "=== DERIVED KEYS ===")

	for _, r := range results {
		fmt.Fprintln(w)
		cyan.Fprintf(w, "%s\n", r.Path)
		fmt.Fprintf(w, "  Public Key:   %s\n", r.PublicKey)
		fmt.Fprintf(w, "  Identifier:   %s\n", r.Identifier)
		fmt.Fprintf(w, "  Extended Pub: %s\n", r.ExtendedPublicKey)

		if r.PrivateKey != "" {
			red.Fprintln(w, "  ⚠️  PRIVATE KEY (KEEP SECRET):")
			fmt.Fprintf(w, "  Private Key:  %s\n", r.PrivateKey)
			fmt.Fprintf(w, "  Extended Prv: %s\n", r.ExtendedPrivateKey)
		}
	}

	fmt.Fprintln(w)
	green.Fprintln(w, "=== END ===")
	return nil
}

