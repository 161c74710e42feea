package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Davincible/seedphrase/pkg/crypto/mnemonic"
)

type seedResult struct {
	Seed          string `json:"seed"`
	Checked       bool   `json:"checksum_verified"`
	HasPassphrase bool   `json:"has_passphrase"`
}

type batchSeedResult struct {
	Line int    `json:"line"`
	Seed string `json:"seed"`
}

func NewSeedCommand() *cobra.Command {
	var (
		language       string
		askPassphrase  bool
		skipCheck      bool
		passphraseFile string
		workers        int
	)

	cmd := &cobra.Command{
		Use:   "seed [words...]",
		Short: "Derive the 64-byte seed for a mnemonic phrase",
		Long: `Derive the BIP39 seed (PBKDF2-HMAC-SHA512, 2048 iterations) from a phrase
and an optional passphrase. Both are NFKD-normalized first.

The phrase checksum is verified before derivation unless --skip-check is
given or verify_before_seed is disabled in the config. A verified phrase is
hashed in canonical form; an unverified one is hashed exactly as typed.
Every passphrase yields a valid, different seed; there is no way to detect
a wrong one.`,
		Example: `  # Seed without passphrase
  seedphrase seed < phrase.txt

  # Prompt for a passphrase
  seedphrase seed --passphrase < phrase.txt

  # Derive one seed per candidate passphrase
  seedphrase seed --passphrase-file candidates.txt < phrase.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if askPassphrase && passphraseFile != "" {
				return fmt.Errorf("--passphrase and --passphrase-file are mutually exclusive")
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			phrase, err := s.readPhrase(args)
			if err != nil {
				return err
			}

			// A verified phrase is hashed in its canonical form, the same text
			// derive uses. With the check off the sanitized input is hashed as
			// typed, so stray spaces inside a line change the seed.
			checked := s.config().Security.VerifyBeforeSeed && !skipCheck
			if checked {
				codec, err := s.codec(language)
				if err != nil {
					return err
				}
				m, err := codec.Parse(phrase)
				if err != nil {
					return fmt.Errorf("refusing to derive seed: %w", explain(err, codec.Wordlist()))
				}
				phrase = m.Phrase()
			}

			if passphraseFile != "" {
				return s.deriveBatch(cmd, phrase, passphraseFile, workers)
			}

			var passphrase string
			if askPassphrase {
				if passphrase, err = s.readPassphrase(false); err != nil {
					return err
				}
			} else if err := s.checkPassphrase(""); err != nil {
				return err
			}

			seed := s.hold(mnemonic.DeriveSeed(phrase, passphrase))

			slog.Debug("Derived seed", "checked", checked, "has_passphrase", passphrase != "")

			result := seedResult{
				Seed:          seed.Hex(),
				Checked:       checked,
				HasPassphrase: passphrase != "",
			}
			if s.outputJSON {
				return s.printJSON(result)
			}

			if !checked {
				yellow.Fprintln(cmd.ErrOrStderr(), "Warning: seed derived without checksum verification")
			}
			fmt.Fprintln(s.out, result.Seed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Wordlist language used for the checksum check")
	cmd.Flags().BoolVar(&askPassphrase, "passphrase", false, "Prompt for a passphrase")
	cmd.Flags().BoolVar(&skipCheck, "skip-check", false, "Derive the seed without verifying the checksum")
	cmd.Flags().StringVar(&passphraseFile, "passphrase-file", "", "Derive one seed per line of this file")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel derivations for --passphrase-file (0 = number of CPUs)")

	return cmd
}

// deriveBatch derives a seed for every passphrase line in path. phrase is
// hashed exactly as given.
func (s *session) deriveBatch(cmd *cobra.Command, phrase, path string, workers int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open passphrase file: %w", err)
	}
	defer f.Close()

	var reqs []mnemonic.SeedRequest
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		passphrase := sc.Text()
		if err := s.checkPassphrase(passphrase); err != nil {
			return fmt.Errorf("passphrase on line %d: %w", len(reqs)+1, err)
		}
		reqs = append(reqs, mnemonic.SeedRequest{Phrase: phrase, Passphrase: passphrase})
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read passphrase file: %w", err)
	}

	seeds, err := mnemonic.DeriveSeeds(cmd.Context(), reqs, workers)
	if err != nil {
		return fmt.Errorf("failed to derive seeds: %w", err)
	}

	slog.Debug("Derived seed batch", "count", len(seeds), "workers", workers)

	results := make([]batchSeedResult, len(seeds))
	for i, seed := range seeds {
		results[i] = batchSeedResult{Line: i + 1, Seed: s.hold(seed).Hex()}
	}

	if s.outputJSON {
		return s.printJSON(results)
	}
	for _, r := range results {
		fmt.Fprintf(s.out, "%d\t%s\n", r.Line, r.Seed)
	}
	return nil
}
