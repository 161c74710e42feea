package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

type decodeResult struct {
	Entropy     string `json:"entropy"`
	Bits        int    `json:"bits"`
	WordCount   int    `json:"word_count"`
	Language    string `json:"language"`
	Fingerprint string `json:"fingerprint"`
}

func NewDecodeCommand() *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "decode [words...]",
		Short: "Recover the entropy behind a mnemonic phrase",
		Long: `Decode a mnemonic phrase back into its hex entropy. The checksum is
verified and the first unknown word is reported with suggestions.
When no words are given the phrase is read from stdin.`,
		Example: `  # Decode a phrase
  seedphrase decode abandon abandon abandon abandon abandon abandon \
    abandon abandon abandon abandon abandon about

  # Decode a phrase from stdin
  seedphrase decode < phrase.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			phrase, err := s.readPhrase(args)
			if err != nil {
				return err
			}

			codec, err := s.codec(language)
			if err != nil {
				return err
			}

			m, err := codec.Parse(phrase)
			if err != nil {
				slog.Debug("Decode failed", "language", codec.Wordlist().Language(), "reason", ErrorKind(err))
				return explain(err, codec.Wordlist())
			}

			raw, err := m.Entropy()
			if err != nil {
				return err
			}
			entropy := s.hold(raw)

			fingerprint, err := m.Fingerprint()
			if err != nil {
				return err
			}

			result := decodeResult{
				Entropy:     entropy.Hex(),
				Bits:        entropy.Len() * 8,
				WordCount:   m.WordCount(),
				Language:    m.Language(),
				Fingerprint: fingerprint,
			}
			if s.outputJSON {
				return s.printJSON(result)
			}

			fmt.Fprintln(s.out, result.Entropy)
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Wordlist language")

	return cmd
}
