package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Davincible/seedphrase/internal/validation"
	"github.com/Davincible/seedphrase/pkg/secure"
)

func NewEncodeCommand() *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "encode [entropy-hex]",
		Short: "Encode hex entropy as a mnemonic phrase",
		Long: `Encode 16, 20, 24, 28 or 32 bytes of hex entropy as a mnemonic phrase.
When no argument is given the entropy is read from stdin.`,
		Example: `  # Encode 16 zero bytes
  seedphrase encode 00000000000000000000000000000000

  # Encode entropy produced by another tool
  openssl rand -hex 32 | seedphrase encode --language spanish`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			var input string
			if len(args) == 1 {
				input = args[0]
			} else {
				s.prompt("Enter entropy (hex): ")
				if input, err = s.readLine(); err != nil {
					return fmt.Errorf("failed to read entropy: %w", err)
				}
			}

			entropy, err := validation.ParseEntropyHex(input)
			if err != nil {
				return err
			}
			defer secure.Zero(entropy)

			codec, err := s.codec(language)
			if err != nil {
				return err
			}

			m, err := codec.FromEntropy(entropy)
			if err != nil {
				return fmt.Errorf("failed to encode entropy: %w", err)
			}

			fingerprint, err := m.Fingerprint()
			if err != nil {
				return err
			}

			slog.Debug("Encoded entropy", "bits", len(entropy)*8, "words", m.WordCount(), "language", m.Language())

			if s.outputJSON {
				return s.printJSON(phraseResult{
					Mnemonic:    m.Phrase(),
					WordCount:   m.WordCount(),
					Language:    m.Language(),
					Fingerprint: fingerprint,
				})
			}

			fmt.Fprintln(s.out, m.Phrase())
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Wordlist language")

	return cmd
}
