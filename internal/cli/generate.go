package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Davincible/seedphrase/pkg/crypto/mnemonic"
	"github.com/Davincible/seedphrase/pkg/secure"
)

type phraseResult struct {
	Mnemonic    string `json:"mnemonic"`
	WordCount   int    `json:"word_count"`
	Language    string `json:"language"`
	Fingerprint string `json:"fingerprint"`
}

func NewGenerateCommand() *cobra.Command {
	var (
		wordCount int
		language  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new mnemonic phrase from fresh entropy",
		Long: `Generate a new mnemonic phrase from cryptographically secure random
entropy. The word count and language default to the values in the config file.`,
		Example: `  # Generate a 24-word English phrase
  seedphrase generate

  # Generate a 12-word Japanese phrase
  seedphrase generate --words 12 --language japanese

  # Output as JSON
  seedphrase generate --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if wordCount == 0 {
				wordCount = s.config().Defaults.WordCount
			}
			entropyBits, err := mnemonic.EntropyBitsFromWordCount(wordCount)
			if err != nil {
				return fmt.Errorf("invalid word count: %w", err)
			}

			codec, err := s.codec(language)
			if err != nil {
				return err
			}

			entropy, err := secure.RandomEntropy(entropyBits / 8)
			if err != nil {
				return err
			}
			s.hold(entropy)

			m, err := codec.FromEntropy(entropy)
			if err != nil {
				return fmt.Errorf("failed to encode entropy: %w", err)
			}

			fingerprint, err := m.Fingerprint()
			if err != nil {
				return err
			}

			slog.Debug("Generated mnemonic", "words", m.WordCount(), "language", m.Language())

			result := phraseResult{
				Mnemonic:    m.Phrase(),
				WordCount:   m.WordCount(),
				Language:    m.Language(),
				Fingerprint: fingerprint,
			}
			if s.outputJSON {
				return s.printJSON(result)
			}

			return outputGenerateText(s, m, fingerprint)
		},
	}

	cmd.Flags().IntVarP(&wordCount, "words", "w", 0, "Number of words (12, 15, 18, 21, or 24)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Wordlist language")

	return cmd
}

func outputGenerateText(s *session, m *mnemonic.Mnemonic, fingerprint string) error {
	w := s.out

	fmt.Fprintln(w)
	green.Fprintln(w, "=== NEW MNEMONIC PHRASE ===")
	fmt.Fprintln(w)

	red.Fprintln(w, "⚠️  IMPORTANT SECURITY NOTICE:")
	fmt.Fprintln(w, "Anyone who knows this phrase can recreate every key derived from it.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "- Write it down on paper (never digitally)")
	fmt.Fprintln(w, "- Store it in a secure location")
	fmt.Fprintln(w, "- Never share it with anyone")
	fmt.Fprintln(w, "- Consider 'seedphrase split' for a distributed backup")
	fmt.Fprintln(w)

	yellow.Fprintf(w, "Generated %d-word %s mnemonic:\n\n", m.WordCount(), m.Language())
	printWords(w, m.WordList())

	fmt.Fprintln(w)
	yellow.Fprintln(w, "Complete phrase:")
	fmt.Fprintln(w, m.Phrase())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Fingerprint: %s\n", fingerprint)
	fmt.Fprintln(w)

	green.Fprintln(w, "=== END ===")
	return nil
}
