package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Davincible/seedphrase/internal/validation"
	"github.com/Davincible/seedphrase/pkg/crypto/shamir"
)

type SplitResult struct {
	Fingerprint string   `json:"fingerprint"`
	Language    string   `json:"language"`
	WordCount   int      `json:"word_count"`
	Threshold   int      `json:"threshold"`
	Total       int      `json:"total"`
	Shares      []string `json:"shares"`
}

func NewSplitCommand() *cobra.Command {
	var (
		parts     int
		threshold int
		language  string
	)

	cmd := &cobra.Command{
		Use:   "split [words...]",
		Short: "Split a mnemonic phrase into threshold shares",
		Long: `Split the entropy behind a mnemonic phrase into shares using Shamir's
Secret Sharing. Any threshold number of shares recovers the phrase; fewer
reveal nothing about it.

Every share is tagged with the phrase fingerprint so shares from different
phrases are never combined by mistake.`,
		Example: `  # Split into 5 shares, any 3 recover the phrase
  seedphrase split --parts 5 --threshold 3 < phrase.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateSplitParams(parts, threshold); err != nil {
				return err
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

			codec, err := s.codec(language)
			if err != nil {
				return err
			}
			m, err := codec.Parse(phrase)
			if err != nil {
				return fmt.Errorf("invalid mnemonic: %w", explain(err, codec.Wordlist()))
			}

			shares, err := shamir.Split(m, shamir.Config{Parts: parts, Threshold: threshold})
			if err != nil {
				return err
			}

			result := SplitResult{
				Language:  m.Language(),
				WordCount: m.WordCount(),
				Threshold: threshold,
				Total:     parts,
				Shares:    make([]string, len(shares)),
			}
			for i, share := range shares {
				result.Shares[i] = share.String()
			}
			result.Fingerprint = shares[0].Fingerprint

			slog.Debug("Split mnemonic", "parts", parts, "threshold", threshold, "words", m.WordCount())

			if s.outputJSON {
				return s.printJSON(result)
			}

			return outputSplitText(s, result)
		},
	}

	cmd.Flags().IntVarP(&parts, "parts", "n", 5, "Total number of shares to create")
	cmd.Flags().IntVarP(&threshold, "threshold", "t", 3, "Minimum shares needed for reconstruction")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Wordlist language")

	return cmd
}

func outputSplitText(s *session, result SplitResult) error {
	w := s.out

	fmt.Fprintln(w)
	yellow.Fprintln(w, "=== SECRET SHARES ===")
	fmt.Fprintln(w)
	green.Fprintf(w, "Created %d shares with threshold %d\n", result.Total, result.Threshold)
	fmt.Fprintf(w, "Any %d shares can reconstruct the %d-word %s phrase %s\n\n",
		result.Threshold, result.WordCount, result.Language, result.Fingerprint)

	for i, share := range result.Shares {
		fmt.Fprintf(w, "Share %d:\n  %s\n\n", i+1, share)
	}

	red.Fprintln(w, "⚠️  SECURITY WARNING:")
	fmt.Fprintln(w, "- Each share should be stored in a different secure location")
	fmt.Fprintln(w, "- Never store shares together or electronically without encryption")
	fmt.Fprintln(w, "- Test recovery with minimum shares before relying on this backup")
	return nil
}
