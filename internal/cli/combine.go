package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Davincible/seedphrase/pkg/crypto/shamir"
)

type CombineResult struct {
	Mnemonic    string `json:"mnemonic"`
	WordCount   int    `json:"word_count"`
	Language    string `json:"language"`
	Fingerprint string `json:"fingerprint"`
}

func NewCombineCommand() *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "combine [share...]",
		Short: "Recover a mnemonic phrase from threshold shares",
		Long: `Combine shares created by 'seedphrase split' to recover the phrase.
Shares are given as arguments or one per line on stdin. The recovered
phrase is checked against the fingerprint carried by the shares.`,
		Example: `  # Combine three shares
  seedphrase combine 374708ff-1a2b... 374708ff-3c4d... 374708ff-5e6f...

  # Combine shares from a file
  seedphrase combine < shares.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			texts := args
			if len(texts) == 0 {
				if texts, err = s.readShares(); err != nil {
					return err
				}
			}

			shares := make([]shamir.Share, len(texts))
			for i, text := range texts {
				if shares[i], err = shamir.ParseShare(text); err != nil {
					return fmt.Errorf("share %d: %w", i+1, err)
				}
			}

			codec, err := s.codec(language)
			if err != nil {
				return err
			}

			m, err := shamir.Combine(shares, codec)
			if err != nil {
				return err
			}

			fingerprint, err := m.Fingerprint()
			if err != nil {
				return err
			}

			slog.Debug("Combined shares", "shares", len(shares), "words", m.WordCount())

			result := CombineResult{
				Mnemonic:    m.Phrase(),
				WordCount:   m.WordCount(),
				Language:    m.Language(),
				Fingerprint: fingerprint,
			}
			if s.outputJSON {
				return s.printJSON(result)
			}

			w := s.out
			fmt.Fprintln(w)
			green.Fprintln(w, "✓ Phrase recovered")
			fmt.Fprintln(w)
			printWords(w, m.WordList())
			fmt.Fprintln(w)
			yellow.Fprintln(w, "Complete phrase:")
			fmt.Fprintln(w, result.Mnemonic)
			fmt.Fprintln(w)
			fmt.Fprintf(w, "Fingerprint: %s\n", fingerprint)
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Wordlist language of the original phrase")

	return cmd
}

// readShares collects shares one per line until an empty line or EOF.
func (s *session) readShares() ([]string, error) {
	var shares []string
	for {
		s.prompt(fmt.Sprintf("Share %d (empty line to finish): ", len(shares)+1))
		line, err := s.readLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read share: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			if len(shares) == 0 && !s.interactive() {
				continue
			}
			break
		}
		shares = append(shares, line)
	}

	if len(shares) == 0 {
		return nil, fmt.Errorf("no shares provided")
	}
	return shares, nil
}
