package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Davincible/seedphrase/internal/validation"
	"github.com/Davincible/seedphrase/pkg/crypto/mnemonic"
	"github.com/Davincible/seedphrase/pkg/crypto/wordlist"
)

type validateResult struct {
	Valid       bool   `json:"valid"`
	Language    string `json:"language,omitempty"`
	WordCount   int    `json:"word_count"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Error       string `json:"error,omitempty"`
}

func NewValidateCommand() *cobra.Command {
	var (
		language string
		detect   bool
	)

	cmd := &cobra.Command{
		Use:   "validate [words...]",
		Short: "Check a mnemonic phrase against its wordlist and checksum",
		Long: `Validate that every word of a phrase belongs to the wordlist and that
the embedded checksum matches. With --detect every known wordlist is tried.
The command exits non-zero when the phrase is invalid.`,
		Example: `  # Validate a phrase with the default wordlist
  seedphrase validate zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo wrong

  # Find the wordlist a phrase belongs to
  seedphrase validate --detect < phrase.txt`,
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

			if err := validation.ValidatePhraseShape(phrase); err != nil {
				return s.reportValidation(validateResult{Error: err.Error()}, err)
			}

			languages := []string{language}
			if detect {
				languages = s.knownLanguages()
			}

			var firstErr error
			for _, lang := range languages {
				codec, err := s.codec(lang)
				if err != nil {
					return err
				}

				m, err := codec.Parse(phrase)
				if err != nil {
					slog.Debug("Phrase rejected", "language", codec.Wordlist().Language(), "reason", ErrorKind(err))
					if firstErr == nil || (errors.Is(firstErr, mnemonic.ErrUnknownWord) && !errors.Is(err, mnemonic.ErrUnknownWord)) {
						firstErr = explain(err, codec.Wordlist())
					}
					continue
				}

				fingerprint, err := m.Fingerprint()
				if err != nil {
					return err
				}
				return s.reportValidation(validateResult{
					Valid:       true,
					Language:    m.Language(),
					WordCount:   m.WordCount(),
					Fingerprint: fingerprint,
				}, nil)
			}

			return s.reportValidation(validateResult{Error: firstErr.Error()}, firstErr)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Wordlist language")
	cmd.Flags().BoolVar(&detect, "detect", false, "Try every configured and built-in wordlist")

	return cmd
}

// knownLanguages lists custom wordlists first, then the built-in ones.
func (s *session) knownLanguages() []string {
	var custom []string
	for name := range s.config().Wordlists {
		custom = append(custom, name)
	}
	sort.Strings(custom)

	languages := custom
	for _, name := range wordlist.Languages() {
		if _, ok := s.config().Wordlists[name]; !ok {
			languages = append(languages, name)
		}
	}
	return languages
}

func (s *session) reportValidation(result validateResult, err error) error {
	if s.outputJSON {
		if jsonErr := s.printJSON(result); jsonErr != nil {
			return jsonErr
		}
		return err
	}

	fmt.Fprintln(s.out)
	if result.Valid {
		green.Fprintln(s.out, "✓ Mnemonic is valid")
		fmt.Fprintf(s.out, "  Language:    %s\n", result.Language)
		fmt.Fprintf(s.out, "  Words:       %d\n", result.WordCount)
		fmt.Fprintf(s.out, "  Fingerprint: %s\n", result.Fingerprint)
		return nil
	}

	red.Fprintln(s.out, "✗ Mnemonic is invalid")
	fmt.Fprintf(s.out, "  %s\n", result.Error)
	return err
}
