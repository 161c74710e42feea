package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type languageInfo struct {
	Name      string `json:"name"`
	Builtin   bool   `json:"builtin"`
	Separator string `json:"separator"`
}

type lookupResult struct {
	Word   string `json:"word"`
	Found  bool   `json:"found"`
	Index  int    `json:"index"`
	Binary string `json:"binary,omitempty"`
}

func NewWordlistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordlist",
		Short: "Inspect the available wordlists",
	}

	cmd.AddCommand(
		newWordlistLanguagesCommand(),
		newWordlistLookupCommand(),
		newWordlistSuggestCommand(),
		newWordlistShowCommand(),
	)

	return cmd
}

func newWordlistLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List built-in and configured wordlists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			var infos []languageInfo
			for _, name := range s.knownLanguages() {
				wl, err := s.cm.Wordlist(name)
				if err != nil {
					return fmt.Errorf("wordlist %s: %w", name, err)
				}
				_, custom := s.config().Wordlists[name]
				infos = append(infos, languageInfo{
					Name:      name,
					Builtin:   !custom,
					Separator: fmt.Sprintf("%U", []rune(wl.Separator())[0]),
				})
			}

			if s.outputJSON {
				return s.printJSON(infos)
			}

			for _, info := range infos {
				kind := "built-in"
				if !info.Builtin {
					kind = "custom"
				}
				fmt.Fprintf(s.out, "%-20s %-9s separator %s\n", info.Name, kind, info.Separator)
			}
			return nil
		},
	}
}

func newWordlistLookupCommand() *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "lookup <word>...",
		Short: "Show the index of each word",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			wl, err := s.cm.Wordlist(language)
			if err != nil {
				return err
			}

			results := make([]lookupResult, len(args))
			missing := 0
			for i, word := range args {
				idx, ok := wl.Index(word)
				results[i] = lookupResult{Word: word, Found: ok, Index: -1}
				if ok {
					results[i].Index = idx
					results[i].Binary = fmt.Sprintf("%011b", idx)
				} else {
					missing++
				}
			}

			if s.outputJSON {
				if err := s.printJSON(results); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					if r.Found {
						fmt.Fprintf(s.out, "%-12s %4d  %s\n", r.Word, r.Index, r.Binary)
					} else {
						red.Fprintf(s.out, "%-12s not in %s wordlist\n", r.Word, wl.Language())
					}
				}
			}

			if missing > 0 {
				return fmt.Errorf("%d of %d words not found", missing, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Wordlist language")

	return cmd
}

func newWordlistSuggestCommand() *cobra.Command {
	var (
		language string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "suggest <prefix>",
		Short: "List words starting with a prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			wl, err := s.cm.Wordlist(language)
			if err != nil {
				return err
			}

			suggestions := wl.Suggest(args[0], limit)
			if s.outputJSON {
				if suggestions == nil {
					suggestions = []string{}
				}
				return s.printJSON(suggestions)
			}

			for _, word := range suggestions {
				fmt.Fprintln(s.out, word)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Wordlist language")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of suggestions (0 = all)")

	return cmd
}

func newWordlistShowCommand() *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print every word of a wordlist in index order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			wl, err := s.cm.Wordlist(language)
			if err != nil {
				return err
			}

			if s.outputJSON {
				return s.printJSON(wl.Words())
			}
			for _, word := range wl.Words() {
				fmt.Fprintln(s.out, word)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Wordlist language")

	return cmd
}
