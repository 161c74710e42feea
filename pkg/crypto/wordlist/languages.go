package wordlist

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tyler-smith/go-bip39/wordlists"
)

const (
	English            = "english"
	Japanese           = "japanese"
	Spanish            = "spanish"
	French             = "french"
	Italian            = "italian"
	Korean             = "korean"
	ChineseSimplified  = "chinese_simplified"
	ChineseTraditional = "chinese_traditional"
	Czech              = "czech"
)

type builtin struct {
	words     []string
	separator string

	once sync.Once
	wl   *Wordlist
	err  error
}

var builtins = map[string]*builtin{
	English:            {words: wordlists.English, separator: SpaceSeparator},
	Japanese:           {words: wordlists.Japanese, separator: IdeographicSeparator},
	Spanish:            {words: wordlists.Spanish, separator: SpaceSeparator},
	French:             {words: wordlists.French, separator: SpaceSeparator},
	Italian:            {words: wordlists.Italian, separator: SpaceSeparator},
	Korean:             {words: wordlists.Korean, separator: SpaceSeparator},
	ChineseSimplified:  {words: wordlists.ChineseSimplified, separator: SpaceSeparator},
	ChineseTraditional: {words: wordlists.ChineseTraditional, separator: SpaceSeparator},
	Czech:              {words: wordlists.Czech, separator: SpaceSeparator},
}

// ForLanguage returns the shared built-in wordlist for name. Names are
// case-insensitive; "-" and "_" are interchangeable.
func ForLanguage(name string) (*Wordlist, error) {
	key := canonicalName(name)
	b, ok := builtins[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
	}

	b.once.Do(func() {
		b.wl, b.err = New(key, b.words, b.separator)
	})
	return b.wl, b.err
}

// MustLanguage is like ForLanguage but panics on error. Intended for
// package-level initialization and tests.
func MustLanguage(name string) *Wordlist {
	wl, err := ForLanguage(name)
	if err != nil {
		panic(err)
	}
	return wl
}

// Languages returns the built-in language names, sorted.
func Languages() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsBuiltin reports whether name refers to a built-in language.
func IsBuiltin(name string) bool {
	_, ok := builtins[canonicalName(name)]
	return ok
}

func canonicalName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}
