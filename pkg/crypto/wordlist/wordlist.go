// Package wordlist provides immutable 2048-word vocabularies mapping each
// word to an 11-bit index.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/Davincible/seedphrase/pkg/crypto/normalize"
)

// Size is the number of entries every wordlist must hold.
const Size = 2048

// Separators used to join phrase words.
const (
	SpaceSeparator       = " "
	IdeographicSeparator = "\u3000"
)

var (
	ErrMalformedWordlist = errors.New("malformed wordlist")
	ErrUnknownLanguage   = errors.New("unknown wordlist language")
)

// Wordlist is an ordered, normalized vocabulary for one language. It is never
// mutated after construction and is safe for concurrent readers.
type Wordlist struct {
	language  string
	separator string
	words     []string
	index     map[string]int
}

// New builds a wordlist from words. Entries are stored in NFKD form and must
// be unique after normalization.
func New(language string, words []string, separator string) (*Wordlist, error) {
	if len(words) != Size {
		return nil, fmt.Errorf("%w: %s must contain exactly %d words, got %d",
			ErrMalformedWordlist, language, Size, len(words))
	}
	if separator == "" {
		separator = SpaceSeparator
	}

	wl := &Wordlist{
		language:  language,
		separator: separator,
		words:     make([]string, Size),
		index:     make(map[string]int, Size),
	}

	for i, word := range words {
		word = normalize.String(strings.TrimSpace(word))
		if word == "" {
			return nil, fmt.Errorf("%w: %s entry %d is empty", ErrMalformedWordlist, language, i)
		}
		if strings.IndexFunc(word, unicode.IsSpace) >= 0 {
			return nil, fmt.Errorf("%w: %s entry %d (%q) contains whitespace", ErrMalformedWordlist, language, i, word)
		}
		if prev, ok := wl.index[word]; ok {
			return nil, fmt.Errorf("%w: %s entry %d (%q) duplicates entry %d",
				ErrMalformedWordlist, language, i, word, prev)
		}
		wl.words[i] = word
		wl.index[word] = i
	}

	return wl, nil
}

// Load reads a newline-delimited wordlist. Blank lines are skipped.
func Load(language string, r io.Reader, separator string) (*Wordlist, error) {
	sc := bufio.NewScanner(r)
	words := make([]string, 0, Size)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" {
			continue
		}
		words = append(words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s wordlist: %w", language, err)
	}
	return New(language, words, separator)
}

// LoadFile reads a newline-delimited wordlist from path.
func LoadFile(language, path, separator string) (*Wordlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wordlist: %w", err)
	}
	defer f.Close()

	return Load(language, f, separator)
}

// Index returns the position of word. The input is normalized first.
func (wl *Wordlist) Index(word string) (int, bool) {
	idx, ok := wl.index[normalize.String(word)]
	return idx, ok
}

// Word returns the entry at index. The caller guarantees 0 <= index < Size.
func (wl *Wordlist) Word(index int) string {
	return wl.words[index]
}

func (wl *Wordlist) Contains(word string) bool {
	_, ok := wl.Index(word)
	return ok
}

func (wl *Wordlist) Language() string {
	return wl.language
}

// Separator is the canonical string placed between phrase words.
func (wl *Wordlist) Separator() string {
	return wl.separator
}

// Words returns a copy of the entries in index order.
func (wl *Wordlist) Words() []string {
	result := make([]string, len(wl.words))
	copy(result, wl.words)
	return result
}

// Suggest returns up to limit entries starting with prefix, in index order.
// A limit <= 0 means no limit.
func (wl *Wordlist) Suggest(prefix string, limit int) []string {
	prefix = normalize.String(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}

	var out []string
	for _, w := range wl.words {
		if strings.HasPrefix(w, prefix) {
			out = append(out, w)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}
