package validation

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Davincible/seedphrase/pkg/crypto/hdkey"
	"github.com/Davincible/seedphrase/pkg/crypto/mnemonic"
)

// MaxPassphraseLength bounds passphrases accepted from user input, in runes.
const MaxPassphraseLength = 256

var hexPattern = regexp.MustCompile(`^[0-9a-fA-F]+$`)

func ValidateHex(input string) error {
	input = strings.TrimSpace(input)
	if len(input) == 0 {
		return fmt.Errorf("hex string cannot be empty")
	}

	if len(input)%2 != 0 {
		return fmt.Errorf("hex string must have even length")
	}

	if !hexPattern.MatchString(input) {
		return fmt.Errorf("invalid hex characters")
	}

	return nil
}

// ParseEntropyHex decodes user-supplied hex entropy and checks its length.
// An optional 0x prefix is accepted.
func ParseEntropyHex(input string) ([]byte, error) {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(strings.TrimPrefix(input, "0x"), "0X")

	if err := ValidateHex(input); err != nil {
		return nil, fmt.Errorf("invalid entropy: %w", err)
	}

	entropy, err := hex.DecodeString(input)
	if err != nil {
		return nil, fmt.Errorf("failed to decode entropy: %w", err)
	}

	if !mnemonic.ValidateEntropyLength(len(entropy)) {
		return nil, &mnemonic.EntropyLengthError{Length: len(entropy)}
	}

	return entropy, nil
}

// ValidatePhraseShape performs the cheap checks that need no wordlist:
// emptiness and word count. Word membership and checksum belong to the codec.
func ValidatePhraseShape(phrase string) error {
	words := strings.FieldsFunc(phrase, unicode.IsSpace)
	if len(words) == 0 {
		return fmt.Errorf("mnemonic cannot be empty")
	}

	if !mnemonic.ValidateWordCount(len(words)) {
		return &mnemonic.WordCountError{Count: len(words)}
	}

	return nil
}

func ValidateDerivationPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("derivation path cannot be empty")
	}

	if err := hdkey.ValidatePath(path); err != nil {
		return fmt.Errorf("invalid derivation path: %w", err)
	}

	return nil
}

func ValidateSplitParams(parts, threshold int) error {
	if parts < 2 || parts > 255 {
		return fmt.Errorf("parts must be between 2 and 255 (got %d)", parts)
	}

	if threshold < 2 || threshold > parts {
		return fmt.Errorf("threshold must be between 2 and %d (got %d)", parts, threshold)
	}

	return nil
}

// ValidatePassphrase rejects passphrases that cannot be reproduced reliably:
// invalid UTF-8, control characters and oversized input.
func ValidatePassphrase(passphrase string) error {
	if !utf8.ValidString(passphrase) {
		return fmt.Errorf("passphrase is not valid UTF-8")
	}

	if utf8.RuneCountInString(passphrase) > MaxPassphraseLength {
		return fmt.Errorf("passphrase too long (max %d characters)", MaxPassphraseLength)
	}

	for i, ch := range passphrase {
		if ch == 0 {
			return fmt.Errorf("passphrase contains null character at position %d", i)
		}

		if unicode.IsControl(ch) {
			return fmt.Errorf("passphrase contains control character at position %d", i)
		}
	}

	return nil
}

// SanitizeInput trims a pasted phrase and folds line breaks into single
// spaces so multi-line pastes decode like a single line.
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")

	lines := strings.Split(input, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, " ")
}
