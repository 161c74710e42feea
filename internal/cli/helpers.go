package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Davincible/seedphrase/internal/validation"
	"github.com/Davincible/seedphrase/pkg/config"
	"github.com/Davincible/seedphrase/pkg/crypto/hdkey"
	"github.com/Davincible/seedphrase/pkg/crypto/mnemonic"
	"github.com/Davincible/seedphrase/pkg/crypto/normalize"
	"github.com/Davincible/seedphrase/pkg/crypto/shamir"
	"github.com/Davincible/seedphrase/pkg/crypto/wordlist"
	"github.com/Davincible/seedphrase/pkg/secure"
)

var (
	green  = color.New(color.FgGreen, color.Bold)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan, color.Bold)
)

// session carries the per-invocation state shared by every subcommand.
type session struct {
	cmd        *cobra.Command
	cm         *config.ConfigManager
	outputJSON bool
	in         *bufio.Reader
	out        io.Writer
	secrets    []*secure.Bytes
}

func newSession(cmd *cobra.Command) (*session, error) {
	path, _ := cmd.Flags().GetString("config")
	cm, err := config.NewConfigManager(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if !cm.GetConfig().UI.UseColor {
		color.NoColor = true
	}

	outputJSON, _ := cmd.Flags().GetBool("json")

	return &session{
		cmd:        cmd,
		cm:         cm,
		outputJSON: outputJSON,
		in:         bufio.NewReader(cmd.InOrStdin()),
		out:        cmd.OutOrStdout(),
	}, nil
}

// hold takes ownership of a secret buffer until close.
func (s *session) hold(b []byte) *secure.Bytes {
	secret := secure.Own(b)
	s.secrets = append(s.secrets, secret)
	return secret
}

// close wipes every secret the command held.
func (s *session) close() {
	for _, secret := range s.secrets {
		secret.Destroy()
	}
	s.secrets = nil
}

func (s *session) config() *config.Config {
	return s.cm.GetConfig()
}

// codec resolves language through the config, falling back to the default.
func (s *session) codec(language string) (*mnemonic.Codec, error) {
	codec, err := s.cm.Codec(language)
	if err != nil {
		return nil, fmt.Errorf("failed to load wordlist: %w", err)
	}
	return codec, nil
}

func (s *session) interactive() bool {
	f, ok := s.cmd.InOrStdin().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (s *session) prompt(text string) {
	if s.interactive() {
		fmt.Fprint(s.cmd.ErrOrStderr(), text)
	}
}

// readLine returns the next input line without its line ending.
func (s *session) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPhrase takes the phrase from args, or from the next input line.
func (s *session) readPhrase(args []string) (string, error) {
	var raw string
	if len(args) > 0 {
		raw = strings.Join(args, " ")
	} else {
		s.prompt("Enter mnemonic phrase: ")
		line, err := s.readLine()
		if err != nil {
			return "", fmt.Errorf("failed to read mnemonic: %w", err)
		}
		raw = line
	}

	phrase := validation.SanitizeInput(raw)
	if phrase == "" {
		return "", fmt.Errorf("mnemonic cannot be empty")
	}
	return phrase, nil
}

// readPassphrase reads a passphrase from the terminal without echo, or
// from the next input line when stdin is not a terminal.
func (s *session) readPassphrase(confirm bool) (string, error) {
	read := func(text string) (string, error) {
		if s.interactive() {
			fmt.Fprint(s.cmd.ErrOrStderr(), text)
			f := s.cmd.InOrStdin().(*os.File)
			passBytes, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(s.cmd.ErrOrStderr())
			if err != nil {
				return "", err
			}
			return string(passBytes), nil
		}
		return s.readLine()
	}

	passphrase, err := read("Enter passphrase: ")
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}

	if confirm && s.interactive() {
		again, err := read("Confirm passphrase: ")
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase: %w", err)
		}
		if again != passphrase {
			return "", fmt.Errorf("passphrases do not match")
		}
	}

	if err := s.checkPassphrase(passphrase); err != nil {
		return "", err
	}
	return passphrase, nil
}

func (s *session) checkPassphrase(passphrase string) error {
	if err := validation.ValidatePassphrase(passphrase); err != nil {
		return err
	}
	return s.cm.ValidatePassphrase(passphrase)
}

func (s *session) printJSON(v any) error {
	encoder := json.NewEncoder(s.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// ErrorKind names the category of a codec error for log records. The error
// text itself may contain phrase words and is never logged.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, mnemonic.ErrUnknownWord):
		return "unknown_word"
	case errors.Is(err, mnemonic.ErrChecksumMismatch):
		return "checksum_mismatch"
	case errors.Is(err, mnemonic.ErrInvalidWordCount):
		return "invalid_word_count"
	case errors.Is(err, mnemonic.ErrInvalidEntropyLength):
		return "invalid_entropy_length"
	case errors.Is(err, mnemonic.ErrShortDigest):
		return "short_digest"
	case errors.Is(err, hdkey.ErrDerivationDisabled):
		return "derivation_disabled"
	case errors.Is(err, shamir.ErrShareMismatch):
		return "share_mismatch"
	default:
		return "other"
	}
}

// explain adds wordlist suggestions to unknown-word errors.
func explain(err error, wl *wordlist.Wordlist) error {
	var unknown *mnemonic.UnknownWordError
	if !errors.As(err, &unknown) {
		return err
	}

	word := []rune(normalize.String(unknown.Word))
	for n := min(len(word), 4); n > 0; n-- {
		if suggestions := wl.Suggest(string(word[:n]), 5); len(suggestions) > 0 {
			return fmt.Errorf("%w (did you mean: %s?)", err, strings.Join(suggestions, ", "))
		}
	}
	return err
}

func printWords(w io.Writer, words []string) {
	for i, word := range words {
		fmt.Fprintf(w, "%2d. %s\n", i+1, word)
	}
}
