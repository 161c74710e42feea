package cli

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Davincible/seedphrase/pkg/config"
	"github.com/Davincible/seedphrase/pkg/crypto/hdkey"
	"github.com/Davincible/seedphrase/pkg/crypto/mnemonic"
	"github.com/Davincible/seedphrase/pkg/secure"
)

const (
	zeroEntropy = "00000000000000000000000000000000"
	zeroPhrase  = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	zeroSeed    = "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4"
	trezorSeed  = "c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04"
)

// run executes the command tree in-process against a private config file.
func run(t *testing.T, cfgPath, stdin string, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand("test")
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", cfgPath, "--no-color"}, args...))

	err := root.Execute()
	return stdout.String(), err
}

func tempConfig(t *testing.T, mutate func(*config.Config)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if mutate == nil {
		return path
	}

	cfg := config.DefaultConfig()
	mutate(cfg)
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func decodeJSON[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestEncodeCommand(t *testing.T) {
	cfg := tempConfig(t, nil)

	t.Run("argument", func(t *testing.T) {
		out, err := run(t, cfg, "", "encode", zeroEntropy)
		require.NoError(t, err)
		assert.Equal(t, zeroPhrase+"\n", out)
	})

	t.Run("stdin with prefix", func(t *testing.T) {
		out, err := run(t, cfg, "0x"+zeroEntropy+"\n", "encode")
		require.NoError(t, err)
		assert.Equal(t, zeroPhrase+"\n", out)
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, cfg, "", "--json", "encode", zeroEntropy)
		require.NoError(t, err)

		result := decodeJSON[phraseResult](t, out)
		assert.Equal(t, zeroPhrase, result.Mnemonic)
		assert.Equal(t, 12, result.WordCount)
		assert.Equal(t, "english", result.Language)
		assert.Equal(t, "374708ff", result.Fingerprint)
	})

	t.Run("invalid length", func(t *testing.T) {
		_, err := run(t, cfg, "", "encode", strings.Repeat("00", 17))
		assert.ErrorIs(t, err, mnemonic.ErrInvalidEntropyLength)
	})

	t.Run("japanese separator", func(t *testing.T) {
		out, err := run(t, cfg, "", "encode", "--language", "japanese", zeroEntropy)
		require.NoError(t, err)
		assert.Len(t, strings.Split(strings.TrimSpace(out), "\u3000"), 12)
	})
}

func TestDecodeCommand(t *testing.T) {
	cfg := tempConfig(t, nil)

	t.Run("arguments", func(t *testing.T) {
		out, err := run(t, cfg, "", append([]string{"decode"}, strings.Fields(zeroPhrase)...)...)
		require.NoError(t, err)
		assert.Equal(t, zeroEntropy+"\n", out)
	})

	t.Run("stdin json", func(t *testing.T) {
		out, err := run(t, cfg, "  "+zeroPhrase+"\r\n", "--json", "decode")
		require.NoError(t, err)

		result := decodeJSON[decodeResult](t, out)
		assert.Equal(t, zeroEntropy, result.Entropy)
		assert.Equal(t, 128, result.Bits)
	})

	t.Run("unknown word with hint", func(t *testing.T) {
		phrase := strings.Replace(zeroPhrase, "about", "abot", 1)
		_, err := run(t, cfg, phrase+"\n", "decode")
		require.Error(t, err)
		assert.ErrorIs(t, err, mnemonic.ErrUnknownWord)
		assert.Contains(t, err.Error(), "position 12")
		assert.Contains(t, err.Error(), "did you mean")
		assert.Contains(t, err.Error(), "about")
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		phrase := strings.Replace(zeroPhrase, "about", "abandon", 1)
		_, err := run(t, cfg, phrase+"\n", "decode")
		assert.ErrorIs(t, err, mnemonic.ErrChecksumMismatch)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := run(t, cfg, "\n", "decode")
		assert.Error(t, err)
	})
}

func TestValidateCommand(t *testing.T) {
	cfg := tempConfig(t, nil)

	t.Run("valid", func(t *testing.T) {
		out, err := run(t, cfg, zeroPhrase+"\n", "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "Mnemonic is valid")
		assert.Contains(t, out, "374708ff")
	})

	t.Run("invalid json", func(t *testing.T) {
		phrase := strings.Replace(zeroPhrase, "about", "abandon", 1)
		out, err := run(t, cfg, phrase+"\n", "--json", "validate")
		assert.ErrorIs(t, err, mnemonic.ErrChecksumMismatch)

		result := decodeJSON[validateResult](t, out)
		assert.False(t, result.Valid)
		assert.NotEmpty(t, result.Error)
	})

	t.Run("word count", func(t *testing.T) {
		_, err := run(t, cfg, "abandon abandon abandon\n", "validate")
		assert.ErrorIs(t, err, mnemonic.ErrInvalidWordCount)
	})

	t.Run("detect language", func(t *testing.T) {
		japanese, err := run(t, cfg, "", "encode", "--language", "japanese", zeroEntropy)
		require.NoError(t, err)

		out, err := run(t, cfg, japanese, "--json", "validate", "--detect")
		require.NoError(t, err)

		result := decodeJSON[validateResult](t, out)
		assert.True(t, result.Valid)
		assert.Equal(t, "japanese", result.Language)
		assert.Equal(t, "374708ff", result.Fingerprint)
	})
}

func TestSeedCommand(t *testing.T) {
	cfg := tempConfig(t, nil)

	t.Run("no passphrase", func(t *testing.T) {
		out, err := run(t, cfg, zeroPhrase+"\n", "seed")
		require.NoError(t, err)
		assert.Equal(t, zeroSeed+"\n", out)
	})

	t.Run("passphrase from stdin", func(t *testing.T) {
		out, err := run(t, cfg, zeroPhrase+"\nTREZOR\n", "--json", "seed", "--passphrase")
		require.NoError(t, err)

		result := decodeJSON[seedResult](t, out)
		assert.Equal(t, trezorSeed, result.Seed)
		assert.True(t, result.Checked)
		assert.True(t, result.HasPassphrase)
	})

	t.Run("refuses invalid checksum", func(t *testing.T) {
		phrase := strings.Replace(zeroPhrase, "about", "abandon", 1)
		_, err := run(t, cfg, phrase+"\n", "seed")
		require.Error(t, err)
		assert.ErrorIs(t, err, mnemonic.ErrChecksumMismatch)
		assert.Contains(t, err.Error(), "refusing to derive seed")
	})

	t.Run("skip check", func(t *testing.T) {
		phrase := strings.Replace(zeroPhrase, "about", "abandon", 1)
		out, err := run(t, cfg, phrase+"\n", "--json", "seed", "--skip-check")
		require.NoError(t, err)

		result := decodeJSON[seedResult](t, out)
		assert.False(t, result.Checked)
		assert.Equal(t, mnemonic.DeriveSeed(phrase, ""), mustHex(t, result.Seed))
	})

	t.Run("extra whitespace is canonicalized", func(t *testing.T) {
		spaced := strings.Replace(zeroPhrase, " ", "  ", 1) + " \t"
		out, err := run(t, cfg, spaced+"\n", "--json", "seed")
		require.NoError(t, err)

		result := decodeJSON[seedResult](t, out)
		assert.True(t, result.Checked)
		assert.Equal(t, zeroSeed, result.Seed)
	})

	t.Run("extra whitespace with skip check is hashed as typed", func(t *testing.T) {
		spaced := strings.Replace(zeroPhrase, " ", "  ", 1)
		out, err := run(t, cfg, spaced+"\n", "seed", "--skip-check")
		require.NoError(t, err)
		assert.NotEqual(t, zeroSeed+"\n", out)
	})

	t.Run("passphrase file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "candidates.txt")
		require.NoError(t, os.WriteFile(path, []byte("\nTREZOR\n"), 0600))

		out, err := run(t, cfg, zeroPhrase+"\n", "--json", "seed", "--passphrase-file", path, "--workers", "2")
		require.NoError(t, err)

		results := decodeJSON[[]batchSeedResult](t, out)
		require.Len(t, results, 2)
		assert.Equal(t, zeroSeed, results[0].Seed)
		assert.Equal(t, trezorSeed, results[1].Seed)
	})

	t.Run("passphrase policy", func(t *testing.T) {
		strict := tempConfig(t, func(c *config.Config) { c.Security.RequirePassphrase = true })
		_, err := run(t, strict, zeroPhrase+"\n", "seed")
		assert.Error(t, err)
	})
}

func TestSeedAndDeriveAgree(t *testing.T) {
	cfg := tempConfig(t, nil)
	spaced := strings.Replace(zeroPhrase, "abandon abandon", "abandon   abandon", 1)

	for _, phrase := range []string{zeroPhrase, spaced} {
		out, err := run(t, cfg, phrase+"\nTREZOR\n", "--json", "seed", "--passphrase")
		require.NoError(t, err)
		seed := decodeJSON[seedResult](t, out)
		assert.Equal(t, trezorSeed, seed.Seed)

		out, err = run(t, cfg, phrase+"\nTREZOR\n", "--json", "derive", "--passphrase")
		require.NoError(t, err)
		derived := decodeJSON[DeriveResult](t, out)

		master, err := hdkey.NewMasterKey(mustHex(t, seed.Seed))
		require.NoError(t, err)
		want, err := master.DerivePath(hdkey.DefaultPath)
		require.NoError(t, err)
		assert.Equal(t, want.PublicKeyHex(), derived.PublicKey)
	}

	path := filepath.Join(t.TempDir(), "candidates.txt")
	require.NoError(t, os.WriteFile(path, []byte("TREZOR\n"), 0600))
	out, err := run(t, cfg, spaced+"\n", "--json", "seed", "--passphrase-file", path)
	require.NoError(t, err)
	batch := decodeJSON[[]batchSeedResult](t, out)
	require.Len(t, batch, 1)
	assert.Equal(t, trezorSeed, batch[0].Seed)
}

func TestDeriveAddressModes(t *testing.T) {
	cfg := tempConfig(t, nil)

	byPath, err := run(t, cfg, zeroPhrase+"\n", "--json", "derive", "--path", "m/44'/0'/0'/1/2", "--count", "2")
	require.NoError(t, err)
	want := decodeJSON[[]DeriveResult](t, byPath)

	t.Run("account", func(t *testing.T) {
		out, err := run(t, cfg, zeroPhrase+"\n", "--json", "derive",
			"--account", "0", "--change", "1", "--index", "2", "--count", "2")
		require.NoError(t, err)

		got := decodeJSON[[]DeriveResult](t, out)
		assert.Equal(t, want, got)
	})

	t.Run("coin by name", func(t *testing.T) {
		out, err := run(t, cfg, zeroPhrase+"\n", "--json", "derive", "--account", "3", "--coin", "eth")
		require.NoError(t, err)
		assert.Equal(t, "m/44'/60'/3'/0/0", decodeJSON[DeriveResult](t, out).Path)
	})

	t.Run("extended public key", func(t *testing.T) {
		out, err := run(t, cfg, zeroPhrase+"\n", "--json", "derive", "--path", "m/44'/0'/0'")
		require.NoError(t, err)
		xpub := decodeJSON[DeriveResult](t, out).ExtendedPublicKey

		out, err = run(t, cfg, "", "--json", "derive", "--xkey", xpub, "--change", "1", "--index", "2", "--count", "2")
		require.NoError(t, err)

		got := decodeJSON[[]DeriveResult](t, out)
		require.Len(t, got, 2)
		for i := range got {
			assert.Equal(t, want[i].PublicKey, got[i].PublicKey)
			assert.Equal(t, want[i].ExtendedPublicKey, got[i].ExtendedPublicKey)
			assert.Empty(t, got[i].PrivateKey)
		}
		assert.Equal(t, "m/1/2", got[0].Path)
		assert.Equal(t, "m/1/3", got[1].Path)

		_, err = run(t, cfg, "", "derive", "--xkey", xpub, "--show-private")
		assert.ErrorContains(t, err, "extended private key")
	})

	t.Run("conflicting flags", func(t *testing.T) {
		for _, args := range [][]string{
			{"derive", "--xkey", "xpub", "--account", "1"},
			{"derive", "--account", "1", "--path", "m/44'/0'/0'"},
			{"derive", "--change", "1"},
			{"derive", "--account", "0", "--index", "2147483647", "--count", "2"},
		} {
			_, err := run(t, cfg, zeroPhrase+"\n", args...)
			assert.Error(t, err, args)
		}
	})
}

func TestErrorKindOmitsPhraseWords(t *testing.T) {
	cfg := tempConfig(t, nil)
	_, err := run(t, cfg, strings.Replace(zeroPhrase, "about", "hunter2", 1)+"\n", "decode")
	require.ErrorIs(t, err, mnemonic.ErrUnknownWord)

	assert.Equal(t, "unknown_word", ErrorKind(err))
	assert.Equal(t, "checksum_mismatch", ErrorKind(mnemonic.ErrChecksumMismatch))
	assert.Equal(t, "derivation_disabled", ErrorKind(hdkey.ErrDerivationDisabled))
	assert.Equal(t, "other", ErrorKind(os.ErrNotExist))
	assert.Empty(t, ErrorKind(nil))
}

func TestDeriveCommand(t *testing.T) {
	cfg := tempConfig(t, nil)

	t.Run("default path", func(t *testing.T) {
		out, err := run(t, cfg, zeroPhrase+"\n", "--json", "derive")
		require.NoError(t, err)

		result := decodeJSON[DeriveResult](t, out)
		assert.Equal(t, hdkey.DefaultPath, result.Path)
		assert.Len(t, result.PublicKey, 66)
		assert.Len(t, result.Identifier, 40)
		assert.True(t, strings.HasPrefix(result.ExtendedPublicKey, "xpub"))
		assert.Empty(t, result.PrivateKey)
	})

	t.Run("range with private keys", func(t *testing.T) {
		out, err := run(t, cfg, zeroPhrase+"\nTREZOR\n", "--json", "derive",
			"--path", "m/44'/60'/0'/0/5", "--count", "3", "--show-private", "--passphrase")
		require.NoError(t, err)

		results := decodeJSON[[]DeriveResult](t, out)
		require.Len(t, results, 3)
		assert.Equal(t, "m/44'/60'/0'/0/5", results[0].Path)
		assert.Equal(t, "m/44'/60'/0'/0/7", results[2].Path)
		assert.NotEqual(t, results[0].PublicKey, results[1].PublicKey)
		assert.True(t, strings.HasPrefix(results[0].ExtendedPrivateKey, "xprv"))
		assert.Len(t, results[0].PrivateKey, 64)
	})

	t.Run("passphrase changes keys", func(t *testing.T) {
		plain, err := run(t, cfg, zeroPhrase+"\n", "--json", "derive")
		require.NoError(t, err)
		protected, err := run(t, cfg, zeroPhrase+"\nTREZOR\n", "--json", "derive", "--passphrase")
		require.NoError(t, err)
		assert.NotEqual(t, plain, protected)
	})

	t.Run("disabled backend", func(t *testing.T) {
		disabled := tempConfig(t, func(c *config.Config) { c.Derivation.Backend = "none" })
		_, err := run(t, disabled, zeroPhrase+"\n", "derive")
		assert.ErrorIs(t, err, hdkey.ErrDerivationDisabled)
	})

	t.Run("bad path", func(t *testing.T) {
		_, err := run(t, cfg, zeroPhrase+"\n", "derive", "--path", "44'/0'")
		assert.Error(t, err)
	})
}

func TestExpandPaths(t *testing.T) {
	tests := []struct {
		path  string
		count int
		want  []string
	}{
		{"m/44'/0'/0'/0/0", 1, []string{"m/44'/0'/0'/0/0"}},
		{"m/44'/0'/0'/0/3", 2, []string{"m/44'/0'/0'/0/3", "m/44'/0'/0'/0/4"}},
		{"m/44h/0h/1h", 2, []string{"m/44h/0h/1h", "m/44h/0h/2h"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := expandPaths(tt.path, tt.count)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := expandPaths("m/44'/0'/0'/0/2147483647", 2)
	assert.Error(t, err)
}

func TestWordlistCommands(t *testing.T) {
	cfg := tempConfig(t, nil)

	t.Run("lookup", func(t *testing.T) {
		out, err := run(t, cfg, "", "--json", "wordlist", "lookup", "abandon", "zoo")
		require.NoError(t, err)

		results := decodeJSON[[]lookupResult](t, out)
		require.Len(t, results, 2)
		assert.Equal(t, 0, results[0].Index)
		assert.Equal(t, "00000000000", results[0].Binary)
		assert.Equal(t, 2047, results[1].Index)
		assert.Equal(t, "11111111111", results[1].Binary)
	})

	t.Run("lookup missing", func(t *testing.T) {
		_, err := run(t, cfg, "", "wordlist", "lookup", "abandon", "qwerty")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2")
	})

	t.Run("suggest", func(t *testing.T) {
		out, err := run(t, cfg, "", "wordlist", "suggest", "ab", "--limit", "3")
		require.NoError(t, err)
		assert.Equal(t, "abandon\nability\nable\n", out)
	})

	t.Run("languages", func(t *testing.T) {
		out, err := run(t, cfg, "", "--json", "wordlist", "languages")
		require.NoError(t, err)

		infos := decodeJSON[[]languageInfo](t, out)
		separators := map[string]string{}
		for _, info := range infos {
			assert.True(t, info.Builtin)
			separators[info.Name] = info.Separator
		}
		assert.Equal(t, "U+3000", separators["japanese"])
		assert.Equal(t, "U+0020", separators["english"])
	})

	t.Run("show", func(t *testing.T) {
		out, err := run(t, cfg, "", "--json", "wordlist", "show", "--language", "spanish")
		require.NoError(t, err)

		words := decodeJSON[[]string](t, out)
		assert.Len(t, words, 2048)
	})
}

func TestSplitCombineCommands(t *testing.T) {
	cfg := tempConfig(t, nil)

	out, err := run(t, cfg, zeroPhrase+"\n", "--json", "split", "--parts", "3", "--threshold", "2")
	require.NoError(t, err)

	split := decodeJSON[SplitResult](t, out)
	require.Len(t, split.Shares, 3)
	assert.Equal(t, "374708ff", split.Fingerprint)
	for _, share := range split.Shares {
		assert.True(t, strings.HasPrefix(share, "374708ff-"))
	}

	t.Run("combine from args", func(t *testing.T) {
		out, err := run(t, cfg, "", "--json", "combine", split.Shares[0], split.Shares[2])
		require.NoError(t, err)

		result := decodeJSON[CombineResult](t, out)
		assert.Equal(t, zeroPhrase, result.Mnemonic)
	})

	t.Run("combine from stdin", func(t *testing.T) {
		stdin := "\n" + split.Shares[1] + "\n" + split.Shares[2] + "\n"
		out, err := run(t, cfg, stdin, "combine")
		require.NoError(t, err)
		assert.Contains(t, out, zeroPhrase)
	})

	t.Run("too few shares", func(t *testing.T) {
		_, err := run(t, cfg, "", "combine", split.Shares[0])
		assert.Error(t, err)
	})

	t.Run("bad params", func(t *testing.T) {
		_, err := run(t, cfg, zeroPhrase+"\n", "split", "--parts", "2", "--threshold", "3")
		assert.Error(t, err)
	})
}

func TestGenerateCommand(t *testing.T) {
	cfg := tempConfig(t, func(c *config.Config) { c.Defaults.WordCount = 12 })

	original := secure.Reader
	t.Cleanup(func() { secure.Reader = original })

	t.Run("uses entropy source", func(t *testing.T) {
		secure.Reader = bytes.NewReader(make([]byte, 16))
		out, err := run(t, cfg, "", "--json", "generate")
		require.NoError(t, err)

		result := decodeJSON[phraseResult](t, out)
		assert.Equal(t, zeroPhrase, result.Mnemonic)
		assert.Equal(t, 12, result.WordCount)
	})

	t.Run("word count flag", func(t *testing.T) {
		secure.Reader = original
		out, err := run(t, cfg, "", "--json", "generate", "--words", "24")
		require.NoError(t, err)

		result := decodeJSON[phraseResult](t, out)
		assert.Equal(t, 24, result.WordCount)

		_, err = run(t, cfg, result.Mnemonic+"\n", "validate")
		assert.NoError(t, err)
	})

	t.Run("text output", func(t *testing.T) {
		secure.Reader = original
		out, err := run(t, cfg, "", "generate")
		require.NoError(t, err)
		assert.Contains(t, out, "=== NEW MNEMONIC PHRASE ===")
		assert.Contains(t, out, "12. ")
	})

	t.Run("invalid word count", func(t *testing.T) {
		_, err := run(t, cfg, "", "generate", "--words", "13")
		assert.ErrorIs(t, err, mnemonic.ErrInvalidWordCount)
	})
}

func TestConfigCommands(t *testing.T) {
	cfg := tempConfig(t, nil)

	out, err := run(t, cfg, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, cfg)

	_, err = run(t, cfg, "", "config", "init")
	assert.Error(t, err)

	_, err = run(t, cfg, "", "config", "init", "--force")
	assert.NoError(t, err)

	out, err = run(t, cfg, "", "--json", "config", "show")
	require.NoError(t, err)
	shown := decodeJSON[config.Config](t, out)
	assert.Equal(t, *config.DefaultConfig(), shown)
}

func TestBlake3ConfigIsNotInteroperable(t *testing.T) {
	cfg := tempConfig(t, func(c *config.Config) { c.Checksum.Hash = "blake3" })

	_, err := run(t, cfg, zeroPhrase+"\n", "validate")
	assert.ErrorIs(t, err, mnemonic.ErrChecksumMismatch)
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}
