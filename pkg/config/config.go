// Package config provides configuration management for the seedphrase CLI
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Davincible/seedphrase/pkg/crypto/hdkey"
	"github.com/Davincible/seedphrase/pkg/crypto/mnemonic"
	"github.com/Davincible/seedphrase/pkg/crypto/wordlist"
)

// EnvConfigPath overrides the configuration file location.
const EnvConfigPath = "SEEDPHRASE_CONFIG"

// Config represents the main configuration structure
type Config struct {
	Version    string                    `json:"version"`
	Defaults   DefaultSettings           `json:"defaults"`
	Wordlists  map[string]CustomWordlist `json:"wordlists"`
	Checksum   ChecksumConfig            `json:"checksum"`
	Derivation DerivationConfig          `json:"derivation"`
	Security   SecurityConfig            `json:"security"`
	UI         UIConfig                  `json:"ui"`
}

// DefaultSettings contains default values for common operations
type DefaultSettings struct {
	Language  string `json:"language"`   // Default: english
	WordCount int    `json:"word_count"` // Default: 24
}

// CustomWordlist points at a newline-delimited 2048-word file
type CustomWordlist struct {
	Path      string `json:"path"`
	Separator string `json:"separator"` // Default: single space
}

// ChecksumConfig selects the phrase checksum hash
type ChecksumConfig struct {
	Hash string `json:"hash"` // sha256 (BIP39) or blake3
}

// DerivationConfig selects the key-tree backend fed by derived seeds
type DerivationConfig struct {
	Backend     string `json:"backend"`      // bip32 or none
	DefaultPath string `json:"default_path"` // Default: m/44'/0'/0'/0/0
}

// SecurityConfig contains security-related settings
type SecurityConfig struct {
	RequirePassphrase   bool `json:"require_passphrase"`    // Force passphrase use
	MinPassphraseLength int  `json:"min_passphrase_length"` // Minimum passphrase length when one is given
	VerifyBeforeSeed    bool `json:"verify_before_seed"`    // Validate checksum before deriving seeds
}

// UIConfig contains user interface settings
type UIConfig struct {
	UseColor bool `json:"use_color"` // Enable colored output
}

// ConfigManager manages configuration loading and saving
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager loads the configuration at path, or at the default
// location when path is empty. A missing file is created with defaults.
func NewConfigManager(path string) (*ConfigManager, error) {
	path, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}

	cm := &ConfigManager{configPath: path}

	err = cm.LoadConfig()
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		cm.config = DefaultConfig()
		if err := cm.SaveConfig(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	default:
		return nil, err
	}

	if err := cm.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cm, nil
}

// InitConfig writes the default configuration to path. An existing file is
// only replaced when force is set.
func InitConfig(path string, force bool) (*ConfigManager, error) {
	path, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err == nil && !force {
		return nil, fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	cm := &ConfigManager{config: DefaultConfig(), configPath: path}
	if err := cm.SaveConfig(); err != nil {
		return nil, err
	}
	return cm, nil
}

// ResolvePath returns path, or the default location when path is empty.
func ResolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return getConfigPath()
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0.0",
		Defaults: DefaultSettings{
			Language:  wordlist.English,
			WordCount: 24,
		},
		Wordlists: map[string]CustomWordlist{},
		Checksum: ChecksumConfig{
			Hash: "sha256",
		},
		Derivation: DerivationConfig{
			Backend:     "bip32",
			DefaultPath: hdkey.DefaultPath,
		},
		Security: SecurityConfig{
			RequirePassphrase:   false,
			MinPassphraseLength: 0,
			VerifyBeforeSeed:    true,
		},
		UI: UIConfig{
			UseColor: true,
		},
	}
}

// Validate rejects values the rest of the tool cannot act on
func (c *Config) Validate() error {
	if !mnemonic.ValidateWordCount(c.Defaults.WordCount) {
		return fmt.Errorf("defaults.word_count must be 12, 15, 18, 21 or 24 (got %d)", c.Defaults.WordCount)
	}

	if _, ok := c.Wordlists[c.Defaults.Language]; !ok && !wordlist.IsBuiltin(c.Defaults.Language) {
		return fmt.Errorf("defaults.language %q is neither built in nor configured", c.Defaults.Language)
	}

	for name, custom := range c.Wordlists {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("wordlists: empty language name")
		}
		if custom.Path == "" {
			return fmt.Errorf("wordlists.%s: path is required", name)
		}
	}

	if _, err := mnemonic.ChecksumFuncByName(c.Checksum.Hash); err != nil {
		return fmt.Errorf("checksum.hash: %w", err)
	}

	if _, err := hdkey.NewDeriver(c.Derivation.Backend); err != nil {
		return fmt.Errorf("derivation.backend: %w", err)
	}
	if c.Derivation.DefaultPath != "" {
		if err := hdkey.ValidatePath(c.Derivation.DefaultPath); err != nil {
			return fmt.Errorf("derivation.default_path: %w", err)
		}
	}

	if c.Security.MinPassphraseLength < 0 {
		return fmt.Errorf("security.min_passphrase_length cannot be negative")
	}

	return nil
}

// LoadConfig loads the configuration from disk
func (cm *ConfigManager) LoadConfig() error {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if config.Wordlists == nil {
		config.Wordlists = map[string]CustomWordlist{}
	}

	cm.config = config
	return nil
}

// SaveConfig saves the configuration to disk
func (cm *ConfigManager) SaveConfig() error {
	configDir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cm.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cm.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfig returns the current configuration
func (cm *ConfigManager) GetConfig() *Config {
	return cm.config
}

// Path returns the file backing this manager
func (cm *ConfigManager) Path() string {
	return cm.configPath
}

// Wordlist resolves a language name to a wordlist. Custom entries override
// built-in languages of the same name. An empty name selects the default.
func (cm *ConfigManager) Wordlist(name string) (*wordlist.Wordlist, error) {
	if name == "" {
		name = cm.config.Defaults.Language
	}

	if custom, ok := cm.config.Wordlists[name]; ok {
		return wordlist.LoadFile(name, expandHome(custom.Path), custom.Separator)
	}
	return wordlist.ForLanguage(name)
}

// Codec builds a codec for the named language using the configured checksum
func (cm *ConfigManager) Codec(language string) (*mnemonic.Codec, error) {
	wl, err := cm.Wordlist(language)
	if err != nil {
		return nil, err
	}

	checksum, err := mnemonic.ChecksumFuncByName(cm.config.Checksum.Hash)
	if err != nil {
		return nil, err
	}

	return mnemonic.NewCodec(wl, mnemonic.WithChecksum(checksum))
}

// Deriver returns the configured key-tree backend
func (cm *ConfigManager) Deriver() (hdkey.Deriver, error) {
	return hdkey.NewDeriver(cm.config.Derivation.Backend)
}

// ValidatePassphrase applies the security policy to a passphrase
func (cm *ConfigManager) ValidatePassphrase(passphrase string) error {
	if cm.config.Security.RequirePassphrase && passphrase == "" {
		return fmt.Errorf("passphrase is required by security policy")
	}

	if passphrase != "" && len([]rune(passphrase)) < cm.config.Security.MinPassphraseLength {
		return fmt.Errorf("passphrase must be at least %d characters",
			cm.config.Security.MinPassphraseLength)
	}

	return nil
}

// getConfigPath returns the configuration file path
func getConfigPath() (string, error) {
	if customPath := os.Getenv(EnvConfigPath); customPath != "" {
		return customPath, nil
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "seedphrase", "config.json"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "seedphrase", "config.json"), nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
