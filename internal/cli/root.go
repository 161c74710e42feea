package cli

import (
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// LogLevel controls the default logger installed by main. --verbose lowers
// it to debug for the duration of a command.
var LogLevel = new(slog.LevelVar)

func init() {
	LogLevel.Set(slog.LevelWarn)
}

// NewRootCommand assembles the seedphrase command tree.
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "seedphrase",
		Short: "BIP39 mnemonic phrases: encode, validate and derive seeds",
		Long: `Seedphrase converts binary entropy into human-readable mnemonic phrases
and back, validates phrases against their checksum, and stretches a phrase
plus optional passphrase into a 64-byte seed.

Features:
- BIP39 encoding and decoding for all standard wordlists
- Checksum validation with typo hints
- PBKDF2-HMAC-SHA512 seed derivation with Unicode normalization
- BIP32 key derivation from the resulting seed
- Shamir splitting of a phrase into threshold shares`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				LogLevel.Set(slog.LevelDebug)
			}
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				color.NoColor = true
			}
			return nil
		},
	}

	rootCmd.AddCommand(
		NewGenerateCommand(),
		NewEncodeCommand(),
		NewDecodeCommand(),
		NewValidateCommand(),
		NewSeedCommand(),
		NewDeriveCommand(),
		NewWordlistCommand(),
		NewSplitCommand(),
		NewCombineCommand(),
		NewConfigCommand(),
	)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	return rootCmd
}
