// Package cmd provides the command-line interface for memtrace.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sarchlab/memtrace/mem/cache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tebeka/atexit"
)

const envPrefix = "MEMTRACE"

// NewRootCommand creates the memtrace command tree. Each tree owns its own
// viper instance.
func NewRootCommand() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "memtrace",
		Short: "memtrace converts Lackey memory logs into BYU address traces.",
		Long: `memtrace converts the memory-access log printed by Valgrind's ` +
			`Lackey tool into the 16-byte BYU Address Trace format. It can ` +
			`also dump traces and replay them through an L1I/L1D/L2 cache ` +
			`hierarchy.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			return initConfig(v, cfgFile)
		},
	}

	rootCmd.PersistentFlags().String("config", "",
		"config file (default: ./memtrace.yaml or ~/.config/memtrace/memtrace.yaml)")

	rootCmd.AddCommand(
		newConvertCommand(v),
		newDumpCommand(v),
		newSimulateCommand(v),
		newConfigCommand(v),
	)

	return rootCmd
}

// Execute runs the command line and exits through atexit so that registered
// recorders are flushed.
func Execute() {
	err := NewRootCommand().Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func initConfig(v *viper.Viper, cfgFile string) error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("memtrace")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "memtrace"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err = v.ReadInConfig()
	if err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) && cfgFile == "" {
		return nil
	}

	return fmt.Errorf("reading config: %w", err)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input", "logfile")
	v.SetDefault("output", "trace.tr")
	v.SetDefault("skip_malformed", false)
	v.SetDefault("record_db", "")
	v.SetDefault("monitor.port", 0)

	defaults := cache.DefaultConfig()
	levels := map[string]cache.LevelConfig{
		"l1i": defaults.L1I,
		"l1d": defaults.L1D,
		"l2":  defaults.L2,
	}

	for name, level := range levels {
		prefix := "cache." + name + "."
		v.SetDefault(prefix+"size", level.ByteSize)
		v.SetDefault(prefix+"ways", level.Ways)
		v.SetDefault(prefix+"block_size", level.BlockSize)
		v.SetDefault(prefix+"write_policy", level.WritePolicy)
		v.SetDefault(prefix+"replacement", level.Replacement)
	}

	v.SetDefault("cache.seed", defaults.Seed)
}

// bindFlags binds command flags to config keys. It runs in PreRunE so that
// only the executing command's flags are bound to shared keys.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) error {
	for key, flag := range keys {
		err := v.BindPFlag(key, cmd.Flags().Lookup(flag))
		if err != nil {
			return fmt.Errorf("binding flag %s: %w", flag, err)
		}
	}

	return nil
}
