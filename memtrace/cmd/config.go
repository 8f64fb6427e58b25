package cmd

import (
	"github.com/sarchlab/memtrace/mem/cache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

type effectiveConfig struct {
	Cache cache.Config `mapstructure:"cache" yaml:"cache"`
}

func newConfigCommand(v *viper.Viper) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective cache configuration as YAML",
		Long: `Config prints the cache configuration after defaults, the ` +
			`config file and MEMTRACE_* environment variables are applied. ` +
			`The output can be saved as memtrace.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("cache-config")

			cfg, err := loadCacheConfig(v, cfgPath)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)

			err = enc.Encode(effectiveConfig{Cache: cfg})
			if err != nil {
				return err
			}

			return enc.Close()
		},
	}

	configCmd.Flags().String("cache-config", "",
		"YAML file describing the l1i, l1d and l2 levels")

	return configCmd
}
