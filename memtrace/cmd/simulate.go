package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/xid"
	"github.com/sarchlab/memtrace/byutr"
	"github.com/sarchlab/memtrace/datarecording"
	"github.com/sarchlab/memtrace/mem/cache"
	"github.com/sarchlab/memtrace/mem/trace"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

func newSimulateCommand(v *viper.Viper) *cobra.Command {
	simulateCmd := &cobra.Command{
		Use:   "simulate <trace>",
		Short: "Replay a BYU address trace through a cache hierarchy",
		Long: `Simulate feeds every fetch, read and write of a trace through ` +
			`split L1 instruction and data caches backed by a unified L2, ` +
			`then prints hit and miss counts per level.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(v, cmd, map[string]string{
				"record_db": "record-db",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("cache-config")
			recordAccesses, _ := cmd.Flags().GetBool("record-accesses")
			recordDB := v.GetString("record_db")

			if recordAccesses && recordDB == "" {
				return errors.New("--record-accesses requires --record-db")
			}

			cfg, err := loadCacheConfig(v, cfgPath)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("seed") {
				cfg.Seed, _ = cmd.Flags().GetInt64("seed")
			}

			err = cfg.Validate()
			if err != nil {
				return fmt.Errorf("invalid cache config: %w", err)
			}

			hierarchy := cache.MakeBuilder().WithConfig(cfg).Build()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var recorder datarecording.DataRecorder
			if recordDB != "" {
				recorder, err = openRecorder(recordDB)
				if err != nil {
					return err
				}
				defer recorder.Close()

				if recordAccesses {
					hierarchy.AcceptHook(trace.NewCacheTracer(recorder))
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			err = hierarchy.Replay(ctx, byutr.NewReader(f))
			if err != nil {
				return fmt.Errorf("replaying %s: %w", args[0], err)
			}

			report := hierarchy.Summary()
			report.Print(cmd.OutOrStdout())

			if recorder != nil {
				trace.RecordCacheReport(recorder, xid.New().String(), report)
			}

			return nil
		},
	}

	simulateCmd.Flags().String("cache-config", "",
		"YAML file describing the l1i, l1d and l2 levels")
	simulateCmd.Flags().String("record-db", "",
		"record the per-level report into this SQLite database")
	simulateCmd.Flags().Bool("record-accesses", false,
		"also record every cache lookup, requires --record-db")
	simulateCmd.Flags().Int64("seed", 1,
		"seed of the random replacement policy")

	return simulateCmd
}

// loadCacheConfig resolves the cache configuration from viper and then
// applies the levels given in the YAML file at path, if any.
func loadCacheConfig(v *viper.Viper, path string) (cache.Config, error) {
	settings := effectiveConfig{Cache: cache.DefaultConfig()}

	// Unmarshal walks every leaf key, so environment overrides of nested
	// keys are applied. UnmarshalKey would skip them.
	err := v.Unmarshal(&settings)
	if err != nil {
		return settings.Cache, fmt.Errorf("reading cache config: %w", err)
	}

	cfg := settings.Cache

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}
