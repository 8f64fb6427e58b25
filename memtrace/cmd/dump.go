package cmd

import (
	"fmt"
	"os"

	"github.com/sarchlab/memtrace/byutr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newDumpCommand(_ *viper.Viper) *cobra.Command {
	dumpCmd := &cobra.Command{
		Use:   "dump <trace>",
		Short: "Print the records of a BYU address trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatName, _ := cmd.Flags().GetString("format")
			limit, _ := cmd.Flags().GetUint64("limit")

			format, err := byutr.ParseDumpFormat(formatName)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			_, err = byutr.NewDumper(cmd.OutOrStdout(), format, limit).
				Dump(byutr.NewReader(f))
			if err != nil {
				return fmt.Errorf("dumping %s: %w", args[0], err)
			}

			return nil
		},
	}

	dumpCmd.Flags().String("format", string(byutr.DumpText),
		"output format: text or csv")
	dumpCmd.Flags().Uint64("limit", 0,
		"stop after this many records, 0 for all")

	return dumpCmd
}
