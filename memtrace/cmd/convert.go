package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/rs/xid"
	"github.com/sarchlab/memtrace/datarecording"
	"github.com/sarchlab/memtrace/lackey"
	"github.com/sarchlab/memtrace/mem/trace"
	"github.com/sarchlab/memtrace/monitoring"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newConvertCommand(v *viper.Viper) *cobra.Command {
	convertCmd := &cobra.Command{
		Use:   "convert [in] [out]",
		Short: "Convert a Lackey log into a BYU address trace",
		Long: `Convert reads a Lackey memory log (default "logfile") and writes ` +
			`one 16-byte BYU record per instruction fetch, load and store ` +
			`(default "trace.tr"). Comment lines, modify accesses and unknown ` +
			`access codes are skipped.`,
		Args: cobra.MaximumNArgs(2),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(v, cmd, map[string]string{
				"skip_malformed": "skip-malformed",
				"record_db":      "record-db",
				"monitor.port":   "monitor-port",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := convertOptions{
				input:         v.GetString("input"),
				output:        v.GetString("output"),
				skipMalformed: v.GetBool("skip_malformed"),
				recordDB:      v.GetString("record_db"),
				monitorPort:   v.GetInt("monitor.port"),
			}

			if len(args) > 0 {
				opts.input = args[0]
			}

			if len(args) > 1 {
				opts.output = args[1]
			}

			opts.verbose, _ = cmd.Flags().GetBool("verbose")
			opts.monitor, _ = cmd.Flags().GetBool("monitor")
			opts.openBrowser, _ = cmd.Flags().GetBool("open-browser")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return runConvert(ctx, opts, cmd.ErrOrStderr())
		},
	}

	convertCmd.Flags().Bool("skip-malformed", false,
		"log malformed lines and keep going instead of aborting")
	convertCmd.Flags().BoolP("verbose", "v", false,
		"print every emitted record and skipped line")
	convertCmd.Flags().String("record-db", "",
		"record accesses and a run summary into this SQLite database")
	convertCmd.Flags().Bool("monitor", false,
		"serve conversion progress over HTTP")
	convertCmd.Flags().Int("monitor-port", 0,
		"port of the monitoring server, random if below 1000")
	convertCmd.Flags().Bool("open-browser", false,
		"open the monitoring page in a browser")

	return convertCmd
}

type convertOptions struct {
	input         string
	output        string
	skipMalformed bool
	verbose       bool
	recordDB      string
	monitor       bool
	monitorPort   int
	openBrowser   bool
}

type convertStatus struct {
	Input         string
	Output        string
	SkipMalformed bool
	RecordDB      string
}

func runConvert(ctx context.Context, opts convertOptions, out io.Writer) error {
	logger := log.New(out, "", 0)

	builder := lackey.MakeBuilder().WithLogger(logger)
	if opts.skipMalformed {
		builder = builder.WithMalformedLinePolicy(lackey.SkipAndLog)
	}

	var recorder datarecording.DataRecorder
	if opts.recordDB != "" {
		var err error

		recorder, err = openRecorder(opts.recordDB)
		if err != nil {
			return err
		}
		defer recorder.Close()
	}

	var monitor *monitoring.Monitor
	if opts.monitor {
		monitor = monitoring.NewMonitor().WithPortNumber(opts.monitorPort)
		monitor.StartServer()

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(), time.Second)
			defer cancel()

			_ = monitor.Shutdown(shutdownCtx)
		}()

		bar := monitor.CreateProgressBar("Converting "+opts.input,
			inputSize(opts.input))
		defer monitor.CompleteProgressBar(bar)

		builder = builder.WithProgressTracker(bar)

		if opts.openBrowser {
			err := monitor.OpenBrowser()
			if err != nil {
				logger.Printf("cannot open browser: %v", err)
			}
		}
	}

	converter := builder.Build()

	if opts.verbose {
		converter.AcceptHook(trace.NewLogTracer(logger))
	}

	if recorder != nil {
		converter.AcceptHook(trace.NewDBTracer(recorder))
	}

	if monitor != nil {
		monitor.RegisterStatus("convert", &convertStatus{
			Input:         opts.input,
			Output:        opts.output,
			SkipMalformed: opts.skipMalformed,
			RecordDB:      opts.recordDB,
		})
	}

	stats, err := converter.ConvertFile(ctx, opts.input, opts.output)

	if recorder != nil {
		trace.RecordConversion(recorder, trace.ConversionRun{
			RunID:  xid.New().String(),
			Input:  opts.input,
			Output: opts.output,
			Err:    err,
		}, stats)
	}

	printStats(out, stats)

	if err != nil {
		return fmt.Errorf("converting %s: %w", opts.input, err)
	}

	return nil
}

func inputSize(path string) uint64 {
	info, err := os.Stat(path)
	if err != nil || info.Size() < 0 {
		return 0
	}

	return uint64(info.Size())
}

func printStats(w io.Writer, stats lackey.Stats) {
	fmt.Fprintf(w, "lines: %d, records: %d "+
		"(fetch %d, read %d, write %d), skipped: %d "+
		"(comment %d, blank %d, modify %d, unknown %d, malformed %d)\n",
		stats.Lines, stats.Records(),
		stats.Fetches, stats.Reads, stats.Writes,
		stats.Skipped(),
		stats.Comments, stats.Blanks, stats.Modifies, stats.Unknowns,
		stats.Malformed)
}

func openRecorder(name string) (datarecording.DataRecorder, error) {
	recorder, err := datarecording.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening record db: %w", err)
	}

	return recorder, nil
}
