package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	serverrun "github.com/Akash-pugazh/gg-flash-mgr/internal/cmd/server"
	"github.com/Akash-pugazh/gg-flash-mgr/internal/config"
	"github.com/Akash-pugazh/gg-flash-mgr/internal/engine"
	"github.com/Akash-pugazh/gg-flash-mgr/internal/filter"
	"github.com/Akash-pugazh/gg-flash-mgr/pkg/fsutil"
	logpkg "github.com/Akash-pugazh/gg-flash-mgr/pkg/log"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "flash-mgr",
		Short: "Append-only fixed-record measurement log",
		Long:  "flash-mgr manages an append-only log of fixed-size measurements with bounded-memory eviction.",
	}
	rootCmd.PersistentFlags().String("config", os.Getenv("FLASHMGR_CONFIG"), "Config file path (JSON or YAML)")
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (overrides config)")
	rootCmd.PersistentFlags().String("log-level", os.Getenv("FLASHMGR_LOG_LEVEL"), "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().String("log-format", os.Getenv("FLASHMGR_LOG_FORMAT"), "Log format: text|json")

	rootCmd.AddCommand(newServerCommand())
	rootCmd.AddCommand(newAppendCommand())
	rootCmd.AddCommand(newReadCommand())
	rootCmd.AddCommand(newStatusCommand())
	rootCmd.AddCommand(newEvictCommand())
	rootCmd.AddCommand(newCleanupCommand())
	rootCmd.AddCommand(newFormatCommand())
	rootCmd.AddCommand(newFSCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration: file, then env overlay,
// then flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	config.FromEnv(&cfg)
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	return cfg, nil
}

func newCLILogger(cmd *cobra.Command) logpkg.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	logger, err := logpkg.ApplyConfig(&logpkg.Config{Level: level, Format: format})
	if err != nil {
		return logpkg.NewLogger()
	}
	return logger
}

// openEngine builds and opens an engine for one-shot CLI commands. The
// returned closer flushes the ledger.
func openEngine(cmd *cobra.Command) (*engine.Engine, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	eng, err := engine.New(cfg, newCLILogger(cmd))
	if err != nil {
		return nil, nil, err
	}
	if err := eng.Open(); err != nil {
		return nil, nil, err
	}
	return eng, func() { _ = eng.Close() }, nil
}

func newServerCommand() *cobra.Command {
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	startCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the flash-mgr HTTP server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			httpAddr, _ := cmd.Flags().GetString("http")
			level, _ := cmd.Flags().GetString("log-level")
			format, _ := cmd.Flags().GetString("log-format")
			return serverrun.Run(context.Background(), serverrun.Options{
				HTTPAddr:  httpAddr,
				LogLevel:  level,
				LogFormat: format,
				Config:    cfg,
			})
		},
	}
	startCmd.Flags().String("http", ":8080", "HTTP listen address")
	serverCmd.AddCommand(startCmd)
	return serverCmd
}

func newAppendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "append",
		Short: "Append one measurement",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, done, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer done()

			typ, _ := cmd.Flags().GetUint8("type")
			unit, _ := cmd.Flags().GetUint8("unit")
			value, _ := cmd.Flags().GetFloat64("value")
			ts, _ := cmd.Flags().GetUint32("timestamp")

			valueX1000 := int32(math.Round(value * 1000))
			if cmd.Flags().Changed("timestamp") {
				_, err = eng.AppendAt(ts, typ, unit, valueX1000)
			} else {
				_, err = eng.Append(typ, unit, valueX1000)
			}
			return err
		},
	}
	cmd.Flags().Uint8("type", 0, "Type tag")
	cmd.Flags().Uint8("unit", 0, "Unit tag")
	cmd.Flags().Float64("value", 0, "Measurement value (stored as value*1000)")
	cmd.Flags().Uint32("timestamp", 0, "Explicit timestamp (seconds since epoch)")
	return cmd
}

func newReadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read records oldest-first as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, done, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer done()

			limit, _ := cmd.Flags().GetUint32("limit")
			expr, _ := cmd.Flags().GetString("filter")
			drain, _ := cmd.Flags().GetBool("evict")

			flt, err := filter.New(expr)
			if err != nil {
				return fmt.Errorf("invalid filter: %w", err)
			}
			recs, err := eng.ReadChunk(limit)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, rec := range recs {
				if !flt.Match(rec) {
					continue
				}
				if err := enc.Encode(map[string]interface{}{
					"id":          rec.ID,
					"timestamp":   rec.Timestamp,
					"type":        rec.Type,
					"unit":        rec.Unit,
					"value_x1000": rec.Value,
					"value":       rec.RealValue(),
				}); err != nil {
					return err
				}
			}
			if drain && len(recs) > 0 {
				// Evict exactly what was read, filtered or not: the filter
				// selects output, not retention.
				if _, err := eng.Evict(uint32(len(recs))); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Uint32("limit", 0, "Maximum records to read (0 = all)")
	cmd.Flags().String("filter", "", "CEL filter, e.g. 'kind == 3 && value > 2.5'")
	cmd.Flags().Bool("evict", false, "Evict the read records afterwards")
	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show ledger counters and usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, done, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer done()
			st, err := eng.Status()
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(st)
		},
	}
}

func newEvictCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evict",
		Short: "Evict the oldest N records",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, done, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer done()
			count, _ := cmd.Flags().GetUint32("count")
			evicted, err := eng.Evict(count)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "evicted %d records\n", evicted)
			return nil
		},
	}
	cmd.Flags().Uint32("count", 0, "Number of oldest records to evict")
	return cmd
}

func newCleanupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Evict oldest records down to a target count",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, done, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer done()
			target, _ := cmd.Flags().GetUint32("target")
			evicted, err := eng.Cleanup(target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "evicted %d records\n", evicted)
			return nil
		},
	}
	cmd.Flags().Uint32("target", 0, "Number of records to keep")
	return cmd
}

func newFormatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "format",
		Short: "Delete all records and reset counters (destructive, irreversible)",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, done, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer done()
			return eng.Format()
		},
	}
}

func newFSCommand() *cobra.Command {
	fsCmd := &cobra.Command{Use: "fs", Short: "Filesystem utilities"}

	usageCmd := &cobra.Command{
		Use:   "usage",
		Short: "Show filesystem usage of the data directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, done, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer done()
			du, err := eng.FSUsage()
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(du)
		},
	}

	lsCmd := &cobra.Command{
		Use:   "ls <dir>",
		Short: "List files under a directory recursively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for entry, err := range fsutil.Walk(args[0]) {
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", entry.Path, err)
					continue
				}
				kind := "FILE"
				size := entry.Info.Size()
				if entry.Info.IsDir() {
					kind = "DIR"
					size = 0
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-4s %10d %s\n", kind, size, entry.Path)
			}
			return nil
		},
	}

	sumCmd := &cobra.Command{
		Use:   "sum <file>",
		Short: "Print the content checksum of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := fsutil.Checksum(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%016x  %s\n", sum, args[0])
			return nil
		},
	}

	fsCmd.AddCommand(usageCmd, lsCmd, sumCmd)
	return fsCmd
}
