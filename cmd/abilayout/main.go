// Command abilayout analyzes the calldata and memory layout of ABI types and
// emits decoding functions that copy them with as few operations as possible.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	abilayout "github.com/branched-services/go-abilayout"
)

var rootCmd = &cobra.Command{
	Use:   "abilayout",
	Short: "Analyze ABI type layouts and generate calldata decoders",
	Long: `abilayout partitions ABI structs into bulk-copyable segments, unrolls
fixed-length arrays and emits calldata-to-memory decoding functions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(cfg.Logging.Level)
		if err != nil {
			return err
		}
		abilayout.SetLogger(log)
		return nil
	},
}

func main() {
	rootCmd.AddCommand(segmentsCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(generateCmd)

	registerFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		_ = abilayout.Logger().Sync()
		os.Exit(1)
	}
	_ = abilayout.Logger().Sync()
}

func registerFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "path to a TOML config file (default ./abilayout.toml if present)")
	flags.StringArray("type", nil, "ABI type to analyze, e.g. \"(uint256 a,bytes b)\" (repeatable)")
	flags.String("abi", "", "path to a contract ABI JSON file")
	flags.StringSlice("method", nil, "method whose inputs to analyze (repeatable, with --abi)")
	flags.String("format", "", "report format: text, yaml or msgpack")
	flags.String("log-level", "", "log level: debug, info, warn, error")
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "" {
		return zap.NewNop(), nil
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	return cfg.Build()
}
