package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joshuapare/hivedigger/hive"
	"github.com/joshuapare/hivedigger/internal/config"
	"github.com/joshuapare/hivedigger/internal/logger"
	"github.com/joshuapare/hivedigger/internal/output"
	"github.com/joshuapare/hivedigger/pkg/syskey"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	cfgFile string
	cfg     config.Config
	format  output.Format
}

// flagKeys binds persistent flags to config keys; a flag set on the command
// line wins over the file and the environment.
var flagKeys = map[string]string{
	"log-level":           "log.level",
	"log-format":          "log.format",
	"log-file":            "log.file",
	"format":              "output.format",
	"hint-fallback":       "lookup.hint_fallback",
	"segment-size":        "lookup.segment_size",
	"resolve-control-set": "syskey.resolve_control_set",
	"concurrency":         "batch.concurrency",
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "hivedigger",
		Short: "Read values out of offline Windows registry hive files",
		Long: `hivedigger decodes Windows registry hive files (regf) without Windows.
It walks key paths through the hive's own structures and extracts value data,
most commonly the syskey material of a SYSTEM hive.

Hive files may be given plain or compressed with gzip, zstd, xz or bzip2;
"-" reads the hive from standard input.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default ./hivedigger.yaml or ~/.config/hivedigger/hivedigger.yaml)")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.String("log-format", "console", "log format: console or json")
	flags.String("log-file", "", "also write logs to this file")
	flags.StringP("format", "o", "hex", "output format: raw, hex or json")
	flags.Bool("hint-fallback", false, "compare every subkey name when no lf/lh hint matches")
	flags.Int("segment-size", 16344, "bytes taken from each big-data segment")
	flags.Bool("resolve-control-set", true, "fall back to Select\\Current when CurrentControlSet is absent")
	flags.IntP("concurrency", "j", 4, "hives processed at once")

	cmd.AddCommand(
		newSyskeyCmd(a),
		newGetCmd(a),
		newLsCmd(a),
		newInfoCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// init resolves configuration and logging before any subcommand runs.
func (a *app) init(cmd *cobra.Command) error {
	v := config.New(a.cfgFile)
	if err := bindFlags(v, cmd); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if a.format, err = output.ParseFormat(cfg.Output.Format); err != nil {
		return err
	}
	if err := logger.Init(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	}); err != nil {
		return err
	}
	a.cfg = cfg
	logger.Log.Debugw("configuration loaded",
		"file", v.ConfigFileUsed(),
		"format", a.format,
		"hint_fallback", cfg.Lookup.HintFallback,
		"segment_size", cfg.Lookup.SegmentSize,
	)
	return nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	return nil
}

func (a *app) hiveOptions() hive.Options {
	return hive.Options{
		Logger:       logger.Desugar(),
		HintFallback: a.cfg.Lookup.HintFallback,
		SegmentSize:  a.cfg.Lookup.SegmentSize,
	}
}

func (a *app) syskeyOptions() syskey.Options {
	return syskey.Options{ResolveControlSet: a.cfg.Syskey.ResolveControlSet}
}

func (a *app) printer(w io.Writer) *output.Printer {
	return output.New(w, a.format)
}

// openHive opens path with the configured decoder options.
func (a *app) openHive(path string) (*hive.Hive, error) {
	logger.Log.Debugw("opening hive", "path", path)
	h, err := hive.Open(path, a.hiveOptions())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}
