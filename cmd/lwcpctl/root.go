package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmuck/lwcp/internal/config"
	"github.com/danmuck/lwcp/internal/logging"
)

type rootOptions struct {
	ConfigPath string
	LogLevel   string
	Format     string

	cfg config.Config
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "lwcpctl",
		Short:         "Decode, format and build LWCP messages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a TOML config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (trace|debug|info|warn|error|disabled)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "", "output format (text|json|yaml)")

	cmd.AddCommand(newDecodeCommand(opts))
	cmd.AddCommand(newFmtCommand(opts))
	cmd.AddCommand(newBuildCommand(opts))
	return cmd
}

// load resolves the config file, then lets flags override it.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		lvl, ok := logging.ParseLevel(o.LogLevel)
		if !ok {
			return fmt.Errorf("invalid log level %q", o.LogLevel)
		}
		cfg.Log.Level = lvl
	}
	if cmd.Flags().Changed("format") {
		cfg.Decode.Format = strings.ToLower(strings.TrimSpace(o.Format))
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	logging.ConfigureWith(cfg.Log)
	o.cfg = cfg
	return nil
}
