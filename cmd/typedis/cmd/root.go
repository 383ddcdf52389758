// Package cmd implements the typedis command line tool.
package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/AndrewDonelson/typedis"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// options are the global flags shared by every subcommand.
type options struct {
	configPath string
	addr       string
	db         int
	protocol   int
	timeout    time.Duration
	verbose    bool

	client *typedis.Client
}

// config resolves the client configuration: the --config file when given,
// with explicitly set flags taking precedence.
func (o *options) config(cmd *cobra.Command, stderr io.Writer) (typedis.Config, error) {
	var cfg typedis.Config
	if o.configPath != "" {
		var err error
		if cfg, err = typedis.LoadConfig(o.configPath); err != nil {
			return cfg, err
		}
	}
	flags := cmd.Flags()
	if o.configPath == "" || flags.Changed("addr") {
		cfg.Addr = o.addr
	}
	if o.configPath == "" || flags.Changed("db") {
		cfg.DB = o.db
	}
	if o.configPath == "" || flags.Changed("protocol") {
		cfg.Protocol = o.protocol
	}
	if o.configPath == "" || flags.Changed("timeout") {
		cfg.CommandTimeout = o.timeout
	}
	level := zerolog.WarnLevel
	if o.verbose {
		level = zerolog.DebugLevel
	}
	cfg.Logger = typedis.ZerologLogger(zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level).With().Timestamp().Logger())
	return cfg, nil
}

// NewRootCmd builds the typedis command tree writing results to stdout
// and logs to stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "typedis",
		Short: "typedis - typed Redis client",
		Long: `typedis talks to a Redis server through the typedis client layer.
Keys and values are treated as strings.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			cfg, err := o.config(cmd, stderr)
			if err != nil {
				return err
			}
			c, err := typedis.NewClient(cfg)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			o.client = c
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if o.client == nil {
				return nil
			}
			return o.client.Close()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configPath, "config", "c", "", "YAML or TOML config file")
	pf.StringVarP(&o.addr, "addr", "a", "localhost:6379", "server address")
	pf.IntVar(&o.db, "db", 0, "database number")
	pf.IntVar(&o.protocol, "protocol", 3, "RESP protocol version (2 or 3)")
	pf.DurationVar(&o.timeout, "timeout", 5*time.Second, "per-command timeout (0 disables)")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "log every command at debug level")

	root.AddCommand(
		newGetCmd(o),
		newSetCmd(o),
		newScanCmd(o),
		newExecCmd(o),
		newVersionCmd(),
	)
	return root
}
