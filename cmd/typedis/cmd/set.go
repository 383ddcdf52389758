package cmd

import (
	"fmt"
	"time"

	"github.com/AndrewDonelson/typedis"
	"github.com/spf13/cobra"
)

func newSetCmd(o *options) *cobra.Command {
	var (
		ttl time.Duration
		nx  bool
		xx  bool
	)
	c := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set the value of a key",
		Long: `Set a string value, optionally with an expiry or a condition.

Example:
  typedis set session:9 token --ttl 30m --nx`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := typedis.Expiry(ttl)
			opts.NX, opts.XX = nx, xx
			applied, err := typedis.Values[string, string](o.client).SetWithArgs(cmd.Context(), args[0], args[1], opts)
			if err != nil {
				return err
			}
			if !applied {
				fmt.Fprintln(cmd.OutOrStdout(), "(not set)")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
	c.Flags().DurationVar(&ttl, "ttl", 0, "expiry of the key")
	c.Flags().BoolVar(&nx, "nx", false, "only set if the key does not exist")
	c.Flags().BoolVar(&xx, "xx", false, "only set if the key exists")
	return c
}
