package cmd

import (
	"errors"
	"fmt"

	"github.com/AndrewDonelson/typedis"
	"github.com/spf13/cobra"
)

func newGetCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get the value of a key",
		Long: `Get the string value stored at a key.

Example:
  typedis get user:1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := typedis.Values[string, string](o.client).Get(cmd.Context(), args[0])
			if errors.Is(err, typedis.ErrNil) {
				fmt.Fprintln(cmd.OutOrStdout(), "(nil)")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}
