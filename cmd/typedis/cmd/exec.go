package cmd

import (
	"fmt"

	"github.com/AndrewDonelson/typedis"
	"github.com/spf13/cobra"
)

func newExecCmd(o *options) *cobra.Command {
	c := &cobra.Command{
		Use:   "exec <command> [args...]",
		Short: "Send a raw command",
		Long: `Send any command and print the decoded reply.

Example:
  typedis exec HSET user:1 name ann`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := make([]any, 0, len(args)-1)
			for _, a := range args[1:] {
				raw = append(raw, a)
			}
			f, err := o.client.Execute(cmd.Context(), args[0], raw)
			if _, isServer := typedis.IsServerError(err); err != nil && !isServer {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), f.String())
			return nil
		},
	}
	// arguments after the command name are passed through, dashes included
	c.Flags().SetInterspersed(false)
	return c
}
