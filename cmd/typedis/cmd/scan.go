package cmd

import (
	"fmt"

	"github.com/AndrewDonelson/typedis"
	"github.com/spf13/cobra"
)

func newScanCmd(o *options) *cobra.Command {
	var scan typedis.ScanArgs
	c := &cobra.Command{
		Use:   "scan",
		Short: "List keys incrementally",
		Long: `Walk the keyspace with SCAN and print one key per line. Keys may
repeat when the keyspace changes during the walk.

Example:
  typedis scan --match 'user:*' --count 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cur, err := typedis.Keys[string](o.client).Scan(scan)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for page, err := range cur.Pages(cmd.Context()) {
				if err != nil {
					return err
				}
				for _, k := range page {
					fmt.Fprintln(out, k)
				}
			}
			return nil
		},
	}
	c.Flags().StringVar(&scan.Match, "match", "", "glob pattern keys must match")
	c.Flags().Int64Var(&scan.Count, "count", 0, "page size hint")
	c.Flags().StringVar(&scan.Type, "type", "", "only keys holding this type")
	return c
}
