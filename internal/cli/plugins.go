package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) pluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List registered connector plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tKIND\tTITLE\tVERSION")
			for _, c := range a.registry(nil).List() {
				d := c.Descriptor()
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Slug, d.Kind, d.Title, d.Version)
			}
			return tw.Flush()
		},
	}
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <slug>",
		Short: "Print the project configuration form of a plugin as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := lookup(a.registry(nil), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			return enc.Encode(c.Descriptor().ConfigSchema)
		},
	}
}
