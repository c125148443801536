package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) catalogCommand() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "catalog [query]",
		Short: "List catalog workouts, optionally filtered by name or category",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			n := 0
			for e := range a.catalog.Search(strings.Join(args, " ")) {
				if category != "" && !strings.EqualFold(e.Category.String(), category) {
					continue
				}
				fmt.Fprintf(out, "%-28s %s\n", e.Name, e.Category)
				n++
			}
			if n == 0 {
				fmt.Fprintln(out, "no matching workouts")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only show this category")
	return cmd
}
