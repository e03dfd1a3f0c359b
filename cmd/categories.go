package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories offered by the configured question source",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.Provider.Timeout)
		defer cancel()
		cats, err := e.source.ListCategories(ctx)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-4s  %s\n", "ID", "Name")
		fmt.Fprintln(out, strings.Repeat("─", 48))
		for _, c := range cats {
			fmt.Fprintf(out, "%-4d  %s\n", c.ID, c.Name)
		}
		return nil
	},
}
