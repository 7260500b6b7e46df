package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"shareit-backend/internal/client"
	"shareit-backend/internal/parse"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all items and their availability",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		c := newController(cmd)
		if err := c.Load(ctx); err != nil {
			return err
		}
		printItems(cmd, c.Items())
		return nil
	},
}

func newActionCmd(name, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := parse.ParseAction(cmd.Name())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			c := newController(cmd)
			if err := c.Load(ctx); err != nil {
				return err
			}
			item, err := c.Perform(ctx, args[0], action)
			if err != nil {
				return fmt.Errorf("%s %s: %w", action, args[0], err)
			}
			printItems(cmd, []client.Item{item})
			return nil
		},
	}
	return cmd
}

func printItems(cmd *cobra.Command, items []client.Item) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAVAILABILITY")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\n", item.ID, item.Name, item.Availability)
	}
	w.Flush()
}
