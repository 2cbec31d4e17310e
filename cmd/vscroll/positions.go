package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xqrs/vscroll"
	"github.com/xqrs/vscroll/store"
)

func newPositionsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "List persisted scroll positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(backend store.Backend) error {
				entries, err := backend.List(vscroll.PersistKeyPrefix)
				if err != nil {
					return fmt.Errorf("list positions: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No saved positions")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					updated := "-"
					if !entry.UpdatedAt.IsZero() {
						updated = entry.UpdatedAt.Local().Format("2006-01-02 15:04:05")
					}
					rows = append(rows, []string{
						strings.TrimPrefix(entry.Key, vscroll.PersistKeyPrefix),
						entry.Value,
						updated,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Key", "Offset", "Updated"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.AddCommand(newPositionsClearCommand(ctx))
	return cmd
}

func newPositionsClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [key]",
		Short: "Forget one saved position, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(backend store.Backend) error {
				var keys []string
				if len(args) == 1 {
					keys = []string{vscroll.PersistKey(args[0])}
				} else {
					entries, err := backend.List(vscroll.PersistKeyPrefix)
					if err != nil {
						return fmt.Errorf("list positions: %w", err)
					}
					for _, entry := range entries {
						keys = append(keys, entry.Key)
					}
				}
				for _, key := range keys {
					if err := backend.Delete(key); err != nil {
						return fmt.Errorf("delete %s: %w", key, err)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d position(s)\n", len(keys))
				return nil
			})
		},
	}
}
