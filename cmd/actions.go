package cmd

import (
	"maps"
	"slices"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/asaidimu/crudsql/pkg/core"
)

func newActionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List supported actions, the keys each accepts and the filter operators",
		RunE: func(cmd *cobra.Command, args []string) error {
			actions := pterm.TableData{{"action", "keys"}}
			for _, action := range core.Actions {
				actions = append(actions, []string{string(action), strings.Join(core.AllowedKeys(action), ", ")})
			}
			if err := pterm.DefaultTable.
				WithHasHeader().
				WithWriter(cmd.OutOrStdout()).
				WithData(actions).
				Render(); err != nil {
				return err
			}

			ops := core.Operators()
			operators := pterm.TableData{{"operator", "sql"}}
			for _, name := range slices.Sorted(maps.Keys(ops)) {
				operators = append(operators, []string{string(name), ops[name]})
			}
			return pterm.DefaultTable.
				WithHasHeader().
				WithWriter(cmd.OutOrStdout()).
				WithData(operators).
				Render()
		},
	}
}
