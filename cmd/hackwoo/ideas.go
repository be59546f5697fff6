package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Jamolkhon5/hackwoo/internal/savedideas"
)

var ideasCmd = &cobra.Command{
	Use:   "ideas",
	Short: "Manage saved ideas",
}

var ideasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved ideas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		saved, closeDB, err := openSaved(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB()

		ideas := saved.All()
		if len(ideas) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved ideas")
			return nil
		}
		index := color.New(color.Faint)
		for i, idea := range ideas {
			index.Fprintf(cmd.OutOrStdout(), "%3d  ", i)
			fmt.Fprintln(cmd.OutOrStdout(), savedideas.Title(idea))
		}
		return nil
	},
}

var ideasDeleteCmd = &cobra.Command{
	Use:   "delete <index>",
	Short: "Delete a saved idea by its index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("index must be an integer: %q", args[0])
		}
		saved, closeDB, err := openSaved(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB()

		if err := saved.Delete(cmd.Context(), i); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Deleted idea %d\n", i)
		return nil
	},
}

func init() {
	ideasCmd.AddCommand(ideasListCmd, ideasDeleteCmd)
}
