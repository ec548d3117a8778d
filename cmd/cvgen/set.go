package main

import (
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Set a text field",
	Long: `Sets one text field of the working document. Fields are name, lastName,
title, summary and contact.<location|phone|email|linkedin|github|portfolio>.
Invalid values are kept and reported as a warning.`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	return s.commitEdit(cmd.Context(), s.ctrl.SetPath(args[0], args[1]))
}
