package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Edit the roles of a work experience entry",
}

var roleAddCmd = &cobra.Command{
	Use:   "add <experience> [role]",
	Short: "Append a role",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		exp, err := parseIndex("experience", args[0])
		if err != nil {
			return err
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		var role string
		if len(args) == 2 {
			role = args[1]
		}
		i, err := s.ctrl.AppendRole(exp, role)
		if err != nil {
			return err
		}
		if err := s.commit(cmd.Context()); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(s.out, "Added role [%d] to experience [%d]\n", i, exp)
		return nil
	},
}

var roleUpdateCmd = &cobra.Command{
	Use:   "update <experience> <index> <role>",
	Short: "Replace a role",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		exp, err := parseIndex("experience", args[0])
		if err != nil {
			return err
		}
		i, err := parseIndex("index", args[1])
		if err != nil {
			return err
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		return s.commitEdit(cmd.Context(), s.ctrl.UpdateRole(exp, i, args[2]))
	},
}

var roleRemoveCmd = &cobra.Command{
	Use:   "remove <experience> <index>",
	Short: "Remove a role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		exp, err := parseIndex("experience", args[0])
		if err != nil {
			return err
		}
		i, err := parseIndex("index", args[1])
		if err != nil {
			return err
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		removed, err := s.ctrl.RemoveRole(exp, i)
		if err != nil {
			return err
		}
		return s.reportRemoval(cmd, "role", removed)
	},
}

func init() {
	roleCmd.AddCommand(roleAddCmd, roleUpdateCmd, roleRemoveCmd)
	rootCmd.AddCommand(roleCmd)
}
