package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Edit the skills list",
}

var skillAddCmd = &cobra.Command{
	Use:   "add [skill]",
	Short: "Append a skill",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		var skill string
		if len(args) == 1 {
			skill = args[0]
		}
		i := s.ctrl.AppendSkill(skill)
		if err := s.commit(cmd.Context()); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(s.out, "Added skill [%d]\n", i)
		return nil
	},
}

var skillUpdateCmd = &cobra.Command{
	Use:   "update <index> <skill>",
	Short: "Replace a skill",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := parseIndex("index", args[0])
		if err != nil {
			return err
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		return s.commitEdit(cmd.Context(), s.ctrl.UpdateSkill(i, args[1]))
	},
}

var skillRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove a skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := parseIndex("index", args[0])
		if err != nil {
			return err
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		removed, err := s.ctrl.RemoveSkill(i)
		if err != nil {
			return err
		}
		return s.reportRemoval(cmd, "skill", removed)
	},
}

func init() {
	skillCmd.AddCommand(skillAddCmd, skillUpdateCmd, skillRemoveCmd)
	rootCmd.AddCommand(skillCmd)
}
