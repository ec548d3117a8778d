package main

import (
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default document",
	Long:  "Replaces the working document with the default one. The saved document is kept until the next save.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		s.ctrl.ResetToDefault()
		return s.commit(cmd.Context())
	},
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Validate and save the working document",
	Long:  "Saves the working document when it has no violations. Nothing is written otherwise.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		if err := s.ctrl.Save(cmd.Context()); err != nil {
			return err
		}
		// The saved document now matches the draft
		return s.repo.DiscardDraft(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(resetCmd, saveCmd)
}
