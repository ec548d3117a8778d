package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the working document",
	Long:  "Lists every field that would prevent the working document from being saved.",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	ve := s.ctrl.Violations()
	s.printer.PrintViolations(ve)
	if ve != nil {
		// Return error to indicate violations were found (exit code 1)
		return fmt.Errorf("validation found %d violation(s)", len(ve.Errors))
	}
	return nil
}
