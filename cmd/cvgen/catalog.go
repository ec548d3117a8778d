package main

import (
	"github.com/jonathan/cv-generator/internal/observability"
	"github.com/spf13/cobra"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages and levels offered",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		observability.NewPrinter(cmd.OutOrStdout()).PrintLanguages()
	},
}

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "List or select color palettes",
}

var paletteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List palettes, marking the selected one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		s.printer.PrintPalettes(s.ctrl.Snapshot().Palette.Name)
		return nil
	},
}

var paletteSelectCmd = &cobra.Command{
	Use:   "select <name>",
	Short: "Select a palette by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		if err := s.ctrl.SelectPalette(args[0]); err != nil {
			return err
		}
		return s.commit(cmd.Context())
	},
}

func init() {
	paletteCmd.AddCommand(paletteListCmd, paletteSelectCmd)
	rootCmd.AddCommand(languagesCmd, paletteCmd)
}
