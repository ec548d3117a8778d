package main

import (
	"fmt"

	"github.com/jonathan/cv-generator/internal/types"
	"github.com/spf13/cobra"
)

var (
	languageName  string
	languageLevel string
)

var languageCmd = &cobra.Command{
	Use:   "language",
	Short: "Edit the spoken languages list",
}

var languageAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a language",
	Long:  "Appends a language. The language defaults to Inglés and the level to the first one offered for it.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		i, err := s.ctrl.AppendLanguage(types.LanguageEntry{Language: languageName, Level: languageLevel})
		if err != nil {
			return err
		}
		if err := s.commit(cmd.Context()); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(s.out, "Added language [%d]\n", i)
		return nil
	},
}

var languageSetCmd = &cobra.Command{
	Use:   "set <index> <language>",
	Short: "Change a language; its level resets to the first one offered",
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
		return s.commitEdit(cmd.Context(), s.ctrl.SetLanguage(i, args[1]))
	},
}

var languageLevelCmd = &cobra.Command{
	Use:   "level <index> <level>",
	Short: "Change the level of a language",
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
		if err := s.ctrl.SetLevel(i, args[1]); err != nil {
			return err
		}
		return s.commit(cmd.Context())
	},
}

var languageRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove a language",
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
		removed, err := s.ctrl.RemoveLanguage(i)
		if err != nil {
			return err
		}
		return s.reportRemoval(cmd, "language", removed)
	},
}

func init() {
	languageAddCmd.Flags().StringVar(&languageName, "language", "", "Language name")
	languageAddCmd.Flags().StringVar(&languageLevel, "level", "", "Proficiency level")
	languageCmd.AddCommand(languageAddCmd, languageSetCmd, languageLevelCmd, languageRemoveCmd)
	rootCmd.AddCommand(languageCmd)
}
