package main

import (
	"fmt"

	"github.com/jonathan/cv-generator/internal/types"
	"github.com/spf13/cobra"
)

var (
	experienceCompany string
	experiencePeriod  string
	experienceRoles   []string
)

var experienceCmd = &cobra.Command{
	Use:   "experience",
	Short: "Edit the work experience list",
}

var experienceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a work experience entry",
	Long:  "Appends a work experience entry. Without --role it starts with one placeholder role.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		i := s.ctrl.AppendExperience(types.WorkExperienceEntry{
			Company: experienceCompany,
			Period:  experiencePeriod,
			Roles:   experienceRoles,
		})
		if err := s.commit(cmd.Context()); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(s.out, "Added experience [%d]\n", i)
		return nil
	},
}

var experienceUpdateCmd = &cobra.Command{
	Use:   "update <index>",
	Short: "Change the given fields of a work experience entry",
	Long:  "Changes the given fields. Passing --role replaces every role of the entry.",
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

		var entry types.WorkExperienceEntry
		if doc := s.ctrl.Snapshot(); i >= 0 && i < len(doc.WorkExperience) {
			entry = doc.WorkExperience[i]
		}
		flags := cmd.Flags()
		if flags.Changed("company") {
			entry.Company = experienceCompany
		}
		if flags.Changed("period") {
			entry.Period = experiencePeriod
		}
		entry.Roles = nil
		if flags.Changed("role") {
			entry.Roles = experienceRoles
		}

		return s.commitEdit(cmd.Context(), s.ctrl.UpdateExperience(i, entry))
	},
}

var experienceRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove a work experience entry",
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
		removed, err := s.ctrl.RemoveExperience(i)
		if err != nil {
			return err
		}
		return s.reportRemoval(cmd, "experience entry", removed)
	},
}

func init() {
	for _, c := range []*cobra.Command{experienceAddCmd, experienceUpdateCmd} {
		c.Flags().StringVar(&experienceCompany, "company", "", "Company name")
		c.Flags().StringVar(&experiencePeriod, "period", "", "Period, e.g. 2020 - Presente")
		c.Flags().StringArrayVar(&experienceRoles, "role", nil, "Role or responsibility (repeatable)")
	}
	experienceCmd.AddCommand(experienceAddCmd, experienceUpdateCmd, experienceRemoveCmd)
	rootCmd.AddCommand(experienceCmd)
}
