package main

import (
	"fmt"

	"github.com/jonathan/cv-generator/internal/types"
	"github.com/spf13/cobra"
)

var (
	educationDegree      string
	educationInstitution string
	educationPeriod      string
)

var educationCmd = &cobra.Command{
	Use:   "education",
	Short: "Edit the education list",
}

var educationAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append an education entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		i := s.ctrl.AppendEducation(types.EducationEntry{
			Degree:      educationDegree,
			Institution: educationInstitution,
			Period:      educationPeriod,
		})
		if err := s.commit(cmd.Context()); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(s.out, "Added education [%d]\n", i)
		return nil
	},
}

var educationUpdateCmd = &cobra.Command{
	Use:   "update <index>",
	Short: "Change the given fields of an education entry",
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

		var entry types.EducationEntry
		if doc := s.ctrl.Snapshot(); i >= 0 && i < len(doc.Education) {
			entry = doc.Education[i]
		}
		flags := cmd.Flags()
		if flags.Changed("degree") {
			entry.Degree = educationDegree
		}
		if flags.Changed("institution") {
			entry.Institution = educationInstitution
		}
		if flags.Changed("period") {
			entry.Period = educationPeriod
		}
		return s.commitEdit(cmd.Context(), s.ctrl.UpdateEducation(i, entry))
	},
}

var educationRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove an education entry",
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
		removed, err := s.ctrl.RemoveEducation(i)
		if err != nil {
			return err
		}
		return s.reportRemoval(cmd, "education entry", removed)
	},
}

func init() {
	for _, c := range []*cobra.Command{educationAddCmd, educationUpdateCmd} {
		c.Flags().StringVar(&educationDegree, "degree", "", "Degree or title")
		c.Flags().StringVar(&educationInstitution, "institution", "", "Institution")
		c.Flags().StringVar(&educationPeriod, "period", "", "Period, e.g. 2015 - 2019")
	}
	educationCmd.AddCommand(educationAddCmd, educationUpdateCmd, educationRemoveCmd)
	rootCmd.AddCommand(educationCmd)
}
