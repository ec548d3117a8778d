package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Set or clear the profile image",
}

var imageSetCmd = &cobra.Command{
	Use:   "set <path>",
	Short: "Embed an image file as the profile image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		if err := s.ctrl.UploadProfileImage(data); err != nil {
			return err
		}
		return s.commit(cmd.Context())
	},
}

var imageClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the profile image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		s.ctrl.ClearProfileImage()
		return s.commit(cmd.Context())
	},
}

func init() {
	imageCmd.AddCommand(imageSetCmd, imageClearCmd)
	rootCmd.AddCommand(imageCmd)
}
