package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/cv-generator/internal/export"
	"github.com/spf13/cobra"
)

var (
	previewOut string
	exportDir  string
	exportAll  bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Write the A4 HTML preview",
	Long:  "Renders the working document to an HTML file named CV_<name>_<lastName>.html unless --out is given.",
	Args:  cobra.NoArgs,
	RunE:  runPreview,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the working document as PDF",
	Long: `Prints the working document to CV_<name>_<lastName>.pdf. With --all the
HTML preview is written next to it, rendered from the same snapshot.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "Output HTML file")
	exportCmd.Flags().StringVarP(&exportDir, "out-dir", "o", ".", "Output directory")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Also write the HTML preview")
	rootCmd.AddCommand(previewCmd, exportCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	// The preview never needs a browser
	doc := s.ctrl.Snapshot()
	art, err := export.NewExporter(nil, s.cfg.Labels()).Preview(&doc)
	if err != nil {
		return err
	}

	path := previewOut
	if path == "" {
		path = art.Filename
	}
	if err := writeFile(path, art.Data); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "Preview: %s\n", path)
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	exporter, err := s.exporter()
	if err != nil {
		return err
	}

	doc := s.ctrl.Snapshot()
	if exportAll {
		ctx, cancel := context.WithTimeout(cmd.Context(), s.cfg.Export.Timeout)
		defer cancel()
		arts, err := exporter.Bundle(ctx, &doc)
		if err != nil {
			return err
		}
		for _, art := range arts {
			path := filepath.Join(exportDir, art.Filename)
			if err := writeFile(path, art.Data); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(s.out, "Wrote %s\n", path)
		}
		return nil
	}

	manager := export.NewManager(exporter, s.cfg.Export.Timeout)
	defer manager.Close()
	job, err := manager.Wait(cmd.Context(), manager.Start(&doc))
	if err != nil {
		return err
	}
	s.printer.PrintExport(job)

	art, ok := job.Artifact()
	if !ok {
		return fmt.Errorf("export failed: %s", job.Error)
	}
	return writeFile(filepath.Join(exportDir, art.Filename), art.Data)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
