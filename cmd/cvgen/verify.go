package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jonathan/cv-generator/internal/export"
	"github.com/jonathan/cv-generator/internal/rendering"
	"github.com/spf13/cobra"
)

var verifyMaxPages int

var verifyCmd = &cobra.Command{
	Use:   "verify <pdf|html>",
	Short: "Check that an exported PDF or HTML preview contains every value of the working document",
	Long: `Check that an exported PDF or HTML preview contains every value of the working document.

HTML previews (as written by "cvgen preview") are read as HTML and have no
page count; anything else is read as a PDF.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().IntVar(&verifyMaxPages, "max-pages", 1, "Maximum PDF page count (0 disables the check)")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	isHTML := mimetype.Detect(data).Is("text/html")
	var (
		text  string
		pages int
	)
	if isHTML {
		text, err = rendering.ExtractText(data)
		if err != nil {
			return err
		}
	} else {
		text, err = export.ExtractText(data)
		if err != nil {
			return err
		}
		pages, err = export.PageCount(data)
		if err != nil {
			return err
		}
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	doc := s.ctrl.Snapshot()
	missing := export.MissingContent(&doc, text)
	s.printer.PrintMissingContent(filepath.Base(args[0]), missing)
	if !isHTML {
		_, _ = fmt.Fprintf(s.out, "Pages: %d\n", pages)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%d value(s) missing from %s", len(missing), args[0])
	}
	if !isHTML && verifyMaxPages > 0 && pages > verifyMaxPages {
		return fmt.Errorf("%s has %d pages, the limit is %d", args[0], pages, verifyMaxPages)
	}
	return nil
}
