// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/cv-generator/internal/catalog"
	"github.com/jonathan/cv-generator/internal/export"
	"github.com/jonathan/cv-generator/internal/types"
	"github.com/jonathan/cv-generator/internal/validation"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDocument outputs an indexed summary of the document, so list
// positions can be passed back to editing commands
func (p *Printer) PrintDocument(doc *types.CVDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:      %s\n", doc.FullName()))
	sb.WriteString(fmt.Sprintf("Title:     %s\n", doc.Title))
	sb.WriteString(fmt.Sprintf("Location:  %s\n", doc.Contact.Location))
	sb.WriteString(fmt.Sprintf("Phone:     %s\n", doc.Contact.Phone))
	sb.WriteString(fmt.Sprintf("Email:     %s\n", doc.Contact.Email))
	for _, l := range []struct{ label, url string }{
		{"LinkedIn", doc.Contact.LinkedIn},
		{"GitHub", doc.Contact.GitHub},
		{"Portfolio", doc.Contact.Portfolio},
	} {
		if l.url != "" {
			sb.WriteString(fmt.Sprintf("%-10s %s\n", l.label+":", l.url))
		}
	}
	sb.WriteString(fmt.Sprintf("Palette:   %s\n", doc.Palette.Name))
	if doc.HasProfileImage() {
		sb.WriteString("Image:     set\n")
	}
	if doc.Summary != "" {
		sb.WriteString(fmt.Sprintf("\nSummary:\n  %s\n", doc.Summary))
	}

	sb.WriteString("\nSkills:\n")
	for i, s := range doc.Skills {
		sb.WriteString(fmt.Sprintf("  [%d] %s\n", i, s))
	}

	sb.WriteString("\nEducation:\n")
	for i, e := range doc.Education {
		sb.WriteString(fmt.Sprintf("  [%d] %s, %s (%s)\n", i, e.Degree, e.Institution, e.Period))
	}

	sb.WriteString("\nWork Experience:\n")
	for i, w := range doc.WorkExperience {
		sb.WriteString(fmt.Sprintf("  [%d] %s (%s)\n", i, w.Company, w.Period))
		for j, r := range w.Roles {
			sb.WriteString(fmt.Sprintf("      [%d] %s\n", j, r))
		}
	}

	sb.WriteString("\nLanguages:\n")
	for i, l := range doc.Languages {
		sb.WriteString(fmt.Sprintf("  [%d] %s - %s\n", i, l.Language, l.Level))
	}

	p.printBox("CV DOCUMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintViolations outputs every field violation, or a confirmation when
// there are none
func (p *Printer) PrintViolations(ve *validation.ValidationError) {
	if ve == nil || len(ve.Errors) == 0 {
		p.printBox("VALIDATION", "✓ Document is valid")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d violation(s):\n\n", len(ve.Errors)))
	for _, fe := range ve.Errors {
		sb.WriteString(fmt.Sprintf("✗ %s: %s\n", fe.Field, fe.Message))
	}
	p.printBox("VALIDATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPalettes lists the registered palettes and marks the current one
func (p *Printer) PrintPalettes(current string) {
	var sb strings.Builder
	for _, pal := range catalog.Palettes() {
		marker := " "
		if pal.Name == current {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s %-14s header %s  contact %s  divider %s\n",
			marker, pal.Name, pal.HeaderBg, pal.ContactBg, pal.Divider))
	}
	p.printBox("PALETTES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLanguages lists the language catalog with the levels of each language
func (p *Printer) PrintLanguages() {
	var sb strings.Builder
	for _, opt := range catalog.Languages() {
		sb.WriteString(fmt.Sprintf("%-10s %s\n", opt.Language, strings.Join(opt.Levels, " ")))
	}
	p.printBox("LANGUAGES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExport outputs the state of an asynchronous export
func (p *Printer) PrintExport(job export.Job) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:       %s\n", job.ID))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", job.Status))
	if job.Filename != "" {
		sb.WriteString(fmt.Sprintf("File:     %s\n", job.Filename))
	}
	if job.Error != "" {
		sb.WriteString(fmt.Sprintf("Error:    %s\n", job.Error))
	}
	if job.CompletedAt != nil {
		sb.WriteString(fmt.Sprintf("Duration: %v\n", job.CompletedAt.Sub(job.CreatedAt).Round(time.Millisecond)))
	}
	p.printBox("EXPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMissingContent outputs the result of a content fidelity check
func (p *Printer) PrintMissingContent(filename string, missing []string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File: %s\n\n", filename))
	if len(missing) == 0 {
		sb.WriteString("✓ Every document value appears in the file")
	} else {
		sb.WriteString(fmt.Sprintf("✗ %d value(s) missing:\n", len(missing)))
		count := min(len(missing), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", missing[i]))
		}
		if len(missing) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more", len(missing)-maxItemsToShow))
		}
	}
	p.printBox("CONTENT CHECK", strings.TrimSuffix(sb.String(), "\n"))
}
