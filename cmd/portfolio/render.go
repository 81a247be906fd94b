package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/portfolio/internal/layout"
	"github.com/jonathan/portfolio/internal/observability"
	"github.com/jonathan/portfolio/internal/schemas"
	"github.com/jonathan/portfolio/internal/types"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <resume.json>",
	Short: "Render a résumé JSON file to PDF",
	Long: `Render lays out a résumé with the same engine the server uses for
GET /api/resume/pdf and writes the PDF. With --dry-run it prints the text drawn
on each page instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var (
	renderOutput string
	renderDryRun bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Output PDF path (defaults to <Name>_Resume.pdf in the output directory)")
	renderCmd.Flags().BoolVar(&renderDryRun, "dry-run", false, "Print the page layout instead of writing a PDF")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	r, err := readResume(args[0])
	if err != nil {
		return err
	}

	if renderDryRun {
		return dryRunLayout(cmd.OutOrStdout(), r)
	}

	out := renderOutput
	if out == "" {
		out = filepath.Join(cfg.OutputDir, layout.FileName(r.Personal.Name))
	}
	doc, err := writePDF(r, out)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d pages)\n", out, doc.Pages)
	return nil
}

// readResume loads and schema-checks a résumé file.
func readResume(path string) (*types.Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	if err := schemas.ValidateResume(data); err != nil {
		return nil, fmt.Errorf("invalid resume %s: %w", path, err)
	}
	r, err := types.ParseResume(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse resume: %w", err)
	}
	return r, nil
}

func dryRunLayout(w io.Writer, r *types.Resume) error {
	rec := layout.NewRecorder()
	if err := layout.Render(rec, r); err != nil {
		return fmt.Errorf("failed to lay out resume: %w", err)
	}
	observability.NewPrinter(w).PrintLayout(rec)
	return nil
}

func writePDF(r *types.Resume, path string) (*layout.Document, error) {
	doc, err := layout.NewGenerator().Generate("cli", r)
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return doc, nil
}
