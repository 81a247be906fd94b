package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/portfolio/internal/observability"
	"github.com/jonathan/portfolio/internal/schemas"
	"github.com/jonathan/portfolio/internal/skills"
	"github.com/jonathan/portfolio/internal/types"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <resume.json>...",
	Short: "Validate résumé JSON files against the résumé schema",
	Long:  "Checks each file against the schema PUT /api/resume enforces. Exits with code 1 if any file is invalid.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

// errValidationFailed is returned when at least one file is invalid.
var errValidationFailed = errors.New("validation failed")

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	return validateFiles(cmd.OutOrStdout(), args, verbose)
}

// validateFiles reports on every file before returning, so one bad file does
// not hide problems in the others.
func validateFiles(w io.Writer, paths []string, showRadar bool) error {
	printer := observability.NewPrinter(w)
	failed := false

	for _, path := range paths {
		_, _ = fmt.Fprintf(w, "%s\n", path)

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		err = schemas.ValidateResume(data)
		var verr *schemas.ValidationError
		switch {
		case errors.As(err, &verr):
			printer.PrintValidation(verr)
			failed = true
			continue
		case err != nil:
			return err
		}
		printer.PrintValidation(nil)

		if showRadar {
			r, err := types.ParseResume(data)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}
			printer.PrintRadar(skills.Radar(r.Skills.Categories))
		}
	}

	if failed {
		return errValidationFailed
	}
	return nil
}
