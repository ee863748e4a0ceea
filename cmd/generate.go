package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/birdseye/internal/app"
	"github.com/JakeFAU/birdseye/internal/checklist"
	"github.com/JakeFAU/birdseye/internal/metrics"
)

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "generate CHECKLIST_URL",
		Short:   "Generate the gallery page for one checklist",
		Example: "  birdseye generate https://ebird.org/checklist/S12345678",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usage(cmd)
			}
			return runGenerate(cmd, args[0])
		},
	}
}

func runGenerate(cmd *cobra.Command, checklistURL string) error {
	rt, err := runtimeFrom(cmd.Context())
	if err != nil {
		return err
	}

	// Reject the key and the URL before app.New creates the output directory.
	if err := rt.cfg.RequireAPIKey(); err != nil {
		return err
	}
	if _, err := checklist.ExtractID(checklistURL); err != nil {
		return err
	}

	a, err := app.New(cmd.Context(), rt.cfg, rt.logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			rt.logger.Warn("failed to close services", zap.Error(cerr))
		}
	}()

	res, runErr := a.Pipeline().Run(cmd.Context(), checklistURL)
	if path := rt.cfg.Metrics.Textfile; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			rt.logger.Warn("metrics textfile not written", zap.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	printResult(cmd.OutOrStdout(), res, rt.cfg.Site.OutputDir)
	return nil
}

func printResult(w io.Writer, res app.Result, outputDir string) {
	summary := res.Summary
	fmt.Fprintf(w, "\n%s — %s\n", summary.Location, summary.Date)
	fmt.Fprintf(w, "Species count: %d\n\n", len(summary.Species))
	fmt.Fprintf(w, "%-8s %-10s %s\n", "Count", "Code", "Common Name")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, s := range summary.Species {
		marker := "-"
		if s.HasPhoto() {
			marker = "+"
		}
		fmt.Fprintf(w, "%-8s %-10s %s  [%s photo]\n", s.Count, s.Code, s.Name, marker)
	}

	fmt.Fprintf(w, "\nGenerated site: %s\n", res.Path)
	if res.MirrorURI != "" {
		fmt.Fprintf(w, "Mirrored to: %s\n", res.MirrorURI)
	}
	fmt.Fprintf(w, "To share: push to GitHub and enable Pages (serve from %s/ on main branch).\n",
		filepath.ToSlash(filepath.Base(outputDir)))
}
