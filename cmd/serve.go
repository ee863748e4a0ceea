package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/birdseye/internal/preview"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated site locally for preview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := runtimeFrom(cmd.Context())
			if err != nil {
				return err
			}
			srv, err := preview.New(rt.cfg.Site.OutputDir, rt.logger)
			if err != nil {
				return err
			}
			addr := fmt.Sprintf(":%d", rt.cfg.Serve.Port)
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://localhost%s (Ctrl+C to stop)\n", rt.cfg.Site.OutputDir, addr)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().Int("port", 8080, "port to listen on")
	return cmd
}
