package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akajrolkar2644/Assessment/services/feedback/internal/service"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every review as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			f := service.ExportFormat(format)
			if f != service.ExportCSV && f != service.ExportJSON {
				return fmt.Errorf("invalid format %q (want csv or json)", format)
			}

			svc, cleanup, err := opts.openService(cmd)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer cleanup()

			w := cmd.OutOrStdout()
			if output != "" {
				file, cerr := os.Create(output)
				if cerr != nil {
					return fmt.Errorf("create %s: %w", output, cerr)
				}
				defer func() {
					if cerr := file.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				w = file
			}

			if err := svc.Export(cmd.Context(), w, f); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "exported reviews to %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(service.ExportCSV), "Export format: csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}
