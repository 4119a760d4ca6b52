package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/varimat/varimat/internal/config"
	"github.com/varimat/varimat/internal/ui"
)

var version = "0.3.0"

func main() {
	var exportDir string

	cmd := &cobra.Command{
		Use:   "varimat [base-folder] [variants-root]",
		Short: "Compare a folder of images against per-image variant folders",
		Long: `Varimat lays a folder of base images out against the variants derived
from them: one column per base image, one row per variant filename. The grid
pans, zooms and inspects cells fullscreen, and exports the whole matrix as a
PNG mosaic or a static HTML gallery.

Folders not given on the command line are prompted for with a picker.`,
		Args:          cobra.MaximumNArgs(2),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if exportDir != "" {
				cfg.ExportDir = exportDir
			}

			baseFolder, variantsRoot := "", ""
			if len(args) > 0 {
				baseFolder = args[0]
			}
			if len(args) > 1 {
				variantsRoot = args[1]
			}
			return ui.Run(cfg, baseFolder, variantsRoot)
		},
	}
	cmd.Flags().StringVar(&exportDir, "export-dir", "", "directory exports are written to (default: current directory)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "varimat:", err)
		os.Exit(1)
	}
}
