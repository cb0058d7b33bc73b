package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	folderPath string
	objectID   string
)

var generateCmd = &cobra.Command{
	Use:   "generate [manifest.yml]",
	Short: "Generate content metadata from a manifest or a staging folder",
	Long: `Generate content metadata for one object.

The input is either a YAML manifest listing the files, or a staging folder
given with --dir. A staging folder may carry a description.md whose
frontmatter sets the object id, style, bundling and file labels.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if (len(args) == 1) == (folderPath != "") {
			return fmt.Errorf("give either a manifest or --dir")
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		if folderPath != "" {
			return a.GenerateFromFolder(cmd.Context(), folderPath, objectID, cmd.OutOrStdout())
		}

		return a.GenerateFromManifest(cmd.Context(), args[0], objectID, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&folderPath, "dir", "d", "", "Staging folder to scan")
	generateCmd.Flags().StringVar(&objectID, "object-id", "", "Object id, overrides the manifest or description")
	generateCmd.Flags().StringVarP(&overrides.Style, "style", "s", "", "Style, overrides the config")
	generateCmd.Flags().StringVarP(&overrides.Bundle, "bundle", "b", "", "Bundle strategy, overrides the config")
}
