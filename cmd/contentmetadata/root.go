package main

import (
	"os"

	"github.com/jgivc/contentmetadata/internal/app"
	"github.com/spf13/cobra"
)

var (
	Version     = "dev"
	cfgFileName string
	overrides   app.Overrides
)

var rootCmd = &cobra.Command{
	Use:     "contentmetadata",
	Short:   "Content metadata generator",
	Version: Version,
	Long: `contentmetadata classifies files and describes how they are organized
into resources of a digital object.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFileName, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&overrides.Output, "output", "o", "", "Output format: xml, yaml or tree")
}

func newApp() (*app.App, error) {
	a := app.New(cfgFileName)
	if err := a.Init(os.Stderr, overrides); err != nil {
		return nil, err
	}

	return a, nil
}
