package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "placenames",
	Short: "Connecticut town and county names from the CT Data Collaborative data packages",
	Long: `placenames reads the Connecticut town list and county list data packages
and serves the names as JSON over HTTP, or prints them once.

Commands:
  serve - run the API with scheduled refreshes
  fetch - print the town names followed by the county names`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
