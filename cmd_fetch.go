package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ctdata/ct-placenames/datapackage"
	"github.com/ctdata/ct-placenames/logging"
	"github.com/ctdata/ct-placenames/placenames"
	"github.com/spf13/cobra"
)

var (
	fetchTownsURL    string
	fetchCountiesURL string
	fetchJSON        bool
	fetchTimeout     time.Duration
)

// fetchCmd prints the combined list once
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Print the town names followed by the county names",
	Long: `Fetch both data packages once and print every town name, in resource
order, followed by every county name. One name per line, or a JSON array
with --json.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchTownsURL, "towns-url", placenames.DefaultTownsURL, "Town list datapackage.json URL")
	fetchCmd.Flags().StringVar(&fetchCountiesURL, "counties-url", placenames.DefaultCountiesURL, "County list datapackage.json URL")
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "Print a JSON array instead of one name per line")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", time.Minute, "HTTP timeout per request")
}

func runFetch(cmd *cobra.Command, args []string) error {
	// stdout carries the names, logs go to stderr
	logging.InitLoggerWithOptions(logging.Options{Level: slog.LevelWarn, Console: cmd.ErrOrStderr()})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	loader := datapackage.NewLoader(datapackage.NewHTTPClient(fetchTimeout))
	names, err := placenames.TownsAndCounties(ctx, loader, fetchTownsURL, fetchCountiesURL)
	if err != nil {
		return err
	}

	return printNames(cmd.OutOrStdout(), names, fetchJSON)
}

func printNames(w io.Writer, names []string, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(names)
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}
