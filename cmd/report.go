package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

var reportCmd = &cobra.Command{
	Use:   "report [session-id]",
	Short: "Show a stored interview report or list the recent ones",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := showReports(cmd, args); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringP("format", "f", formatYAML, "output format: yaml or json")
	reportCmd.Flags().IntP("limit", "n", 20, "how many recent reports to list")
}

func showReports(cmd *cobra.Command, args []string) error {
	config, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	repo, err := openReports(config.Storage)
	if err != nil {
		return fmt.Errorf("opening report store: %w", err)
	}
	if repo == nil {
		return fmt.Errorf("report storage is disabled")
	}
	defer repo.Close()

	format, _ := cmd.Flags().GetString("format")
	ctx := context.Background()

	if len(args) == 1 {
		r, err := repo.GetReport(ctx, args[0])
		if err != nil {
			return err
		}
		return encode(os.Stdout, format, r)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	list, err := repo.ListReports(ctx, limit)
	if err != nil {
		return err
	}
	return encode(os.Stdout, format, list)
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
