package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"souq.GO/config"
	catalogEntity "souq.GO/model/entity/catalog"
	ingestService "souq.GO/service/ingest"
)

var (
	importFile  string
	importDraft bool
)

var importCmd = &cobra.Command{
	Use:   "products:import",
	Short: "Import scraped products from a JSON array file into the catalog",
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(importFile)
		if err != nil {
			fmt.Printf("Failed to read file: %v\n", err)
			return
		}
		var items []ingestService.RawProduct
		if err := json.Unmarshal(data, &items); err != nil {
			fmt.Printf("File must contain a JSON array of products: %v\n", err)
			return
		}

		config.LoadAppConfig()
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}

		opts := ingestService.ImportOptions{}
		if importDraft {
			opts.Status = catalogEntity.StatusDraft
		}
		res, err := ingestService.ImportProducts(context.Background(), db, config.AppConfig, items, opts)
		if err != nil {
			fmt.Printf("Import failed: %v\n", err)
			return
		}

		for _, e := range res.Errors {
			fmt.Printf("  [error] %s\n", e)
		}
		fmt.Printf(`
=== Import Report ===
Items:          %d
Imported:       %d
Skipped:        %d
Failed:         %d
Requeued:       %d
Total time:     %s
=====================
`, res.Total, res.Imported, res.Skipped, res.Failed, res.Requeued,
			res.TotalTime.Round(time.Millisecond))
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "JSON file path (required)")
	importCmd.MarkFlagRequired("file")
	importCmd.Flags().BoolVar(&importDraft, "draft", false, "Create products as drafts instead of publishing")
	rootCmd.AddCommand(importCmd)
}
