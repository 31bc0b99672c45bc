package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"ailab/internal/catalog"
	"ailab/internal/models"
)

var (
	generateList     string
	generatePage     int
	generateCount    int
	generateCategory string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print one catalog page as JSON",
	Long: `Generates the records shown on one page of the vault or the market.
Output is deterministic: the same list, page and category always print the
same records.`,
	Example: `  ailab generate --list posts --page 2
  ailab generate --list market --page 3
  ailab generate --list posts --page 5 --category AGI`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateList, "list", "posts", "List to generate (posts, market, vault-products)")
	generateCmd.Flags().IntVar(&generatePage, "page", 1, "Page number (values below 1 are treated as 1)")
	generateCmd.Flags().IntVar(&generateCount, "count", 0, "Records per page (default: the list's page size)")
	generateCmd.Flags().StringVar(&generateCategory, "category", string(models.CategoryAll), "Post category filter")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	kind, err := catalog.ParseKind(generateList)
	if err != nil {
		return err
	}

	category, ok := models.ParseCategory(generateCategory)
	if !ok {
		return fmt.Errorf("unknown category %q", generateCategory)
	}

	count := generateCount
	if count <= 0 {
		count = catalog.PerPage(kind)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(catalog.Generate(kind, generatePage, count, category))
}
