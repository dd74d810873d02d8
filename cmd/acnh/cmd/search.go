package cmd

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	searchCategories []string
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Fuzzy search the catalog",
	Long: "Ranks catalog items against every whitespace-separated token of the query.\n" +
		"Items matching more tokens rank first, then items matching on name, then\n" +
		"by match quality. At most 20 results are shown.",
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringArrayVarP(&searchCategories, "category", "c", nil, "Restrict to category (repeatable)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print results as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	b, _, err := openBackend(false)
	if err != nil {
		return err
	}
	defer b.Close()

	start := time.Now()
	res, err := b.Search(strings.Join(args, " "), searchCategories)
	if err != nil {
		return err
	}
	elapsed := elapsedSince(start)

	if searchJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printOut(cmd, formatSearchResult(res, elapsed))
	return nil
}
