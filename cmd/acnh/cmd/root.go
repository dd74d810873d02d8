package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagRoot    string
	flagNoColor bool
	flagColor   string
)

var rootCmd = &cobra.Command{
	Use:           "acnh",
	Short:         "acnh: item catalog search and collection tracker",
	Long:          "Fuzzy search over the ACNH item catalog, with a persistent owned list and wishlist.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// projectRoot returns the directory holding .acnh/ (--root, else cwd).
func projectRoot() string {
	if flagRoot != "" {
		return flagRoot
	}
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// printOut writes s to the command's stdout, stripping colors unless
// resolveColor allows them.
func printOut(cmd *cobra.Command, s string) {
	if !resolveColor(flagColor, flagNoColor) {
		s = stripANSI(s)
	}
	fmt.Fprint(cmd.OutOrStdout(), s)
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", colorRed, colorReset, err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default .acnh/config.yml)")
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "Project directory holding .acnh/ (default cwd)")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto", "Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", os.Getenv("NO_COLOR") != "", "Disable ANSI colors")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(newListCmd(wishlistList))
	rootCmd.AddCommand(newListCmd(catalogList))
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}
