package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/acnh/internal/app"
	"github.com/corey/acnh/internal/config"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show schema, storage and catalog status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print status as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	b, _, err := openBackend(false)
	if err != nil {
		return err
	}
	defer b.Close()

	switch b := b.(type) {
	case *localBackend:
		st := b.app.Status()
		if statusJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}
		printOut(cmd, formatStatus(st))
		return nil
	case *remoteBackend:
		return remoteStatus(cmd, b)
	}
	return fmt.Errorf("unsupported backend %s", b.Describe())
}

// remoteStatus reports what a running server exposes over its API.
func remoteStatus(cmd *cobra.Command, b *remoteBackend) error {
	health, err := b.client.Health()
	if err != nil {
		return err
	}
	st, err := b.State(nil)
	if err != nil {
		return err
	}
	status := app.Status{
		Version:        st.Version,
		MigratedFrom:   st.MigratedFrom,
		CatalogEntries: health.CatalogEntries,
		Owned:          len(st.Catalog),
		Wished:         len(st.Wishlist),
		Uptime:         health.Uptime,
	}
	if statusJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	cfg, err := config.Load(projectRoot(), flagConfig)
	if err == nil {
		status.Backend = cfg.Storage.Backend
		status.Key = cfg.Storage.Key
		status.CatalogPath = cfg.Catalog.Path
	}
	printOut(cmd, formatStatus(status))
	printOut(cmd, fmt.Sprintf("  Server:     %s%s%s (up %s)\n", colorGreen, b.addr, colorReset, health.Uptime))
	return nil
}
