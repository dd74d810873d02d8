package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/acnh/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := projectRoot()
		cfg, err := config.Load(root, flagConfig)
		if err != nil {
			return err
		}
		out, err := cfg.YAML()
		if err != nil {
			return err
		}

		sources := "defaults"
		if len(cfg.Sources) > 0 {
			sources = strings.Join(cfg.Sources, ", ")
		}
		printOut(cmd, fmt.Sprintf("%s# root:%s %s\n%s# sources:%s %s\n",
			colorGray, colorReset, root, colorGray, colorReset, sources))
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}
