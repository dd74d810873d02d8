package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newListCmd builds `acnh wishlist` or `acnh catalog` with ls/add/rm/reset.
func newListCmd(list listKind) *cobra.Command {
	var (
		categories []string
		force      bool
	)

	title := "Wishlist"
	short := "Items you are still looking for"
	if list == catalogList {
		title = "Catalog"
		short = "Items you own"
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List " + string(list) + " items, sorted by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := openBackend(false)
			if err != nil {
				return err
			}
			defer b.Close()

			st, err := b.State(categories)
			if err != nil {
				return err
			}
			entries, total := st.Wished, len(st.Wishlist)
			if list == catalogList {
				entries, total = st.Owned, len(st.Catalog)
			}
			printOut(cmd, formatEntries(title, entries, total))
			return nil
		},
	}
	ls.Flags().StringArrayVarP(&categories, "category", "c", nil, "Restrict to category (repeatable)")

	mutate := func(op listOp, verb string) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			b, _, err := openBackend(false)
			if err != nil {
				return err
			}
			defer b.Close()

			for _, id := range args {
				if _, err := b.Mutate(list, op, id); err != nil {
					return fmt.Errorf("%s %s: %w", verb, id, err)
				}
				printOut(cmd, fmt.Sprintf("%s %s #%s\n", verb, list, id))
			}
			return nil
		}
	}

	add := &cobra.Command{
		Use:   "add <id...>",
		Short: "Add items to the " + string(list),
		Args:  cobra.MinimumNArgs(1),
		RunE:  mutate(opAdd, "added to"),
	}
	if list == catalogList {
		add.Long = "Marks items as owned. Owning an item removes it from the wishlist."
	} else {
		add.Long = "Adds items to the wishlist. Items you already own are left alone."
	}

	rm := &cobra.Command{
		Use:     "rm <id...>",
		Aliases: []string{"remove"},
		Short:   "Remove items from the " + string(list),
		Args:    cobra.MinimumNArgs(1),
		RunE:    mutate(opRemove, "removed from"),
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Remove every item from the " + string(list),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				fmt.Fprintf(cmd.OutOrStdout(), "This will clear your entire %s. Continue? [y/N] ", list)
				reader := bufio.NewReader(cmd.InOrStdin())
				answer, _ := reader.ReadString('\n')
				answer = strings.TrimSpace(strings.ToLower(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
					return nil
				}
			}

			b, _, err := openBackend(false)
			if err != nil {
				return err
			}
			defer b.Close()

			if _, err := b.Mutate(list, opReset, ""); err != nil {
				return err
			}
			printOut(cmd, fmt.Sprintf("%s cleared\n", list))
			return nil
		},
	}
	reset.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	parent := &cobra.Command{
		Use:   string(list),
		Short: short,
		Args:  cobra.NoArgs,
		RunE:  ls.RunE,
	}
	parent.Flags().AddFlagSet(ls.Flags())
	parent.AddCommand(ls, add, rm, reset)
	return parent
}

