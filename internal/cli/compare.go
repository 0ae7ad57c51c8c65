package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/Houeta/rentcatalog/internal/catalog"
	"github.com/Houeta/rentcatalog/internal/models"
	"github.com/spf13/cobra"
)

func newCompareCmd(a *app) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "compare <cameras|accessories> <id>...",
		Short: fmt.Sprintf("Show up to %d items side by side", catalog.MaxCompared),
		Args:  cobra.RangeArgs(2, 1+catalog.MaxCompared),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			ws, err := a.staticWorkspace(owner)
			if err != nil {
				return err
			}
			defer ws.Close()

			if kind == models.KindAccessory {
				return printComparison(cmd.Context(), cmd.OutOrStdout(), ws.Accessories, args[1:])
			}
			return printComparison(cmd.Context(), cmd.OutOrStdout(), ws.Cameras, args[1:])
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner whose list is consulted before fetching by id (default RC_OWNER_ID)")

	return cmd
}

func printComparison[T models.Listing](ctx context.Context, out io.Writer, cat *catalog.Catalog[T], ids []string) error {
	for _, id := range ids {
		if !cat.Selection.Add(id) {
			return fmt.Errorf("cannot select %q: ids must be unique and at most %d", id, catalog.MaxCompared)
		}
	}

	cat.Cache.EnsureLoaded(ctx)
	cmp := cat.Compare(ctx)
	if len(cmp.Items) == 0 {
		return fmt.Errorf("none of the selected %s could be found", cat.Cache.Kind())
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	row := func(name string, value func(models.Item) string) {
		fmt.Fprint(tw, name)
		for _, item := range cmp.Items {
			fmt.Fprint(tw, "\t"+value(item.Common()))
		}
		fmt.Fprintln(tw)
	}

	row("ID", func(i models.Item) string { return i.ID })
	row("BRAND", func(i models.Item) string { return i.Brand })
	row("MODEL", func(i models.Item) string { return i.Model })
	row("VARIANT", func(i models.Item) string { return i.Variant })
	row("SERIAL", func(i models.Item) string { return i.SerialNumber })
	row("BRANCH", func(i models.Item) string { return i.BranchName() })
	row("RATE/DAY", func(i models.Item) string { return i.BaseDailyRate.StringFixed(2) })
	row("VALUE", func(i models.Item) string { return i.EstimatedValue.StringFixed(2) })
	row("DEPOSIT %", func(i models.Item) string { return i.DepositPercent.String() })

	specKeys := map[string]struct{}{}
	for _, item := range cmp.Items {
		for key := range item.Common().SpecMap() {
			specKeys[key] = struct{}{}
		}
	}
	for _, key := range slices.Sorted(maps.Keys(specKeys)) {
		row(key, func(i models.Item) string { return i.SpecMap()[key] })
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	for _, id := range cmp.Missing {
		fmt.Fprintf(out, "not found: %s\n", id)
	}
	return nil
}
