package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Houeta/rentcatalog/internal/catalog"
	"github.com/Houeta/rentcatalog/internal/models"
	"github.com/Houeta/rentcatalog/internal/remote"
	"github.com/Houeta/rentcatalog/internal/session"
	"github.com/spf13/cobra"
)

type listOptions struct {
	search   string
	brand    string
	sortBy   string
	desc     bool
	page     int
	pageSize int
	owner    string
	server   bool
}

func newListCmd(a *app) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list <cameras|accessories>",
		Short: "Print one page of the filtered catalog",
		Example: `  # Second page of Canon cameras, most expensive first
  rentcatalog list cameras --brand Canon --sort baseDailyRate --desc --page 2

  # Let the service filter and paginate instead of loading the whole catalog
  rentcatalog list cameras --server --search r5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			params := catalog.Params{
				Search:    opts.search,
				Brand:     opts.brand,
				Direction: catalog.Ascending,
				Page:      opts.page,
				PageSize:  opts.pageSize,
			}
			if params.PageSize <= 0 {
				params.PageSize = a.cfg.PageSize
			}
			if opts.desc {
				params.Direction = catalog.Descending
			}
			if opts.sortBy != "" {
				key, ok := catalog.ParseSortKey(opts.sortBy)
				if !ok {
					return fmt.Errorf("unknown sort field %q", opts.sortBy)
				}
				params.SortKey = key
			}

			if opts.server {
				client, err := remote.NewClient(a.log, session.New(a.cfg.API.Token, ""), a.apiOptions())
				if err != nil {
					return fmt.Errorf("failed to create API client: %w", err)
				}
				if kind == models.KindAccessory {
					return printServerPage(cmd.Context(), cmd.OutOrStdout(), remote.NewResource[models.Accessory](client, kind), params)
				}
				return printServerPage(cmd.Context(), cmd.OutOrStdout(), remote.NewResource[models.Camera](client, kind), params)
			}

			ws, err := a.staticWorkspace(opts.owner)
			if err != nil {
				return err
			}
			defer ws.Close()

			if kind == models.KindAccessory {
				return printPage(cmd.Context(), cmd.OutOrStdout(), ws.Accessories, params)
			}
			return printPage(cmd.Context(), cmd.OutOrStdout(), ws.Cameras, params)
		},
	}

	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "Case-insensitive text matched against model, brand, serial number and branch")
	cmd.Flags().StringVarP(&opts.brand, "brand", "b", catalog.AllBrands, "Exact brand to show")
	cmd.Flags().StringVar(&opts.sortBy, "sort", "", "Field to sort by")
	cmd.Flags().BoolVar(&opts.desc, "desc", false, "Sort descending")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "Items per page (default RC_PAGE_SIZE)")
	cmd.Flags().StringVar(&opts.owner, "owner", "", "Only show items of this owner (default RC_OWNER_ID)")
	cmd.Flags().BoolVar(&opts.server, "server", false, "Filter, sort and paginate on the service; --search matches the model only")
	cmd.MarkFlagsMutuallyExclusive("server", "owner")

	return cmd
}

func printPage[T models.Listing](ctx context.Context, out io.Writer, cat *catalog.Catalog[T], params catalog.Params) error {
	page := cat.View(ctx, params)
	if msg := cat.Cache.Err(); msg != "" {
		return fmt.Errorf("failed to load %s: %s", cat.Cache.Kind(), msg)
	}

	return writePage(out, page)
}

// pageQuery maps local view parameters onto the service filter endpoint.
func pageQuery(params catalog.Params) remote.PageQuery {
	query := remote.PageQuery{
		Page:     params.Page,
		PageSize: params.PageSize,
		Model:    params.Search,
	}
	if params.Brand != catalog.AllBrands {
		query.Brand = params.Brand
	}
	if params.SortKey != catalog.SortNone {
		query.SortBy = string(params.SortKey)
		query.SortDir = string(params.Direction)
	}

	return query
}

func printServerPage[T models.Listing](ctx context.Context, out io.Writer, res *remote.Resource[T], params catalog.Params) error {
	paged, err := res.FetchPage(ctx, pageQuery(params))
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", res.Kind(), err)
	}

	size := paged.PageSize
	if size <= 0 {
		size = params.PageSize
	}
	page := catalog.Page[T]{Items: paged.Items, Number: paged.Page, Total: paged.Total}
	if size > 0 {
		page.TotalPages = (paged.Total + size - 1) / size
	}

	return writePage(out, page)
}

func writePage[T models.Listing](out io.Writer, page catalog.Page[T]) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBRAND\tMODEL\tVARIANT\tBRANCH\tRATE/DAY")
	for _, item := range page.Items {
		c := item.Common()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.Brand, c.Model, c.Variant, c.BranchName(), c.BaseDailyRate.StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	fmt.Fprintf(out, "page %d of %d, %d items\n", page.Number, page.TotalPages, page.Total)
	return nil
}
