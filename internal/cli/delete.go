package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Houeta/rentcatalog/internal/catalog"
	"github.com/Houeta/rentcatalog/internal/models"
	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <cameras|accessories> <id>",
		Short: "Delete an item after confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			ws, err := a.staticWorkspace("")
			if err != nil {
				return err
			}
			defer ws.Close()

			var confirm catalog.Confirmer = &promptConfirmer{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
			if yes {
				confirm = catalog.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
			}

			if kind == models.KindAccessory {
				err = deleteItem(cmd.Context(), ws.Accessories, args[1], confirm)
			} else {
				err = deleteItem(cmd.Context(), ws.Cameras, args[1], confirm)
			}
			if errors.Is(err, catalog.ErrDeleteDeclined) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[1])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func deleteItem[T models.Listing](ctx context.Context, cat *catalog.Catalog[T], id string, confirm catalog.Confirmer) error {
	// Loading first lets the prompt name the item.
	cat.Cache.EnsureLoaded(ctx)
	return cat.Delete(ctx, id, confirm)
}

// promptConfirmer asks on out and reads a y/N answer from in.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *promptConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
