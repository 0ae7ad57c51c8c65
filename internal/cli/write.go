package cli

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/Houeta/rentcatalog/internal/catalog"
	"github.com/Houeta/rentcatalog/internal/models"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// draftFlags binds the item fields of create and update to flags.
type draftFlags struct {
	brand, model, variant, serial string
	rate, value, deposit          string
	minDeposit, maxDeposit        string
	specs                         string
	available                     bool
	files                         []string
	removeMedia                   []string
	extra                         map[string]string
}

func (f *draftFlags) register(cmd *cobra.Command, update bool) {
	cmd.Flags().StringVar(&f.brand, "brand", "", "Brand")
	cmd.Flags().StringVar(&f.model, "model", "", "Model")
	cmd.Flags().StringVar(&f.variant, "variant", "", "Variant")
	cmd.Flags().StringVar(&f.serial, "serial", "", "Serial number")
	cmd.Flags().StringVar(&f.rate, "rate", "", "Base daily rate")
	cmd.Flags().StringVar(&f.value, "value", "0", "Estimated value")
	cmd.Flags().StringVar(&f.deposit, "deposit", "0", "Deposit percentage")
	cmd.Flags().StringVar(&f.minDeposit, "min-deposit", "0", "Minimum deposit")
	cmd.Flags().StringVar(&f.maxDeposit, "max-deposit", "0", "Maximum deposit")
	cmd.Flags().StringVar(&f.specs, "specs", "", "Specification as a JSON object")
	cmd.Flags().BoolVar(&f.available, "available", true, "Whether the item can be rented")
	cmd.Flags().StringArrayVar(&f.files, "file", nil, "Media file to upload, repeatable")
	cmd.Flags().StringToStringVar(&f.extra, "field", nil, "Variant specific field, e.g. --field mount=RF")
	if update {
		cmd.Flags().StringArrayVar(&f.removeMedia, "remove-media", nil, "Media id to remove, repeatable")
	}

	_ = cmd.MarkFlagRequired("brand")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("rate")
}

// draft builds the payload and opens every --file. The returned closer releases the files.
func (f *draftFlags) draft() (models.Draft, func(), error) {
	amounts := map[string]string{
		"rate": f.rate, "value": f.value, "deposit": f.deposit,
		"min-deposit": f.minDeposit, "max-deposit": f.maxDeposit,
	}
	parsed := make(map[string]decimal.Decimal, len(amounts))
	for name, raw := range amounts {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return models.Draft{}, nil, fmt.Errorf("invalid --%s %q: %w", name, raw, err)
		}
		parsed[name] = d
	}

	draft := models.Draft{
		Brand:          f.brand,
		Model:          f.model,
		Variant:        f.variant,
		SerialNumber:   f.serial,
		BaseDailyRate:  parsed["rate"],
		EstimatedValue: parsed["value"],
		DepositPercent: parsed["deposit"],
		MinDeposit:     parsed["min-deposit"],
		MaxDeposit:     parsed["max-deposit"],
		Specs:          f.specs,
		IsAvailable:    f.available,
		Extra:          f.extra,
		RemoveMediaIDs: f.removeMedia,
	}

	var opened []io.Closer
	closeAll := func() {
		for _, c := range opened {
			_ = c.Close()
		}
	}
	for _, path := range f.files {
		file, err := os.Open(path)
		if err != nil {
			closeAll()
			return models.Draft{}, nil, fmt.Errorf("failed to open media file: %w", err)
		}
		opened = append(opened, file)
		draft.Files = append(draft.Files, models.Upload{
			Name:        filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Content:     file,
		})
	}

	return draft, closeAll, nil
}

func newCreateCmd(a *app) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "create <cameras|accessories>",
		Short: "Create an item",
		Example: `  rentcatalog create cameras --brand Canon --model R5 --rate 100 --field mount=RF --file front.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.write(cmd, args[0], &flags, func(ctx context.Context, ws *catalog.Workspace, kind models.Kind, draft models.Draft) (string, error) {
				if kind == models.KindAccessory {
					created, err := ws.Accessories.Mutator.Create(ctx, draft)
					return echoID(created, err)
				}
				created, err := ws.Cameras.Mutator.Create(ctx, draft)
				return echoID(created, err)
			})
		},
	}
	flags.register(cmd, false)

	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "update <cameras|accessories> <id>",
		Short: "Update an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[1]
			return a.write(cmd, args[0], &flags, func(ctx context.Context, ws *catalog.Workspace, kind models.Kind, draft models.Draft) (string, error) {
				if kind == models.KindAccessory {
					ws.Accessories.Cache.EnsureLoaded(ctx)
					_, err := ws.Accessories.Mutator.Update(ctx, id, draft)
					return id, err
				}
				ws.Cameras.Cache.EnsureLoaded(ctx)
				_, err := ws.Cameras.Mutator.Update(ctx, id, draft)
				return id, err
			})
		},
	}
	flags.register(cmd, true)

	return cmd
}

type writeFunc func(ctx context.Context, ws *catalog.Workspace, kind models.Kind, draft models.Draft) (string, error)

func (a *app) write(cmd *cobra.Command, kindArg string, flags *draftFlags, fn writeFunc) error {
	kind, err := parseKind(kindArg)
	if err != nil {
		return err
	}

	draft, release, err := flags.draft()
	if err != nil {
		return err
	}
	defer release()

	ws, err := a.staticWorkspace("")
	if err != nil {
		return err
	}
	defer ws.Close()

	id, err := fn(cmd.Context(), ws, kind, draft)
	if err != nil {
		return err
	}

	if id == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Saved.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s.\n", id)
	return nil
}

func echoID[T models.Listing](item *T, err error) (string, error) {
	if err != nil || item == nil {
		return "", err
	}
	return (*item).Common().ID, nil
}
