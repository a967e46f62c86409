package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	catalogtoml "github.com/bnema/academix-cli/internal/adapters/catalog/toml"
	watchlistrender "github.com/bnema/academix-cli/internal/adapters/render/watchlist"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the local journal catalog",
	}

	cmd.AddCommand(
		newCatalogListCmd(app),
		newCatalogInitCmd(app),
	)

	return cmd
}

func newCatalogListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog journals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			journals, err := app.catalog.List(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(journals)
			}

			rendered, err := watchlistrender.RenderCatalog(journals, app.renderOptions())
			if err != nil {
				return fmt.Errorf("render catalog: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newCatalogInitCmd(app *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default journals to the catalog file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				if _, err := os.Stat(app.catalog.Path()); err == nil {
					return fmt.Errorf("catalog %s already exists (use --force to overwrite)", app.catalog.Path())
				} else if !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("stat catalog: %w", err)
				}
			}

			if err := app.catalog.Save(cmd.Context(), catalogtoml.DefaultJournals()); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Catalog written to %s\n", app.catalog.Path())
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing catalog file")

	return cmd
}
