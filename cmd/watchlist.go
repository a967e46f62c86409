package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/academix-cli/internal/application"
	"github.com/bnema/academix-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newWatchlistCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watchlist",
		Aliases: []string{"wl"},
		Short:   "Manage saved journals",
	}

	cmd.AddCommand(
		newWatchlistListCmd(app),
		newWatchlistAddCmd(app),
		newWatchlistRemoveCmd(app),
		newWatchlistClearCmd(app),
	)

	return cmd
}

func newWatchlistListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved journals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := app.openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			warnHydration(cmd, sess.core)
			items := sess.core.Watchlist().All()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			rendered, err := app.watchlistRenderer(items, app.renderOptions())
			if err != nil {
				return fmt.Errorf("render watchlist: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newWatchlistAddCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <journal-id>",
		Short: "Save a catalog journal to the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := app.catalog.Lookup(cmd.Context(), domain.ItemID(args[0]))
			if err != nil {
				return err
			}

			sess, err := app.openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			warnHydration(cmd, sess.core)
			if _, err := sess.core.AddToWatchlist(cmd.Context(), journal.Match().Item()); err != nil {
				return fmt.Errorf("add %s to watchlist: %w", journal.ID, err)
			}
			return printLatestNotification(cmd, sess.core)
		},
	}
}

func newWatchlistRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <journal-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a journal from the watchlist",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			warnHydration(cmd, sess.core)
			id := domain.ItemID(args[0])
			removed, err := sess.core.RemoveFromWatchlist(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("remove %s from watchlist: %w", id, err)
			}
			if !removed {
				return fmt.Errorf("journal %s: %w", id, domain.ErrItemNotFound)
			}
			return printLatestNotification(cmd, sess.core)
		},
	}
}

func newWatchlistClearCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every journal from the watchlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := app.openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			if err := sess.core.Watchlist().Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear watchlist: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Watchlist cleared")
			return err
		},
	}
}

func warnHydration(cmd *cobra.Command, core *application.Core) {
	if err := core.HydrationError(); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: starting with an empty watchlist: %v\n", err)
	}
}

// printLatestNotification prints the toast the core raised for the last
// watchlist change.
func printLatestNotification(cmd *cobra.Command, core *application.Core) error {
	snap := core.Notifications().Snapshot()
	if len(snap.Visible) == 0 {
		return nil
	}

	latest := snap.Visible[0]
	for _, n := range snap.Visible[1:] {
		if n.CreatedAt.After(latest.CreatedAt) {
			latest = n
		}
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), latest.Title)
	return err
}
