package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/academix-cli/internal/application"
	"github.com/spf13/cobra"
)

var errEmptyQuery = errors.New("search query is empty")

func newSearchCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the journal catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, app, strings.Join(args, " "), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func runSearch(cmd *cobra.Command, app *app, query string, asJSON bool) error {
	if strings.TrimSpace(query) == "" {
		return errEmptyQuery
	}

	sess, err := app.openSession(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	var state application.SearchState
	if asJSON {
		state, err = awaitSearch(cmd.Context(), sess.core.Search(), query)
	} else {
		state, err = runSearchProgress(cmd.Context(), cmd.ErrOrStderr(), sess.core.Search(), query)
	}
	if err != nil {
		return err
	}
	if !asJSON {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), searchSummary(state))
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(state.Results)
	}

	rendered, err := app.matchesRenderer(state.Query, state.Results, sess.core.Watchlist().Has, app.renderOptions())
	if err != nil {
		return fmt.Errorf("render matches: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

// awaitSearch feeds query to the controller as a single edit and blocks until
// its result is applied.
func awaitSearch(ctx context.Context, controller *application.SearchController, query string) (application.SearchState, error) {
	settledCh := make(chan application.SearchState, 1)
	unsubscribe := controller.Subscribe(func(state application.SearchState) {
		if !settled(state.Status) {
			return
		}
		select {
		case settledCh <- state:
		default:
		}
	})
	defer unsubscribe()

	controller.OnQueryChange(query)

	select {
	case state := <-settledCh:
		if state.Status == application.SearchFailed {
			return state, state.Err
		}
		return state, nil
	case <-ctx.Done():
		return application.SearchState{}, ctx.Err()
	}
}
