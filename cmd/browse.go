package cmd

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/academix-cli/internal/adapters/tui/browse"
	"github.com/spf13/cobra"
)

func newBrowseCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive landing page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Core logs would tear the alternate screen.
			sess, err := app.openSession(cmd.Context(), io.Discard)
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			p := tea.NewProgram(
				browse.New(cmd.Context(), sess.core),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			unbind := browse.Bind(sess.core, p.Send)
			defer unbind()

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run browse: %w", err)
			}
			return nil
		},
	}
}
