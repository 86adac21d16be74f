package cli

import (
	"github.com/spf13/cobra"

	"hearline-admin/internal/filter"
	"hearline-admin/internal/format"
	"hearline-admin/internal/model"
)

func newSessionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Work with platform sessions",
	}
	cmd.AddCommand(newSessionsListCmd(app))
	return cmd
}

func newSessionsListCmd(app *App) *cobra.Command {
	var (
		page     int
		pageSize int
		search   string
		outFmt   string
		pretty   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of sessions",
		Long: `List one page of the platform sessions collection.

--search filters the fetched page only; pagination is server-side, so it is
not a full-collection search.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := loadClient(app)
			if err != nil {
				return err
			}
			if pageSize <= 0 {
				pageSize = cfg.EffectivePageSize()
			}

			sessions, _, err := client.FetchSessions(cmd.Context(), page, pageSize)
			if err != nil {
				return err
			}
			visible := filter.Visible(model.ValidSessions(sessions), search)
			return format.Write(cmd.OutOrStdout(), visible, outFmt, pretty)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "1-based page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "records per page (default from config)")
	cmd.Flags().StringVar(&search, "search", "", "filter the fetched page (user, listener, or date)")
	cmd.Flags().StringVar(&outFmt, "format", "table", "output format: table|json")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "pretty-print JSON output")
	return cmd
}
