package cli

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tcmc-hq/tcmc-client/pkg/tcmc"
	"github.com/tcmc-hq/tcmc-client/pkg/tcmc/clientuser"
	"github.com/tcmc-hq/tcmc-client/pkg/tcmc/qalog"
)

func newSessionsCmd(st *state) *cobra.Command {
	var (
		page    tcmc.PageParam
		filters []string
		users   bool
	)

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Page through consultation sessions (or users with --users)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := parseParams(filters)
			if err != nil {
				return err
			}
			page.Filters = params

			client := clientuser.NewClient(st.dispatcher)
			if users {
				res, err := client.GetClientUserPage(cmd.Context(), page)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			}
			res, err := client.GetSessionPage(cmd.Context(), page)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().IntVar(&page.PageNo, "page", 1, "Page number")
	cmd.Flags().IntVar(&page.PageSize, "size", 10, "Page size")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Filter key=value (repeatable)")
	cmd.Flags().BoolVar(&users, "users", false, "List client users instead of sessions")
	return cmd
}

func newQALogCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "qalog <sessionId>",
		Short: "List the QA logs of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}
			logs, err := qalog.NewClient(st.dispatcher).GetQALogList(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), logs)
		},
	}
}
